//go:build rp2040

package main

import (
	"errors"

	"machine"

	"tinygo.org/x/drivers/at24cx"

	"patchbay/core"
)

// EEPROM layout: one 16-byte slot per key. Byte 0 is a presence marker
// (erased EEPROM reads 0xFF, so an unwritten slot never looks valid),
// followed by the fixed-size chain record.
const (
	eepromSlotSize = 16
	eepromMarker   = 0xA5
)

var errUnknownKey = errors.New("storage: unknown key")

// eepromStore implements core.Storage on an AT24C32 I2C EEPROM
type eepromStore struct {
	dev at24cx.Device
}

func newEEPROMStore(bus *machine.I2C) *eepromStore {
	dev := at24cx.New(bus)
	dev.Configure(at24cx.Config{PageSize: 32})
	return &eepromStore{dev: dev}
}

// slotOffset maps a persistence key to its EEPROM slot
func slotOffset(key string) (int64, bool) {
	if key == core.LiveKey {
		return 0, true
	}
	for i := 0; i < core.NumPresets; i++ {
		if key == core.PresetKey(i) {
			return int64((i + 1) * eepromSlotSize), true
		}
	}
	return 0, false
}

func (s *eepromStore) Get(key string, buf []byte) (int, bool, error) {
	off, ok := slotOffset(key)
	if !ok {
		return 0, false, errUnknownKey
	}

	var slot [1 + core.RecordSize]byte
	if _, err := s.dev.ReadAt(slot[:], off); err != nil {
		return 0, false, err
	}
	if slot[0] != eepromMarker {
		return 0, false, nil // never written
	}
	copy(buf, slot[1:])
	return core.RecordSize, true, nil
}

func (s *eepromStore) Put(key string, data []byte) error {
	off, ok := slotOffset(key)
	if !ok {
		return errUnknownKey
	}
	if len(data) > eepromSlotSize-1 {
		return errors.New("storage: record too large")
	}

	var slot [eepromSlotSize]byte
	slot[0] = eepromMarker
	copy(slot[1:], data)
	// The AT24Cx commits each page write internally before ACKing the
	// next transaction, so returning here is a durable commit.
	_, err := s.dev.WriteAt(slot[:1+len(data)], off)
	return err
}
