//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/hd44780i2c"

	"patchbay/core"
)

const lcdWidth = 16

// lcdDisplay implements core.Display on a 16x2 HD44780 character LCD
// behind an I2C backpack. Row 0 shows the chain, row 1 the status line.
type lcdDisplay struct {
	dev hd44780i2c.Device
}

func newLCDDisplay(bus *machine.I2C, addr uint8) (*lcdDisplay, error) {
	dev := hd44780i2c.New(bus, addr)
	err := dev.Configure(hd44780i2c.Config{
		Width:  lcdWidth,
		Height: 2,
	})
	if err != nil {
		return nil, err
	}
	dev.BacklightOn(true)
	dev.ClearDisplay()
	return &lcdDisplay{dev: dev}, nil
}

func (l *lcdDisplay) ShowChain(chain core.Chain, loadedSlot int8) {
	l.writeLine(0, renderChain(chain, loadedSlot))
}

func (l *lcdDisplay) ShowStatus(st core.Status) {
	l.writeLine(1, st.String())
}

// writeLine pads or truncates text to the full row width so stale
// characters never linger
func (l *lcdDisplay) writeLine(row uint8, text string) {
	buf := make([]byte, lcdWidth)
	for i := range buf {
		buf[i] = ' '
	}
	copy(buf, text)
	l.dev.SetCursor(0, row)
	l.dev.Print(buf)
}

// renderChain formats a chain for a 16-column row: pedal digits joined
// by '>', with the loaded preset tag appended when it fits.
// Examples: "Bypass", "3>1>2 [P4]", "1>2>3>4>5>6>7>8".
func renderChain(chain core.Chain, loadedSlot int8) string {
	if len(chain) == 0 {
		if loadedSlot >= 0 {
			return "Bypass [P" + string('1'+byte(loadedSlot)) + "]"
		}
		return "Bypass"
	}

	s := ""
	for i, p := range chain {
		if i > 0 {
			s += ">"
		}
		s += string('0' + byte(p))
	}
	if loadedSlot >= 0 {
		tag := " [P" + string('1'+byte(loadedSlot)) + "]"
		if len(s)+len(tag) <= lcdWidth {
			s += tag
		}
	}
	return s
}
