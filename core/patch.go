// Patch store: the live chain, the preset slots, and their persistence.
// Records are fixed-size blobs: one length byte followed by NumPedals
// pedal-id bytes, zero-padded beyond the length.
package core

import "errors"

// Persistence keys
const (
	// LiveKey stores the currently active chain
	LiveKey = "live_cfg"

	presetKeyPrefix = "preset_"
)

// RecordSize is the fixed size of a persisted chain record
const RecordSize = 1 + NumPedals

var (
	// ErrBadRecord is returned for a persisted record of the wrong size
	// or with an out-of-range length byte
	ErrBadRecord = errors.New("patch: malformed chain record")

	// ErrBadSlot is returned for a preset slot outside 0..NumPresets-1
	ErrBadSlot = errors.New("patch: preset slot out of range")
)

// PresetKey returns the persistence key of a preset slot
func PresetKey(slot int) string {
	return presetKeyPrefix + itoa(slot)
}

// EncodeChain serializes a chain into a fixed-size record
func EncodeChain(c Chain) [RecordSize]byte {
	var rec [RecordSize]byte
	rec[0] = byte(len(c))
	for i, p := range c {
		rec[1+i] = byte(p)
	}
	return rec
}

// DecodeChain parses a fixed-size record back into a chain
func DecodeChain(rec []byte) (Chain, error) {
	if len(rec) != RecordSize {
		return nil, ErrBadRecord
	}
	n := int(rec[0])
	if n > NumPedals {
		return nil, ErrBadRecord
	}
	if n == 0 {
		return nil, nil
	}
	out := make(Chain, n)
	for i := 0; i < n; i++ {
		out[i] = PedalID(rec[1+i])
	}
	return out, nil
}

// PatchStore holds the live chain and the preset slots in memory and
// mediates all access to durable storage. It performs no I/O of its own
// beyond the injected Storage capability.
type PatchStore struct {
	store   Storage
	live    Chain
	presets [NumPresets]Chain
}

// NewPatchStore returns a patch store backed by the given storage
func NewPatchStore(store Storage) *PatchStore {
	return &PatchStore{store: store}
}

// Load reads the live chain and every preset slot from storage.
// A missing key is a valid empty chain; a malformed record falls back to
// an empty chain. The first error encountered is returned after all keys
// have been attempted, so one bad record never blocks the rest.
func (p *PatchStore) Load() error {
	var firstErr error

	live, err := p.loadKey(LiveKey)
	if err != nil && firstErr == nil {
		firstErr = err
	}
	p.live = live

	for i := 0; i < NumPresets; i++ {
		c, err := p.loadKey(PresetKey(i))
		if err != nil && firstErr == nil {
			firstErr = err
		}
		p.presets[i] = c
	}
	return firstErr
}

// loadKey reads and decodes one chain record. Errors degrade to an
// empty chain per the storage contract.
func (p *PatchStore) loadKey(key string) (Chain, error) {
	var buf [RecordSize]byte
	n, found, err := p.store.Get(key, buf[:])
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if n != RecordSize {
		// Stored blob of the wrong size: treat like corrupt storage
		return nil, ErrBadRecord
	}
	c, err := DecodeChain(buf[:])
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Live returns the currently active chain
func (p *PatchStore) Live() Chain {
	return p.live
}

// SetLive replaces the in-memory live chain without persisting it
func (p *PatchStore) SetLive(c Chain) {
	p.live = c.Clone()
}

// Preset returns the chain stored in a preset slot.
// Out-of-range slots return an empty chain.
func (p *PatchStore) Preset(slot int) Chain {
	if slot < 0 || slot >= NumPresets {
		return nil
	}
	return p.presets[slot]
}

// MatchesAnyPreset scans the preset slots in ascending order and returns
// the first slot whose chain is byte-for-byte identical to c, or -1.
// An empty chain never matches: bypass is not a preset.
func (p *PatchStore) MatchesAnyPreset(c Chain) int8 {
	if len(c) == 0 {
		return -1
	}
	for i := 0; i < NumPresets; i++ {
		if c.Equal(p.presets[i]) {
			return int8(i)
		}
	}
	return -1
}

// SaveLive persists the in-memory live chain under the live key
func (p *PatchStore) SaveLive() error {
	rec := EncodeChain(p.live)
	return p.store.Put(LiveKey, rec[:])
}

// ReloadLive re-reads the live chain from storage, discarding the
// in-memory value. On error the live chain falls back to empty so the
// device always returns to a valid state.
func (p *PatchStore) ReloadLive() error {
	live, err := p.loadKey(LiveKey)
	p.live = live
	return err
}

// StorePreset persists the given chain into a preset slot.
// The in-memory slot is updated only after the write commits.
func (p *PatchStore) StorePreset(slot int, c Chain) error {
	if slot < 0 || slot >= NumPresets {
		return ErrBadSlot
	}
	rec := EncodeChain(c)
	if err := p.store.Put(PresetKey(slot), rec[:]); err != nil {
		return err
	}
	p.presets[slot] = c.Clone()
	return nil
}
