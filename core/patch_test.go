package core

import (
	"errors"
	"testing"
)

// memStore is an in-memory Storage for tests
type memStore struct {
	m       map[string][]byte
	failGet bool
	failPut bool
}

var errStorage = errors.New("simulated storage failure")

func newMemStore() *memStore {
	return &memStore{m: make(map[string][]byte)}
}

func (s *memStore) Get(key string, buf []byte) (int, bool, error) {
	if s.failGet {
		return 0, false, errStorage
	}
	blob, ok := s.m[key]
	if !ok {
		return 0, false, nil
	}
	copy(buf, blob)
	return len(blob), true, nil
}

func (s *memStore) Put(key string, data []byte) error {
	if s.failPut {
		return errStorage
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.m[key] = cp
	return nil
}

func TestChainRecordRoundTrip(t *testing.T) {
	chains := []Chain{
		nil,
		{3},
		{1, 2},
		{8, 7, 6, 5},
		{1, 2, 3, 4, 5, 6, 7, 8},
	}

	for _, c := range chains {
		rec := EncodeChain(c)
		got, err := DecodeChain(rec[:])
		if err != nil {
			t.Fatalf("decode(%v): %v", c, err)
		}
		if !got.Equal(c) {
			t.Errorf("round trip of %v gave %v", c, got)
		}
	}
}

func TestDecodeChainMalformed(t *testing.T) {
	cases := []struct {
		name string
		rec  []byte
	}{
		{"too short", make([]byte, RecordSize-1)},
		{"too long", make([]byte, RecordSize+1)},
		{"length out of range", append([]byte{9}, make([]byte, NumPedals)...)},
		{"erased eeprom", func() []byte {
			b := make([]byte, RecordSize)
			for i := range b {
				b[i] = 0xFF
			}
			return b
		}()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeChain(tc.rec); err == nil {
				t.Error("malformed record decoded without error")
			}
		})
	}
}

func TestLoadMissingKeysIsEmptyChain(t *testing.T) {
	p := NewPatchStore(newMemStore())
	if err := p.Load(); err != nil {
		t.Fatalf("load on fresh store: %v", err)
	}
	if len(p.Live()) != 0 {
		t.Errorf("fresh live chain = %v, want empty", p.Live())
	}
	for i := 0; i < NumPresets; i++ {
		if len(p.Preset(i)) != 0 {
			t.Errorf("fresh preset %d = %v, want empty", i, p.Preset(i))
		}
	}
}

func TestLoadMalformedFallsBackToEmpty(t *testing.T) {
	store := newMemStore()
	store.m[LiveKey] = []byte{1, 2, 3} // wrong size
	p := NewPatchStore(store)

	if err := p.Load(); err == nil {
		t.Fatal("load of malformed record reported no error")
	}
	if len(p.Live()) != 0 {
		t.Errorf("malformed live record gave chain %v, want empty", p.Live())
	}
}

func TestSaveLiveRoundTrip(t *testing.T) {
	store := newMemStore()
	p := NewPatchStore(store)
	p.SetLive(Chain{3, 1, 2})
	if err := p.SaveLive(); err != nil {
		t.Fatal(err)
	}

	q := NewPatchStore(store)
	if err := q.Load(); err != nil {
		t.Fatal(err)
	}
	if !q.Live().Equal(Chain{3, 1, 2}) {
		t.Errorf("reloaded live = %v, want [3 1 2]", q.Live())
	}
}

func TestStorePresetUpdatesMemoryOnlyOnCommit(t *testing.T) {
	store := newMemStore()
	p := NewPatchStore(store)

	store.failPut = true
	if err := p.StorePreset(2, Chain{3}); err == nil {
		t.Fatal("expected write failure")
	}
	if len(p.Preset(2)) != 0 {
		t.Errorf("failed write mutated preset slot: %v", p.Preset(2))
	}

	store.failPut = false
	if err := p.StorePreset(2, Chain{3}); err != nil {
		t.Fatal(err)
	}
	if !p.Preset(2).Equal(Chain{3}) {
		t.Errorf("preset 2 = %v, want [3]", p.Preset(2))
	}
}

func TestStorePresetSlotRange(t *testing.T) {
	p := NewPatchStore(newMemStore())
	if err := p.StorePreset(-1, Chain{1}); err != ErrBadSlot {
		t.Errorf("slot -1: err = %v, want ErrBadSlot", err)
	}
	if err := p.StorePreset(NumPresets, Chain{1}); err != ErrBadSlot {
		t.Errorf("slot %d: err = %v, want ErrBadSlot", NumPresets, err)
	}
}

func TestMatchesAnyPreset(t *testing.T) {
	p := NewPatchStore(newMemStore())
	if err := p.StorePreset(1, Chain{3, 1}); err != nil {
		t.Fatal(err)
	}
	if err := p.StorePreset(4, Chain{3, 1}); err != nil {
		t.Fatal(err)
	}
	if err := p.StorePreset(6, Chain{2}); err != nil {
		t.Fatal(err)
	}

	// First match wins, ascending slot order
	if got := p.MatchesAnyPreset(Chain{3, 1}); got != 1 {
		t.Errorf("MatchesAnyPreset([3 1]) = %d, want 1", got)
	}
	if got := p.MatchesAnyPreset(Chain{2}); got != 6 {
		t.Errorf("MatchesAnyPreset([2]) = %d, want 6", got)
	}
	if got := p.MatchesAnyPreset(Chain{1, 3}); got != -1 {
		t.Errorf("MatchesAnyPreset([1 3]) = %d, want -1 (order matters)", got)
	}
	// Bypass never matches a slot
	if got := p.MatchesAnyPreset(nil); got != -1 {
		t.Errorf("MatchesAnyPreset(bypass) = %d, want -1", got)
	}
}

func TestReloadLiveDiscardsEdits(t *testing.T) {
	store := newMemStore()
	p := NewPatchStore(store)
	p.SetLive(Chain{5})
	if err := p.SaveLive(); err != nil {
		t.Fatal(err)
	}

	p.SetLive(Chain{1, 2, 3})
	if err := p.ReloadLive(); err != nil {
		t.Fatal(err)
	}
	if !p.Live().Equal(Chain{5}) {
		t.Errorf("reload gave %v, want [5]", p.Live())
	}
}

func TestReloadLiveErrorFallsBackToEmpty(t *testing.T) {
	store := newMemStore()
	p := NewPatchStore(store)
	p.SetLive(Chain{1, 2})

	store.failGet = true
	if err := p.ReloadLive(); err == nil {
		t.Fatal("expected read failure")
	}
	if len(p.Live()) != 0 {
		t.Errorf("failed reload left chain %v, want empty", p.Live())
	}
}
