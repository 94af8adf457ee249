// Effect chain model for the patch bay
// A chain is the ordered list of pedal loops the signal passes through.
package core

const (
	// NumPedals is the number of physical effect loop positions
	NumPedals = 8

	// NumPresets is the number of storable user presets
	NumPresets = 8
)

// PedalID identifies one physical effect position, 1..NumPedals.
// 0 is reserved and never appears in a valid chain.
type PedalID uint8

// Chain is an ordered effect loop routing. Length 0 means bypass
// (the signal passes straight through).
type Chain []PedalID

// Contains reports whether the pedal is already part of the chain
func (c Chain) Contains(id PedalID) bool {
	for _, p := range c {
		if p == id {
			return true
		}
	}
	return false
}

// Equal reports whether two chains have the same length and order
func (c Chain) Equal(other Chain) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the chain
func (c Chain) Clone() Chain {
	if len(c) == 0 {
		return nil
	}
	out := make(Chain, len(c))
	copy(out, c)
	return out
}

// String renders the chain for displays and logs, e.g. "3->1->2".
// An empty chain renders as "Bypass".
func (c Chain) String() string {
	if len(c) == 0 {
		return "Bypass"
	}
	s := ""
	for i, p := range c {
		if i > 0 {
			s += "->"
		}
		s += itoa(int(p))
	}
	return s
}
