// Capability interfaces between the control core and its peripherals.
// Platform-specific implementations (targets/, host/sim) handle the hardware;
// the core only sees these contracts.
package core

// LineID identifies one debounced input line
type LineID uint8

// Input line assignment. Pedal buttons occupy lines 0..NumPedals-1 and
// double as preset slot selectors in the recall/save select modes.
const (
	LineEdit   LineID = NumPedals     // program / commit / save control
	LinePreset LineID = NumPedals + 1 // recall / save-select control

	NumLines = NumPedals + 2
)

// PedalLine returns the input line of a pedal button (index 0..NumPedals-1)
func PedalLine(i int) LineID {
	return LineID(i)
}

// InputDriver exposes the raw logic level of the input lines.
// Buttons are wired active-low: pressed reads low (false).
type InputDriver interface {
	// Level reads the current logic level of a line, polled once per cycle
	Level(line LineID) bool
}

// Storage is a durable key -> blob store (NVS, EEPROM, files, ...).
// Records are fixed-size; encoding is the patch store's responsibility.
type Storage interface {
	// Get reads the blob stored under key into buf. n is the stored
	// blob's size, even when it exceeds len(buf); only min(n, len(buf))
	// bytes are copied. found is false when the key was never written,
	// which is not an error.
	Get(key string, buf []byte) (n int, found bool, err error)

	// Put durably commits the blob under key before returning
	Put(key string, data []byte) error
}

// Display is the status/chain readout. Calls are fire-and-forget;
// the core never consults a result for control flow.
type Display interface {
	// ShowChain updates the chain readout. loadedSlot is the preset slot
	// the live chain was loaded from, or -1 for a custom/live chain.
	ShowChain(chain Chain, loadedSlot int8)

	// ShowStatus updates the status line
	ShowStatus(st Status)
}

// Indicator drives the optional LED bank
type Indicator interface {
	// SetChainIndicator lights the LEDs of the pedals present in the chain
	SetChainIndicator(chain Chain)

	// Flash flashes all chain LEDs count times
	Flash(count uint8, onMS, offMS uint32)

	// BlinkAll starts or stops a steady all-LED blink (slot-select prompt)
	BlinkAll(start bool)
}

// Router programs the physical routing matrix
type Router interface {
	// ApplyChain routes the signal path for the given chain.
	// An empty chain routes the signal straight through.
	ApplyChain(chain Chain)
}

// Clock provides the time base for debouncing and press classification
type Clock interface {
	// Millis returns milliseconds since boot, wrapping at uint32
	Millis() uint32
}

// NopDisplay is used when no display is fitted
type NopDisplay struct{}

func (NopDisplay) ShowChain(Chain, int8) {}
func (NopDisplay) ShowStatus(Status)     {}

// NopIndicator is used when no LED bank is fitted
type NopIndicator struct{}

func (NopIndicator) SetChainIndicator(Chain)     {}
func (NopIndicator) Flash(uint8, uint32, uint32) {}
func (NopIndicator) BlinkAll(bool)               {}

// NopRouter is used on bench setups without a matrix board
type NopRouter struct{}

func (NopRouter) ApplyChain(Chain) {}
