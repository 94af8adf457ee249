// Package sim provides the simulated peripherals that let the whole
// control core run on a desktop: virtual button lines, a file-backed
// key/blob store, and a front panel the TUI renders from.
package sim

import (
	"sync"
	"time"

	"patchbay/core"
)

// VirtualInputs implements core.InputDriver. A key tap schedules the
// line to read low (pressed) for a fixed duration; the polling loop
// samples it like real hardware.
type VirtualInputs struct {
	mu    sync.Mutex
	until [core.NumLines]time.Time
}

func NewVirtualInputs() *VirtualInputs {
	return &VirtualInputs{}
}

// Tap holds a line down for the given duration starting now
func (v *VirtualInputs) Tap(line core.LineID, d time.Duration) {
	v.mu.Lock()
	v.until[line] = time.Now().Add(d)
	v.mu.Unlock()
}

// Level reads the simulated logic level (low while a tap is active)
func (v *VirtualInputs) Level(line core.LineID) bool {
	v.mu.Lock()
	pressed := time.Now().Before(v.until[line])
	v.mu.Unlock()
	return !pressed
}
