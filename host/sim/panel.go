package sim

import (
	"sync"

	"patchbay/core"
)

// Panel implements core.Display, core.Indicator and core.Router by
// recording the device's outward-facing state for the TUI to render.
// The polling loop writes it and the view reads it, hence the lock.
type Panel struct {
	mu sync.Mutex

	chain      core.Chain
	loadedSlot int8
	status     core.Status

	leds     [core.NumPedals]bool
	blinking bool
	flashes  int

	routed      core.Chain
	routedCount int
}

// PanelState is a consistent snapshot for rendering
type PanelState struct {
	Chain      core.Chain
	LoadedSlot int8
	Status     core.Status
	LEDs       [core.NumPedals]bool
	Blinking   bool
	Flashes    int
	Routed     core.Chain
	RouteCount int
}

func NewPanel() *Panel {
	return &Panel{loadedSlot: -1}
}

func (p *Panel) ShowChain(chain core.Chain, loadedSlot int8) {
	p.mu.Lock()
	p.chain = chain.Clone()
	p.loadedSlot = loadedSlot
	p.mu.Unlock()
}

func (p *Panel) ShowStatus(st core.Status) {
	p.mu.Lock()
	p.status = st
	p.mu.Unlock()
}

func (p *Panel) SetChainIndicator(chain core.Chain) {
	p.mu.Lock()
	p.leds = [core.NumPedals]bool{}
	for _, id := range chain {
		if id >= 1 && id <= core.NumPedals {
			p.leds[id-1] = true
		}
	}
	p.mu.Unlock()
}

func (p *Panel) Flash(count uint8, onMS, offMS uint32) {
	p.mu.Lock()
	p.flashes += int(count)
	p.mu.Unlock()
}

func (p *Panel) BlinkAll(start bool) {
	p.mu.Lock()
	p.blinking = start
	p.mu.Unlock()
}

func (p *Panel) ApplyChain(chain core.Chain) {
	p.mu.Lock()
	p.routed = chain.Clone()
	p.routedCount++
	p.mu.Unlock()
}

// Snapshot returns the current panel state for rendering
func (p *Panel) Snapshot() PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PanelState{
		Chain:      p.chain.Clone(),
		LoadedSlot: p.loadedSlot,
		Status:     p.status,
		LEDs:       p.leds,
		Blinking:   p.blinking,
		Flashes:    p.flashes,
		Routed:     p.routed.Clone(),
		RouteCount: p.routedCount,
	}
}
