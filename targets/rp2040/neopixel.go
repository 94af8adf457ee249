//go:build rp2040

package main

import (
	"image/color"
	"machine"
	"sync"
	"time"

	"tinygo.org/x/drivers/ws2812"

	"patchbay/core"
)

// neoIndicator implements core.Indicator on a WS2812 strip, one pixel
// per pedal position. Fitted instead of the 74HC595 bank on boards
// without the register chain.
type neoIndicator struct {
	dev ws2812.Device

	mu     sync.Mutex
	pixels [core.NumPedals]color.RGBA
	blink  bool
}

var (
	neoOff    = color.RGBA{}
	neoActive = color.RGBA{R: 0x00, G: 0x40, B: 0x10}
	neoPrompt = color.RGBA{R: 0x40, G: 0x20, B: 0x00}
)

func newNeoIndicator(pin machine.Pin) *neoIndicator {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &neoIndicator{dev: ws2812.New(pin)}
}

func (n *neoIndicator) write() {
	n.dev.WriteColors(n.pixels[:])
}

func (n *neoIndicator) fill(c color.RGBA) {
	for i := range n.pixels {
		n.pixels[i] = c
	}
}

func (n *neoIndicator) SetChainIndicator(chain core.Chain) {
	n.mu.Lock()
	n.fill(neoOff)
	for _, p := range chain {
		if p >= 1 && p <= core.NumPedals {
			n.pixels[p-1] = neoActive
		}
	}
	n.write()
	n.mu.Unlock()
}

func (n *neoIndicator) Flash(count uint8, onMS, offMS uint32) {
	n.mu.Lock()
	prev := n.pixels
	for i := uint8(0); i < count; i++ {
		n.fill(neoActive)
		n.write()
		time.Sleep(time.Duration(onMS) * time.Millisecond)
		n.fill(neoOff)
		n.write()
		time.Sleep(time.Duration(offMS) * time.Millisecond)
	}
	n.pixels = prev
	n.write()
	n.mu.Unlock()
}

func (n *neoIndicator) BlinkAll(start bool) {
	n.mu.Lock()
	if start == n.blink {
		n.mu.Unlock()
		return
	}
	n.blink = start
	n.mu.Unlock()

	if !start {
		return
	}

	go func() {
		on := true
		for {
			n.mu.Lock()
			if !n.blink {
				n.mu.Unlock()
				return
			}
			if on {
				n.fill(neoPrompt)
			} else {
				n.fill(neoOff)
			}
			n.write()
			n.mu.Unlock()
			on = !on
			time.Sleep(250 * time.Millisecond)
		}
	}()
}
