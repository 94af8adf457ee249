//go:build rp2040

package main

import (
	"machine"

	"patchbay/core"
)

// gpioInputs implements core.InputDriver over the button GPIOs.
// All buttons switch to ground; the internal pull-ups keep idle lines high.
type gpioInputs struct {
	pins [core.NumLines]machine.Pin
}

func newGPIOInputs() *gpioInputs {
	g := &gpioInputs{
		pins: [core.NumLines]machine.Pin{
			pinPedal1, pinPedal2, pinPedal3, pinPedal4,
			pinPedal5, pinPedal6, pinPedal7, pinPedal8,
			pinEdit, pinPreset,
		},
	}
	for _, p := range g.pins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	return g
}

// Level reads the raw logic level of a line (low = pressed)
func (g *gpioInputs) Level(line core.LineID) bool {
	return g.pins[line].Get()
}
