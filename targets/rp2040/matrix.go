//go:build rp2040

package main

import (
	"machine"

	"patchbay/core"
)

// matrixImageSize is the number of shift-register bytes driving the
// analog switch matrix (five 74HC595s in a chain)
const matrixImageSize = 5

// matrixDriver implements core.Router. It derives the shift-register
// image for the analog routing matrix from the ordered chain and clocks
// it out. The bit assignment of each mux address follows the board
// netlist; the electrical mapping itself is the board's concern.
type matrixDriver struct {
	data  machine.Pin
	clock machine.Pin
	latch machine.Pin
}

func newMatrixDriver() *matrixDriver {
	m := &matrixDriver{
		data:  pinMatrixData,
		clock: pinMatrixClock,
		latch: pinMatrixLatch,
	}
	for _, p := range []machine.Pin{m.data, m.clock, m.latch} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	return m
}

// ApplyChain programs the matrix for the given chain
func (m *matrixDriver) ApplyChain(chain core.Chain) {
	image := routeImage(chain)
	m.shiftOut(image[:])
	core.DebugPrintln("patchbay: matrix " + chain.String())
}

// routeImage packs the chain into the register image. Each hop selects
// one mux input with a 4-bit address, two hops per byte; the last byte
// carries the enable flag and the hop count.
func routeImage(chain core.Chain) [matrixImageSize]byte {
	var image [matrixImageSize]byte
	if len(chain) == 0 {
		// Bypass: route the input straight to the output
		image[0] = 0x01
		return image
	}
	for i, p := range chain {
		addr := byte(p) & 0x0F
		if i%2 == 1 {
			addr <<= 4
		}
		image[i/2] |= addr
	}
	image[4] = 0x80 | byte(len(chain))
	return image
}

// shiftOut clocks the image into the register chain, MSB first
func (m *matrixDriver) shiftOut(image []byte) {
	m.latch.Low()
	for _, b := range image {
		for i := 7; i >= 0; i-- {
			if (b>>uint(i))&1 != 0 {
				m.data.High()
			} else {
				m.data.Low()
			}
			m.clock.High()
			m.clock.Low()
		}
	}
	m.latch.High()
}
