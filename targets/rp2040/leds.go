//go:build rp2040

package main

import (
	"machine"
	"sync"
	"time"

	"patchbay/core"
)

// pwmSlice abstracts over TinyGo's unexported *pwmGroup type
type pwmSlice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// ledBank implements core.Indicator on a 74HC595 shift register.
// Outputs are active-low: a cleared bit lights the LED. Brightness is
// a hardware PWM on the register's /OE pin (100Hz, like the original
// software dimmer, but without burning a task on it).
type ledBank struct {
	ser   machine.Pin
	srclk machine.Pin
	rclk  machine.Pin
	srclr machine.Pin

	pwm     pwmSlice
	channel uint8

	mu    sync.Mutex
	state uint8 // shadow of the register, 1 = off
	blink bool
}

func newLEDBank() *ledBank {
	b := &ledBank{
		ser:   pinLedSER,
		srclk: pinLedSRCLK,
		rclk:  pinLedRCLK,
		srclr: pinLedSRCLR,
		state: 0xFF, // all off
	}
	for _, p := range []machine.Pin{b.ser, b.srclk, b.rclk, b.srclr} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}

	// Clear the register into a known state
	b.srclr.Low()
	time.Sleep(time.Millisecond)
	b.srclr.High()

	// /OE dimming: GPIO19 sits on PWM slice 1 channel B
	pinLedOE.Configure(machine.PinConfig{Mode: machine.PinPWM})
	b.pwm = machine.PWM1
	if err := b.pwm.Configure(machine.PWMConfig{Period: 10_000_000}); err == nil {
		if ch, err := b.pwm.Channel(pinLedOE); err == nil {
			b.channel = ch
			b.pwm.Set(ch, 0) // /OE low, outputs enabled
		}
	}

	b.shiftOut(b.state)
	return b
}

// shiftOut clocks one byte into the register, MSB first, then latches it
func (b *ledBank) shiftOut(value uint8) {
	for i := 7; i >= 0; i-- {
		if (value>>uint(i))&1 != 0 {
			b.ser.High()
		} else {
			b.ser.Low()
		}
		b.srclk.High()
		b.srclk.Low()
	}
	b.rclk.High()
	b.rclk.Low()
}

func (b *ledBank) apply(state uint8) {
	b.state = state
	b.shiftOut(state)
}

// SetChainIndicator lights the LED of every pedal present in the chain
func (b *ledBank) SetChainIndicator(chain core.Chain) {
	var mask uint8
	for _, p := range chain {
		if p >= 1 && p <= core.NumPedals {
			mask |= 1 << (p - 1)
		}
	}
	b.mu.Lock()
	b.apply(^mask) // active-low
	b.mu.Unlock()
}

// Flash flashes all LEDs count times, restoring the previous pattern
func (b *ledBank) Flash(count uint8, onMS, offMS uint32) {
	b.mu.Lock()
	prev := b.state
	for i := uint8(0); i < count; i++ {
		b.apply(0x00)
		time.Sleep(time.Duration(onMS) * time.Millisecond)
		b.apply(0xFF)
		time.Sleep(time.Duration(offMS) * time.Millisecond)
	}
	b.apply(prev)
	b.mu.Unlock()
}

// BlinkAll starts or stops a steady all-LED blink used as the
// slot-select prompt. The caller repaints the pattern after stopping
// (the controller always follows BlinkAll(false) with SetChainIndicator).
func (b *ledBank) BlinkAll(start bool) {
	b.mu.Lock()
	if start == b.blink {
		b.mu.Unlock()
		return
	}
	b.blink = start
	b.mu.Unlock()

	if !start {
		return
	}

	go func() {
		on := true
		for {
			b.mu.Lock()
			if !b.blink {
				b.mu.Unlock()
				return
			}
			if on {
				b.apply(0x00)
			} else {
				b.apply(0xFF)
			}
			b.mu.Unlock()
			on = !on
			time.Sleep(250 * time.Millisecond)
		}
	}()
}

// SetBrightness dims all LEDs by PWM on /OE (0 = off, 100 = full)
func (b *ledBank) SetBrightness(percent uint8) {
	if percent > 100 {
		percent = 100
	}
	if b.pwm == nil {
		return
	}
	// /OE is active-low, so the duty cycle is inverted
	top := b.pwm.Top()
	b.pwm.Set(b.channel, top*uint32(100-percent)/100)
}
