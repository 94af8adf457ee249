//go:build rp2040

package main

import (
	"machine"
	"time"

	"patchbay/core"
)

// Pin assignment (Raspberry Pi Pico)
const (
	// Pedal buttons 1..8, active-low with internal pull-ups
	pinPedal1 = machine.GPIO6
	pinPedal2 = machine.GPIO7
	pinPedal3 = machine.GPIO8
	pinPedal4 = machine.GPIO9
	pinPedal5 = machine.GPIO10
	pinPedal6 = machine.GPIO11
	pinPedal7 = machine.GPIO12
	pinPedal8 = machine.GPIO13

	pinEdit   = machine.GPIO14 // program / commit / save control
	pinPreset = machine.GPIO15 // recall / save-select control

	// LED bank shift register (74HC595)
	pinLedSER   = machine.GPIO16
	pinLedSRCLK = machine.GPIO17
	pinLedRCLK  = machine.GPIO18
	pinLedOE    = machine.GPIO19 // active-low, PWM dimmed
	pinLedSRCLR = machine.GPIO20 // active-low

	// Routing matrix shift registers
	pinMatrixData  = machine.GPIO21
	pinMatrixClock = machine.GPIO22
	pinMatrixLatch = machine.GPIO26

	// Optional WS2812 chain indicator strip
	pinNeoPixel = machine.GPIO27
)

// I2C bus shared by the character display and the EEPROM
const (
	i2cFrequency = 100_000 // keep the HD44780 backpack happy
	lcdAddress   = 0x27
)

// useNeoPixels selects the WS2812 strip instead of the 74HC595 LED bank.
// Change at build time to match the fitted hardware.
const useNeoPixels = false

func main() {
	// Give USB CDC a moment to enumerate so early logs are visible
	time.Sleep(2 * time.Second)

	core.SetDebugWriter(func(s string) { println(s) })
	core.SetDebugEnabled(true)

	err := machine.I2C0.Configure(machine.I2CConfig{Frequency: i2cFrequency})
	if err != nil {
		core.DebugPrintln("patchbay: i2c: " + err.Error())
	}

	var display core.Display
	if lcd, err := newLCDDisplay(machine.I2C0, lcdAddress); err != nil {
		// Run headless rather than crash: the chain still works without
		// a readout, matching the display-failure fallback of the board
		core.DebugPrintln("patchbay: lcd: " + err.Error())
		display = core.NopDisplay{}
	} else {
		display = lcd
	}

	var indicator core.Indicator
	if useNeoPixels {
		indicator = newNeoIndicator(pinNeoPixel)
	} else {
		bank := newLEDBank()
		bank.SetBrightness(80)
		indicator = bank
	}

	cfg := core.DefaultConfig()
	ctrl := core.NewController(cfg, core.Deps{
		Inputs:    newGPIOInputs(),
		Storage:   newEEPROMStore(machine.I2C0),
		Display:   display,
		Indicator: indicator,
		Router:    newMatrixDriver(),
		Clock:     newSysClock(),
	})

	ctrl.Boot()

	tick := time.Duration(cfg.TickMS) * time.Millisecond
	for {
		ctrl.Poll()
		time.Sleep(tick)
	}
}
