//go:build rp2040

package main

import "time"

// sysClock implements core.Clock as milliseconds since boot
type sysClock struct {
	epoch time.Time
}

func newSysClock() *sysClock {
	return &sysClock{epoch: time.Now()}
}

func (c *sysClock) Millis() uint32 {
	return uint32(time.Since(c.epoch) / time.Millisecond)
}
