package sim

import "time"

// WallClock implements core.Clock from the host's monotonic clock
type WallClock struct {
	epoch time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{epoch: time.Now()}
}

func (c *WallClock) Millis() uint32 {
	return uint32(time.Since(c.epoch) / time.Millisecond)
}
