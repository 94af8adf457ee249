// Button debouncing and press classification
// Converts raw, noisy line levels into stable states and discrete
// short/long press events consumed by the mode state machine.
package core

// Button tracks the debounced state and press classification of one input line.
// All times are Clock milliseconds. The owner calls Update once per polling
// cycle and ClearEvents at the end of the cycle after consuming the flags.
type Button struct {
	Line LineID

	debounceMS  uint32
	longPressMS uint32

	pressed   bool   // debounced state, true while held
	lastRaw   bool   // last raw sample (after active-low inversion)
	changedAt uint32 // when the raw level last diverged
	settling  bool   // raw change pending re-sample

	// Edge timestamps
	PressTime   uint32
	ReleaseTime uint32

	// One-shot event flags, valid for a single polling cycle
	ShortPress         bool
	LongPressCompleted bool

	// Long-press latch, set once per physical hold while still held.
	// Cleared on release; consumed via TakeLongPress for mode entry.
	longOngoing bool
	longTaken   bool
}

// NewButton returns a button tracker for the given line
func NewButton(line LineID, cfg Config) Button {
	return Button{
		Line:        line,
		debounceMS:  cfg.DebounceMS,
		longPressMS: cfg.LongPressMS,
	}
}

// Pressed returns the debounced state
func (b *Button) Pressed() bool {
	return b.pressed
}

// LongPressOngoing reports whether the long-press threshold has been
// crossed during the current hold
func (b *Button) LongPressOngoing() bool {
	return b.longOngoing
}

// Update advances the debouncer and classifier with one raw sample.
// level is the logic level read from the line; buttons are active-low,
// so a low level means the button is physically pressed.
func (b *Button) Update(level bool, now uint32) {
	raw := !level // active-low

	if raw != b.lastRaw {
		// Raw edge: (re)start the debounce window. Bounce inside the
		// window keeps pushing the re-sample point out.
		b.lastRaw = raw
		b.changedAt = now
		b.settling = raw != b.pressed
	}

	if b.settling && now-b.changedAt >= b.debounceMS {
		b.settling = false
		if raw != b.pressed {
			b.pressed = raw
			if raw {
				b.onPress(now)
			} else {
				b.onRelease(now)
			}
		}
	}

	// Long-press threshold crossing fires exactly once per hold;
	// it re-arms only after release.
	if b.pressed && !b.longOngoing && !b.longTaken {
		if now-b.PressTime >= b.longPressMS {
			b.longOngoing = true
		}
	}
}

func (b *Button) onPress(now uint32) {
	b.PressTime = now
	b.longOngoing = false
	b.longTaken = false
}

func (b *Button) onRelease(now uint32) {
	b.ReleaseTime = now
	if b.longOngoing || b.longTaken {
		b.LongPressCompleted = true
		b.longOngoing = false
	} else {
		b.ShortPress = true
	}
}

// TakeLongPress consumes the long-press latch. It returns true exactly once
// per hold, so a mode transition triggered while the button is still held
// cannot re-trigger on the next cycle.
func (b *Button) TakeLongPress() bool {
	if b.longOngoing && !b.longTaken {
		b.longTaken = true
		return true
	}
	return false
}

// ClearEvents clears the one-shot event flags at the end of a polling cycle
func (b *Button) ClearEvents() {
	b.ShortPress = false
	b.LongPressCompleted = false
}
