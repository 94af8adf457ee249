package core

// StatusCode identifies a user-visible status message.
// Statuses are structured values rather than formatted strings so that
// display drivers stay language-neutral and trivially testable.
type StatusCode uint8

const (
	StatusNone StatusCode = iota // clear the status line
	StatusBypass
	StatusProgramChain
	StatusAlreadyInChain
	StatusChainFull
	StatusSaved
	StatusCanceled
	StatusLoadPreset // slot-select prompt in recall mode
	StatusSavePreset // slot-select prompt in save mode
	StatusPresetLoaded
	StatusPresetSaved
	StatusLoadCanceled
	StatusSaveCanceled
	StatusLoadFailed
	StatusSaveFailed
)

// Status is a status code plus an optional preset slot parameter.
// Slot is -1 when the code takes no parameter.
type Status struct {
	Code StatusCode
	Slot int8
}

// NewStatus returns a parameterless status
func NewStatus(code StatusCode) Status {
	return Status{Code: code, Slot: -1}
}

// SlotStatus returns a status carrying a preset slot index (0..NumPresets-1)
func SlotStatus(code StatusCode, slot int8) Status {
	return Status{Code: code, Slot: slot}
}

// String renders the literal display text of the status.
// Preset slots are shown 1-based, matching the pedal button labels.
func (s Status) String() string {
	switch s.Code {
	case StatusNone:
		return ""
	case StatusBypass:
		return "Bypass"
	case StatusProgramChain:
		return "Program Chain"
	case StatusAlreadyInChain:
		return "Already In Chain!"
	case StatusChainFull:
		return "Chain Full!"
	case StatusSaved:
		return "Saved!"
	case StatusCanceled:
		return "Canceled"
	case StatusLoadPreset:
		return "Load Preset"
	case StatusSavePreset:
		return "Save Preset"
	case StatusPresetLoaded:
		return "P" + itoa(int(s.Slot)+1) + " Loaded"
	case StatusPresetSaved:
		return "Saved P" + itoa(int(s.Slot)+1)
	case StatusLoadCanceled:
		return "Load Canceled"
	case StatusSaveCanceled:
		return "Save Canceled"
	case StatusLoadFailed:
		return "Load Failed!"
	case StatusSaveFailed:
		return "Save Failed!"
	default:
		return ""
	}
}
