// Mode state machine for the patch bay.
// The controller owns all core state and is advanced by a single
// cooperative polling loop: each Poll reads every input line, steps the
// debouncers and classifiers, runs one state machine step, then clears
// the one-shot event flags.
package core

// SystemMode is the operating mode of the patch bay
type SystemMode uint8

const (
	// ModeLive is normal operation: the live chain drives the matrix
	ModeLive SystemMode = iota

	// ModeProgramChain builds a new live chain pedal by pedal
	ModeProgramChain

	// ModeRecallSelect waits for a pedal button to load a preset slot
	ModeRecallSelect

	// ModeSaveSelect waits for a pedal button to save into a preset slot
	ModeSaveSelect
)

// String returns the mode name for logs
func (m SystemMode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeProgramChain:
		return "program"
	case ModeRecallSelect:
		return "recall-select"
	case ModeSaveSelect:
		return "save-select"
	default:
		return "unknown"
	}
}

// Deps are the peripheral capabilities the controller drives.
// Display, Indicator and Router may be nil when the hardware is not
// fitted; no-op implementations are substituted at construction time.
type Deps struct {
	Inputs    InputDriver
	Storage   Storage
	Display   Display
	Indicator Indicator
	Router    Router
	Clock     Clock
}

// Controller is the single owner of all core state. It must only be
// used from one goroutine; the polling loop has exclusive access.
type Controller struct {
	cfg Config

	inputs    InputDriver
	display   Display
	indicator Indicator
	router    Router
	clock     Clock

	patches *PatchStore

	mode    SystemMode
	buttons [NumLines]Button

	// loadedSlot is the preset slot the live chain was loaded from,
	// -1 for a custom chain. Recomputed after every live mutation.
	loadedSlot int8

	// Transient status dwell, modeled as a non-blocking deadline
	statusDwell bool
	statusSetAt uint32
}

// NewController wires a controller from its configuration and peripherals.
// Inputs, Storage and Clock are mandatory.
func NewController(cfg Config, d Deps) *Controller {
	cfg.ApplyDefaults()
	if d.Inputs == nil || d.Storage == nil || d.Clock == nil {
		panic("controller: inputs, storage and clock are required")
	}
	if d.Display == nil {
		d.Display = NopDisplay{}
	}
	if d.Indicator == nil {
		d.Indicator = NopIndicator{}
	}
	if d.Router == nil {
		d.Router = NopRouter{}
	}

	c := &Controller{
		cfg:        cfg,
		inputs:     d.Inputs,
		display:    d.Display,
		indicator:  d.Indicator,
		router:     d.Router,
		clock:      d.Clock,
		patches:    NewPatchStore(d.Storage),
		mode:       ModeLive,
		loadedSlot: -1,
	}
	for i := range c.buttons {
		c.buttons[i] = NewButton(LineID(i), cfg)
	}
	return c
}

// Mode returns the active system mode
func (c *Controller) Mode() SystemMode {
	return c.mode
}

// Live returns the currently active chain
func (c *Controller) Live() Chain {
	return c.patches.Live()
}

// LoadedFromSlot returns the preset slot the live chain was loaded from,
// or -1 for a custom chain
func (c *Controller) LoadedFromSlot() int8 {
	return c.loadedSlot
}

// Patches exposes the patch store (read-only use outside the poll loop
// is not safe; intended for boot wiring and tests)
func (c *Controller) Patches() *PatchStore {
	return c.patches
}

// Boot loads the persisted configuration, programs the routing matrix and
// pushes the initial chain and status to the peripherals. Call once before
// the polling loop starts.
func (c *Controller) Boot() {
	if err := c.patches.Load(); err != nil {
		DebugPrintln("patchbay: load: " + err.Error())
	}
	c.recomputeLoaded()
	c.router.ApplyChain(c.patches.Live())
	c.showChain()
	c.display.ShowStatus(c.baseStatus())
	DebugPrintln("patchbay: boot chain " + c.patches.Live().String())
}

// Poll runs one cycle of the cooperative control loop
func (c *Controller) Poll() {
	now := c.clock.Millis()

	for i := range c.buttons {
		c.buttons[i].Update(c.inputs.Level(LineID(i)), now)
	}

	switch c.mode {
	case ModeLive:
		c.stepLive(now)
	case ModeProgramChain:
		c.stepProgram(now)
	case ModeRecallSelect:
		c.stepRecall(now)
	case ModeSaveSelect:
		c.stepSave(now)
	}

	// Revert a dwelled status message to the mode's resting status
	if c.statusDwell && now-c.statusSetAt >= c.cfg.StatusDwellMS {
		c.statusDwell = false
		c.display.ShowStatus(c.baseStatus())
	}

	for i := range c.buttons {
		c.buttons[i].ClearEvents()
	}
}

// stepLive handles the resting mode
func (c *Controller) stepLive(now uint32) {
	edit := &c.buttons[LineEdit]
	preset := &c.buttons[LinePreset]

	switch {
	case edit.ShortPress:
		// Programming always starts from an empty chain
		c.patches.SetLive(nil)
		c.recomputeLoaded()
		c.enterMode(now, ModeProgramChain)
		c.showChain()

	case preset.ShortPress:
		c.enterMode(now, ModeRecallSelect)
		c.indicator.BlinkAll(true)

	case preset.TakeLongPress():
		c.enterMode(now, ModeSaveSelect)
		c.indicator.BlinkAll(true)
	}
}

// stepProgram handles chain programming
func (c *Controller) stepProgram(now uint32) {
	edit := &c.buttons[LineEdit]
	preset := &c.buttons[LinePreset]

	if edit.ShortPress {
		// Commit: persist, program the matrix, back to live
		err := c.patches.SaveLive()
		c.recomputeLoaded()
		c.router.ApplyChain(c.patches.Live())
		c.enterMode(now, ModeLive)
		c.showChain()
		if err != nil {
			DebugPrintln("patchbay: commit: " + err.Error())
			c.dwellStatus(now, NewStatus(StatusSaveFailed))
			return
		}
		if len(c.patches.Live()) == 0 {
			c.dwellStatus(now, NewStatus(StatusBypass))
		} else {
			c.dwellStatus(now, NewStatus(StatusSaved))
			c.indicator.Flash(2, 100, 100)
		}
		return
	}

	if preset.ShortPress {
		// Cancel: discard edits, restore the persisted live chain
		err := c.patches.ReloadLive()
		c.recomputeLoaded()
		c.router.ApplyChain(c.patches.Live())
		c.enterMode(now, ModeLive)
		c.showChain()
		if err != nil {
			DebugPrintln("patchbay: cancel reload: " + err.Error())
			c.dwellStatus(now, NewStatus(StatusLoadFailed))
		} else {
			c.dwellStatus(now, NewStatus(StatusCanceled))
		}
		return
	}

	for i := 0; i < NumPedals; i++ {
		if !c.buttons[PedalLine(i)].ShortPress {
			continue
		}
		id := PedalID(i + 1)
		live := c.patches.Live()
		switch {
		case len(live) >= NumPedals:
			c.dwellStatus(now, NewStatus(StatusChainFull))
		case live.Contains(id):
			// Duplicates are rejected; removal is intentionally unsupported
			c.dwellStatus(now, NewStatus(StatusAlreadyInChain))
		default:
			c.patches.SetLive(append(live.Clone(), id))
			c.recomputeLoaded()
			c.showChain()
			DebugPrintln("patchbay: program +" + itoa(int(id)) + " -> " + c.patches.Live().String())
		}
	}
}

// stepRecall handles preset slot selection for loading
func (c *Controller) stepRecall(now uint32) {
	edit := &c.buttons[LineEdit]
	preset := &c.buttons[LinePreset]

	if edit.ShortPress || preset.ShortPress {
		c.leaveSelect(now)
		c.dwellStatus(now, NewStatus(StatusLoadCanceled))
		return
	}

	// Only the first matching pedal press in a cycle is honored
	for i := 0; i < NumPedals; i++ {
		if !c.buttons[PedalLine(i)].ShortPress {
			continue
		}
		c.recallPreset(now, i)
		return
	}
}

// recallPreset loads a preset slot into the live chain
func (c *Controller) recallPreset(now uint32, slot int) {
	prev := c.patches.Live().Clone()

	c.patches.SetLive(c.patches.Preset(slot))
	if err := c.patches.SaveLive(); err != nil {
		// Roll back to the previous live chain, keep running
		DebugPrintln("patchbay: recall " + itoa(slot) + ": " + err.Error())
		c.patches.SetLive(prev)
		c.recomputeLoaded()
		c.leaveSelect(now)
		c.dwellStatus(now, NewStatus(StatusLoadFailed))
		c.router.ApplyChain(c.patches.Live())
		c.showChain()
		return
	}

	c.loadedSlot = int8(slot)
	c.leaveSelect(now)
	c.dwellStatus(now, SlotStatus(StatusPresetLoaded, int8(slot)))
	c.router.ApplyChain(c.patches.Live())
	c.showChain()
	DebugPrintln("patchbay: recall P" + itoa(slot+1) + " -> " + c.patches.Live().String())
}

// stepSave handles preset slot selection for saving
func (c *Controller) stepSave(now uint32) {
	edit := &c.buttons[LineEdit]
	preset := &c.buttons[LinePreset]

	if edit.ShortPress || preset.ShortPress {
		c.leaveSelect(now)
		c.dwellStatus(now, NewStatus(StatusSaveCanceled))
		return
	}

	for i := 0; i < NumPedals; i++ {
		if !c.buttons[PedalLine(i)].ShortPress {
			continue
		}
		c.savePreset(now, i)
		return
	}
}

// savePreset stores the live chain into a preset slot
func (c *Controller) savePreset(now uint32, slot int) {
	err := c.patches.StorePreset(slot, c.patches.Live())
	if err != nil {
		DebugPrintln("patchbay: save P" + itoa(slot+1) + ": " + err.Error())
		c.leaveSelect(now)
		c.dwellStatus(now, NewStatus(StatusSaveFailed))
		c.showChain()
		return
	}

	// Re-persist the live key so a power cycle restores the same state
	if err := c.patches.SaveLive(); err != nil {
		DebugPrintln("patchbay: save live: " + err.Error())
	}

	c.loadedSlot = int8(slot)
	c.leaveSelect(now)
	c.dwellStatus(now, SlotStatus(StatusPresetSaved, int8(slot)))
	c.indicator.Flash(2, 100, 100)
	c.showChain()
	DebugPrintln("patchbay: saved P" + itoa(slot+1) + " = " + c.patches.Live().String())
}

// enterMode transitions the state machine and shows the mode's status
func (c *Controller) enterMode(now uint32, m SystemMode) {
	c.mode = m
	c.statusDwell = false
	c.display.ShowStatus(c.baseStatus())
	DebugPrintln("patchbay: mode " + m.String())
}

// leaveSelect returns from a slot-select mode to live
func (c *Controller) leaveSelect(now uint32) {
	c.indicator.BlinkAll(false)
	c.indicator.SetChainIndicator(c.patches.Live())
	c.enterMode(now, ModeLive)
}

// dwellStatus shows a transient status that reverts after the dwell time
func (c *Controller) dwellStatus(now uint32, st Status) {
	c.display.ShowStatus(st)
	c.statusDwell = true
	c.statusSetAt = now
}

// baseStatus is the resting status line of the current mode
func (c *Controller) baseStatus() Status {
	switch c.mode {
	case ModeProgramChain:
		return NewStatus(StatusProgramChain)
	case ModeRecallSelect:
		return NewStatus(StatusLoadPreset)
	case ModeSaveSelect:
		return NewStatus(StatusSavePreset)
	default:
		if len(c.patches.Live()) == 0 {
			return NewStatus(StatusBypass)
		}
		return NewStatus(StatusNone)
	}
}

// showChain pushes the live chain to the display and the LED bank.
// Called after every live chain mutation.
func (c *Controller) showChain() {
	live := c.patches.Live()
	c.display.ShowChain(live, c.loadedSlot)
	c.indicator.SetChainIndicator(live)
}

// recomputeLoaded re-derives loadedSlot by linear scan over the slots
func (c *Controller) recomputeLoaded() {
	c.loadedSlot = c.patches.MatchesAnyPreset(c.patches.Live())
}
