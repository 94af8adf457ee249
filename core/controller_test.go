package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced millisecond clock
type fakeClock struct {
	now uint32
}

func (c *fakeClock) Millis() uint32 { return c.now }

// fakeInputs simulates the input lines (active-low: held lines read low)
type fakeInputs struct {
	held [NumLines]bool
}

func (f *fakeInputs) Level(line LineID) bool { return !f.held[line] }

// recDisplay records the latest display state
type recDisplay struct {
	chain      Chain
	loadedSlot int8
	status     Status
	statuses   []Status
}

func (d *recDisplay) ShowChain(c Chain, slot int8) {
	d.chain = c.Clone()
	d.loadedSlot = slot
}

func (d *recDisplay) ShowStatus(st Status) {
	d.status = st
	d.statuses = append(d.statuses, st)
}

func (d *recDisplay) sawStatus(code StatusCode) bool {
	for _, st := range d.statuses {
		if st.Code == code {
			return true
		}
	}
	return false
}

// recIndicator records LED commands
type recIndicator struct {
	chain    Chain
	blinking bool
	flashes  int
}

func (i *recIndicator) SetChainIndicator(c Chain)  { i.chain = c.Clone() }
func (i *recIndicator) Flash(n uint8, _, _ uint32) { i.flashes += int(n) }
func (i *recIndicator) BlinkAll(start bool)        { i.blinking = start }

// recRouter records the last programmed chain
type recRouter struct {
	chain   Chain
	applied int
}

func (r *recRouter) ApplyChain(c Chain) {
	r.chain = c.Clone()
	r.applied++
}

// rig wires a controller against fake peripherals and drives it through
// whole polling cycles, the way the real loop does.
type rig struct {
	t     *testing.T
	c     *Controller
	clk   *fakeClock
	in    *fakeInputs
	store *memStore
	disp  *recDisplay
	ind   *recIndicator
	rtr   *recRouter
}

func newRig(t *testing.T) *rig {
	r := &rig{
		t:     t,
		clk:   &fakeClock{},
		in:    &fakeInputs{},
		store: newMemStore(),
		disp:  &recDisplay{},
		ind:   &recIndicator{},
		rtr:   &recRouter{},
	}
	r.c = NewController(testConfig(), Deps{
		Inputs:    r.in,
		Storage:   r.store,
		Display:   r.disp,
		Indicator: r.ind,
		Router:    r.rtr,
		Clock:     r.clk,
	})
	r.c.Boot()
	return r
}

// ticks advances n polling cycles of TickMS each
func (r *rig) ticks(n int) {
	for i := 0; i < n; i++ {
		r.clk.now += 10
		r.c.Poll()
	}
}

// press holds a line long enough to debounce, then releases it
func (r *rig) press(line LineID) {
	r.in.held[line] = true
	r.ticks(10) // 100ms, past the 50ms debounce window
	r.in.held[line] = false
	r.ticks(10)
}

// longPress holds a line past the long-press threshold
func (r *rig) longPress(line LineID) {
	r.in.held[line] = true
	r.ticks(170) // 1700ms hold
	r.in.held[line] = false
	r.ticks(10)
}

func (r *rig) pedal(i int) { r.press(PedalLine(i)) }

// program drives ProgramChain from Live: edit, pedals, edit-commit
func (r *rig) program(pedals ...int) {
	r.press(LineEdit)
	for _, p := range pedals {
		r.pedal(p)
	}
	r.press(LineEdit)
}

func (r *rig) storedLive() Chain {
	blob, ok := r.store.m[LiveKey]
	require.True(r.t, ok, "live_cfg not persisted")
	c, err := DecodeChain(blob)
	require.NoError(r.t, err)
	return c
}

func TestBootFreshDevice(t *testing.T) {
	// Scenario A: no stored keys at all
	r := newRig(t)

	assert.Equal(t, ModeLive, r.c.Mode())
	assert.Empty(t, r.c.Live())
	assert.Equal(t, int8(-1), r.c.LoadedFromSlot())
	assert.Equal(t, StatusBypass, r.disp.status.Code)
	assert.Equal(t, 1, r.rtr.applied, "matrix not programmed at boot")
	assert.Empty(t, r.rtr.chain)
}

func TestBootRestoresPersistedChain(t *testing.T) {
	rec := EncodeChain(Chain{2, 4})
	store := newMemStore()
	store.m[LiveKey] = rec[:]

	r := &rig{
		t: t, clk: &fakeClock{}, in: &fakeInputs{},
		store: store, disp: &recDisplay{}, ind: &recIndicator{}, rtr: &recRouter{},
	}
	r.c = NewController(testConfig(), Deps{
		Inputs: r.in, Storage: r.store, Display: r.disp,
		Indicator: r.ind, Router: r.rtr, Clock: r.clk,
	})
	r.c.Boot()

	assert.True(t, r.c.Live().Equal(Chain{2, 4}))
	assert.True(t, r.rtr.chain.Equal(Chain{2, 4}))
	assert.True(t, r.ind.chain.Equal(Chain{2, 4}))
}

func TestProgramCommit(t *testing.T) {
	// Scenario B
	r := newRig(t)

	r.press(LineEdit)
	require.Equal(t, ModeProgramChain, r.c.Mode())
	assert.Empty(t, r.c.Live())
	assert.Equal(t, StatusProgramChain, r.disp.status.Code)

	r.pedal(2)
	assert.True(t, r.c.Live().Equal(Chain{3}))
	assert.True(t, r.disp.chain.Equal(Chain{3}))
	assert.True(t, r.ind.chain.Equal(Chain{3}))

	r.press(LineEdit)
	assert.Equal(t, ModeLive, r.c.Mode())
	assert.True(t, r.storedLive().Equal(Chain{3}))
	assert.True(t, r.rtr.chain.Equal(Chain{3}))
	assert.True(t, r.disp.sawStatus(StatusSaved))
}

func TestProgramDuplicateRejected(t *testing.T) {
	r := newRig(t)

	r.press(LineEdit)
	r.pedal(2)
	r.pedal(2)

	assert.True(t, r.c.Live().Equal(Chain{3}), "duplicate grew the chain")
	assert.True(t, r.disp.sawStatus(StatusAlreadyInChain))
}

func TestProgramChainFull(t *testing.T) {
	r := newRig(t)

	r.press(LineEdit)
	for i := 0; i < NumPedals; i++ {
		r.pedal(i)
	}
	require.Len(t, r.c.Live(), NumPedals)

	r.pedal(0) // 9th attempt
	assert.Len(t, r.c.Live(), NumPedals)
	assert.True(t, r.disp.sawStatus(StatusChainFull))
}

func TestProgramCancelRestoresPersisted(t *testing.T) {
	r := newRig(t)
	r.program(4) // live = [5], persisted

	r.press(LineEdit) // enter programming, chain cleared
	r.pedal(0)
	require.True(t, r.c.Live().Equal(Chain{1}))

	r.press(LinePreset) // cancel
	assert.Equal(t, ModeLive, r.c.Mode())
	assert.True(t, r.c.Live().Equal(Chain{5}), "cancel did not restore persisted chain")
	assert.True(t, r.rtr.chain.Equal(Chain{5}))
	assert.True(t, r.disp.sawStatus(StatusCanceled))
}

func TestCommitEmptyChainIsBypass(t *testing.T) {
	r := newRig(t)
	r.program() // no pedals

	assert.Equal(t, ModeLive, r.c.Mode())
	assert.Empty(t, r.storedLive())
	assert.True(t, r.disp.sawStatus(StatusBypass))
}

func TestRecallSelectCancel(t *testing.T) {
	// Scenario C
	r := newRig(t)
	r.program(2) // live = [3]

	r.press(LinePreset)
	require.Equal(t, ModeRecallSelect, r.c.Mode())
	assert.True(t, r.ind.blinking)

	r.press(LineEdit) // cancel
	assert.Equal(t, ModeLive, r.c.Mode())
	assert.True(t, r.c.Live().Equal(Chain{3}), "cancel changed the live chain")
	assert.False(t, r.ind.blinking)
	assert.True(t, r.disp.sawStatus(StatusLoadCanceled))
}

func TestSaveAndRecallPreset(t *testing.T) {
	// Scenario D
	r := newRig(t)
	r.program(2) // live = [3]

	r.longPress(LinePreset)
	require.Equal(t, ModeSaveSelect, r.c.Mode())

	r.pedal(2) // save into slot 2
	require.Equal(t, ModeLive, r.c.Mode())
	assert.Equal(t, int8(2), r.c.LoadedFromSlot())
	assert.Equal(t, int8(2), r.c.Patches().MatchesAnyPreset(r.c.Live()))
	assert.True(t, r.disp.sawStatus(StatusPresetSaved))

	r.program(0, 1) // live = [1 2]
	assert.Equal(t, int8(-1), r.c.Patches().MatchesAnyPreset(r.c.Live()))
	assert.Equal(t, int8(-1), r.c.LoadedFromSlot())

	r.press(LinePreset)
	require.Equal(t, ModeRecallSelect, r.c.Mode())
	r.pedal(2) // recall slot 2

	assert.Equal(t, ModeLive, r.c.Mode())
	assert.True(t, r.c.Live().Equal(Chain{3}))
	assert.Equal(t, int8(2), r.c.LoadedFromSlot())
	assert.True(t, r.storedLive().Equal(Chain{3}))
	assert.True(t, r.rtr.chain.Equal(Chain{3}))
	assert.Equal(t, int8(2), r.disp.loadedSlot)
	assert.True(t, r.disp.sawStatus(StatusPresetLoaded))
}

func TestLongPressBoundaryEntersSaveSelect(t *testing.T) {
	r := newRig(t)

	// Hold the preset button; SaveSelect must be entered while still held.
	// The debounced press lands at t=60 (edge seen at t=10 + 50ms window),
	// so the threshold crossing is at t=1560.
	r.in.held[LinePreset] = true
	r.ticks(6)
	require.Equal(t, ModeLive, r.c.Mode())

	r.ticks(149) // t=1550: held 1490ms, one tick short of the threshold
	require.Equal(t, ModeLive, r.c.Mode(), "entered SaveSelect before threshold")

	r.ticks(1) // t=1560: held exactly 1500ms
	assert.Equal(t, ModeSaveSelect, r.c.Mode())

	// The release must not cancel the mode it just entered
	r.in.held[LinePreset] = false
	r.ticks(10)
	assert.Equal(t, ModeSaveSelect, r.c.Mode())
}

func TestShortPressPresetEntersRecall(t *testing.T) {
	r := newRig(t)
	r.press(LinePreset)
	assert.Equal(t, ModeRecallSelect, r.c.Mode())
}

func TestSaveSelectCancel(t *testing.T) {
	r := newRig(t)
	r.longPress(LinePreset)
	require.Equal(t, ModeSaveSelect, r.c.Mode())

	r.press(LinePreset)
	assert.Equal(t, ModeLive, r.c.Mode())
	assert.True(t, r.disp.sawStatus(StatusSaveCanceled))
}

func TestSaveFailureLeavesStateUnchanged(t *testing.T) {
	r := newRig(t)
	r.program(2) // live = [3]
	prevLoaded := r.c.LoadedFromSlot()

	r.longPress(LinePreset)
	r.store.failPut = true
	r.pedal(4)

	assert.Equal(t, ModeLive, r.c.Mode())
	assert.Equal(t, prevLoaded, r.c.LoadedFromSlot())
	assert.Empty(t, r.c.Patches().Preset(4))
	assert.True(t, r.disp.sawStatus(StatusSaveFailed))
}

func TestRecallFailureRollsBack(t *testing.T) {
	r := newRig(t)
	r.program(2) // live = [3]
	r.longPress(LinePreset)
	r.pedal(5) // preset 5 = [3]
	r.program(0, 1)

	r.press(LinePreset)
	r.store.failPut = true
	r.pedal(5)

	assert.Equal(t, ModeLive, r.c.Mode())
	assert.True(t, r.c.Live().Equal(Chain{1, 2}), "failed recall changed the live chain")
	assert.True(t, r.rtr.chain.Equal(Chain{1, 2}))
	assert.True(t, r.disp.sawStatus(StatusLoadFailed))
}

func TestRecallEmptySlotLoadsBypass(t *testing.T) {
	r := newRig(t)
	r.program(2) // live = [3]

	r.press(LinePreset)
	r.pedal(6) // never saved: valid empty chain

	assert.Equal(t, ModeLive, r.c.Mode())
	assert.Empty(t, r.c.Live())
	assert.Empty(t, r.storedLive())
}

func TestStatusDwellRevertsToModeStatus(t *testing.T) {
	r := newRig(t)

	r.press(LineEdit)
	r.pedal(2)
	r.pedal(2) // duplicate: transient status
	require.Equal(t, StatusAlreadyInChain, r.disp.status.Code)

	r.ticks(130) // past the 1200ms dwell
	assert.Equal(t, StatusProgramChain, r.disp.status.Code,
		"transient status did not revert to the mode status")
}

func TestOnlyFirstPedalHonoredInRecallSelect(t *testing.T) {
	r := newRig(t)
	r.program(2) // [3]
	r.longPress(LinePreset)
	r.pedal(1) // preset 1 = [3]
	r.program(0, 3)
	r.longPress(LinePreset)
	r.pedal(2) // preset 2 = [1 4]

	r.press(LinePreset)
	require.Equal(t, ModeRecallSelect, r.c.Mode())

	// Two pedals land in the same polling cycle; slot 1 wins
	r.in.held[PedalLine(1)] = true
	r.in.held[PedalLine(2)] = true
	r.ticks(10)
	r.in.held[PedalLine(1)] = false
	r.in.held[PedalLine(2)] = false
	r.ticks(10)

	assert.Equal(t, ModeLive, r.c.Mode())
	assert.True(t, r.c.Live().Equal(Chain{3}))
	assert.Equal(t, int8(1), r.c.LoadedFromSlot())
}

func TestEditDoesNothingInLiveUntilPressed(t *testing.T) {
	r := newRig(t)
	r.ticks(50)
	assert.Equal(t, ModeLive, r.c.Mode())
	assert.Equal(t, 1, r.rtr.applied, "matrix reprogrammed without a mutation")
}
