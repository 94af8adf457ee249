// patchbay-sim runs the patch bay control core against simulated
// hardware in a terminal: number keys are the pedal buttons, "e" is the
// edit control, "p"/"P" short- and long-press the preset control.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"patchbay/core"
	"patchbay/host/sim"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	ledOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cc66"))
	ledOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	chainStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	logStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

type tickMsg time.Time

type model struct {
	ctrl   *core.Controller
	inputs *sim.VirtualInputs
	panel  *sim.Panel
	log    *sim.LogRing
	cfg    sim.Config

	quitting bool
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tick(time.Duration(m.cfg.TickMS) * time.Millisecond)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// One polling cycle per tick, exactly like the firmware loop
		m.ctrl.Poll()
		return m, tick(time.Duration(m.cfg.TickMS) * time.Millisecond)

	case tea.KeyMsg:
		short := time.Duration(m.cfg.ShortTapMS) * time.Millisecond
		long := time.Duration(m.cfg.LongTapMS) * time.Millisecond

		switch key := msg.String(); key {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "e":
			m.inputs.Tap(core.LineEdit, short)
		case "p":
			m.inputs.Tap(core.LinePreset, short)
		case "P":
			m.inputs.Tap(core.LinePreset, long)
		case "1", "2", "3", "4", "5", "6", "7", "8":
			m.inputs.Tap(core.PedalLine(int(key[0]-'1')), short)
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	st := m.panel.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("patchbay-sim") +
		dimStyle.Render("  mode: "+m.ctrl.Mode().String()) + "\n\n")

	// LED bank
	leds := make([]string, core.NumPedals)
	for i, on := range st.LEDs {
		label := string(rune('1' + i))
		if on || st.Blinking {
			leds[i] = ledOnStyle.Render("● " + label)
		} else {
			leds[i] = ledOffStyle.Render("○ " + label)
		}
	}
	b.WriteString("  " + strings.Join(leds, "  ") + "\n\n")

	// Display readout
	chainLine := st.Chain.String()
	if st.LoadedSlot >= 0 {
		chainLine += fmt.Sprintf(" [P%d]", st.LoadedSlot+1)
	}
	b.WriteString("  " + chainStyle.Render("Chain: "+chainLine) + "\n")
	b.WriteString("  " + statusStyle.Render(st.Status.String()) + "\n\n")

	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"  matrix: %s (programmed %d times)", st.Routed, st.RouteCount)) + "\n\n")

	for _, line := range m.log.Tail(6) {
		b.WriteString("  " + logStyle.Render(line) + "\n")
	}

	b.WriteString("\n" + dimStyle.Render(
		"  1-8 pedals · e edit · p preset · P hold preset · q quit") + "\n")
	return b.String()
}

func main() {
	configPath := flag.String("config", "patchbay.toml", "simulator config file")
	flag.Parse()

	cfg, err := sim.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	store, err := sim.NewDirStore(cfg.StorageDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "storage: %v\n", err)
		os.Exit(1)
	}

	inputs := sim.NewVirtualInputs()
	panel := sim.NewPanel()
	logRing := sim.NewLogRing(100)
	core.SetDebugWriter(logRing.Append)
	core.SetDebugEnabled(true)

	ctrl := core.NewController(cfg.Core(), core.Deps{
		Inputs:    inputs,
		Storage:   store,
		Display:   panel,
		Indicator: panel,
		Router:    panel,
		Clock:     sim.NewWallClock(),
	})
	ctrl.Boot()

	m := model{ctrl: ctrl, inputs: inputs, panel: panel, log: logRing, cfg: cfg}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
