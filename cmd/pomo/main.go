package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/commons-systems/pomo/internal/config"
	"github.com/commons-systems/pomo/internal/control"
	"github.com/commons-systems/pomo/internal/debug"
	"github.com/commons-systems/pomo/internal/engine"
	"github.com/commons-systems/pomo/internal/namespace"
	"github.com/commons-systems/pomo/internal/sound"
	"github.com/commons-systems/pomo/internal/timer"
	"github.com/commons-systems/pomo/internal/ui"
)

// pollMsg drives one poll cycle: drain commands, maybe tick, re-render.
type pollMsg time.Time

// configEventMsg carries a config hot-reload result.
type configEventMsg config.Event

type model struct {
	eng      *engine.Engine
	renderer *ui.Renderer
	player   *sound.Player

	configWatcher *config.Watcher
	configEvents  <-chan config.Event

	interval time.Duration
	snap     engine.Snapshot

	// Non-fatal degradations surfaced as banners:
	// control channel down, config reload failure.
	controlBanner string
	configBanner  string

	width  int
	height int
}

func initialModel() model {
	configPath := namespace.ConfigFile()
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\nContinuing with defaults.\n", err)
	}

	eng := engine.New(cfg)

	m := model{
		eng:      eng,
		renderer: ui.NewRenderer(cfg),
		player:   sound.NewPlayer(),
		interval: time.Duration(cfg.IntervalMS) * time.Millisecond,
		width:    80,
		height:   24,
	}
	m.snap = eng.Poll(time.Now())
	m.player.Configure(cfg.WorkSound, cfg.BreakSound)

	if !eng.ControlEnabled() {
		fmt.Fprintf(os.Stderr, "Warning: control channel unavailable: %v\n", eng.ControlErr())
		fmt.Fprintf(os.Stderr, "pomoctl commands will not reach this instance.\n")
		m.controlBanner = fmt.Sprintf("control disabled: %v", eng.ControlErr())
	}

	watcher, err := config.NewWatcher(configPath)
	if err != nil {
		// Hot reload is a convenience; run without it.
		fmt.Fprintf(os.Stderr, "Warning: config watching disabled: %v\n", err)
	} else {
		m.configWatcher = watcher
		m.configEvents = watcher.Start()
	}

	debug.Log("HOST_STARTED config=%s interval=%v control=%v",
		configPath, m.interval, eng.ControlEnabled())

	return m
}

func pollCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func watchConfigCmd(events <-chan config.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return configEventMsg(ev)
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		pollCmd(m.interval),
		watchConfigCmd(m.configEvents),
	)
}

// shutdown stops the listener and the config watcher before quitting.
func (m *model) shutdown() {
	m.eng.Close()
	if m.configWatcher != nil {
		m.configWatcher.Close()
	}
	debug.Log("HOST_STOPPED")
}

// applyLocal runs a key-bound command and refreshes the snapshot so the
// view updates without waiting for the next poll tick.
func (m *model) applyLocal(cmd control.Command) {
	m.eng.Apply(cmd)
	m.snap = m.eng.Poll(time.Now())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.renderer.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.shutdown()
			return m, tea.Quit
		case " ", "enter":
			m.applyLocal(control.CmdToggle)
			return m, nil
		case "s":
			m.applyLocal(control.CmdSkip)
			return m, nil
		case "r":
			m.applyLocal(control.CmdReset)
			return m, nil
		}
		return m, nil

	case pollMsg:
		m.snap = m.eng.Poll(time.Time(msg))
		m.playTransition(m.snap.Transition)
		return m, pollCmd(m.interval)

	case configEventMsg:
		if msg.Err != nil {
			m.configBanner = fmt.Sprintf("config reload failed: %v", msg.Err)
			return m, watchConfigCmd(m.configEvents)
		}
		m.configBanner = ""
		m.applyConfig(msg.Config)
		return m, watchConfigCmd(m.configEvents)
	}

	return m, nil
}

// applyConfig applies a hot reload: colours, sounds and poll interval
// take effect immediately; timer durations are staged for the next
// reset so a running phase is never disturbed.
func (m *model) applyConfig(cfg config.Config) {
	m.renderer.SetConfig(cfg)
	m.renderer.SetWidth(m.width)
	m.player.Configure(cfg.WorkSound, cfg.BreakSound)
	m.interval = time.Duration(cfg.IntervalMS) * time.Millisecond
	m.eng.StageOptions(cfg.TimerOptions())
	debug.Log("HOST_CONFIG_APPLIED interval=%v", m.interval)
}

// playTransition maps a tick transition to its configured sound. Skips
// never reach here, so skip-induced transitions stay silent.
func (m *model) playTransition(tr timer.Transition) {
	switch tr {
	case timer.TransitionWorkComplete:
		m.player.Play(sound.KeyWork)
	case timer.TransitionBreakComplete:
		m.player.Play(sound.KeyBreak)
	}
}

func (m model) View() string {
	view := m.renderer.Render(m.snap)
	if m.controlBanner != "" {
		view = m.renderer.RenderBanner(m.controlBanner) + "\n" + view
	}
	if m.configBanner != "" {
		view = m.renderer.RenderBanner(m.configBanner) + "\n" + view
	}
	return view
}

func main() {
	m := initialModel()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
