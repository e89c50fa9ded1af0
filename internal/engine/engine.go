// Package engine ties the timer to the control channel: it owns the
// command queue, drains it each poll cycle, ticks the timer on wall-clock
// seconds, and snapshots the state the renderer needs.
package engine

import (
	"time"

	"github.com/commons-systems/pomo/internal/config"
	"github.com/commons-systems/pomo/internal/control"
	"github.com/commons-systems/pomo/internal/debug"
	"github.com/commons-systems/pomo/internal/timer"
)

// Snapshot is the read-only display state returned by Poll.
type Snapshot struct {
	Phase             timer.Phase
	Running           bool
	Remaining         string
	RemainingSecs     int
	Progress          float64
	AtBoundary        bool
	Iterations        int
	SessionsCompleted int

	// Transition of the tick performed by this poll, if any. Commands
	// applied during the same poll never set this; only ticks do.
	Transition timer.Transition
}

// Engine owns the timer and the listener. The timer is only ever touched
// from the goroutine calling Poll and Apply, so it needs no locking; the
// command channel is the sole cross-goroutine handoff.
type Engine struct {
	timer      *timer.Timer
	commands   chan control.Command
	listener   *control.Listener
	controlErr error
	lastTick   time.Time

	// Staged by a config hot reload; applied at the next reset so a
	// duration change never corrupts a running phase.
	pendingOpts *timer.Options
}

// New builds the timer from config and starts the control listener.
//
// A listener failure (another instance holds the socket, or the runtime
// dir is unusable) is not fatal: the engine runs in display-only mode and
// ControlErr reports why.
func New(cfg config.Config) *Engine {
	e := &Engine{
		timer:    timer.New(cfg.TimerOptions()),
		commands: make(chan control.Command, control.CommandBuffer),
	}

	listener, err := control.NewListener(e.commands)
	if err != nil {
		e.controlErr = err
		debug.Log("ENGINE_CONTROL_DISABLED error=%v", err)
		return e
	}
	e.listener = listener

	debug.Log("ENGINE_STARTED work_mins=%d short_break_mins=%d long_break_mins=%d",
		cfg.Work, cfg.ShortBreak, cfg.LongBreak)
	return e
}

// ControlEnabled reports whether the control socket is live.
func (e *Engine) ControlEnabled() bool {
	return e.listener != nil
}

// ControlErr returns the reason the control channel is unavailable, or
// nil when it is up.
func (e *Engine) ControlErr() error {
	return e.controlErr
}

// Apply runs a command against the timer directly. Used by the host's
// local key bindings; must be called from the poll-loop goroutine.
func (e *Engine) Apply(cmd control.Command) {
	e.apply(cmd)
}

// StageOptions stores new timer options from a config reload. They take
// effect when the timer is next reset.
func (e *Engine) StageOptions(opts timer.Options) {
	e.pendingOpts = &opts
}

func (e *Engine) apply(cmd control.Command) {
	cmd.Apply(e.timer)

	if cmd == control.CmdReset && e.pendingOpts != nil {
		e.timer.SetOptions(*e.pendingOpts)
		e.pendingOpts = nil
		debug.Log("ENGINE_OPTIONS_APPLIED")
	}
}

// Poll drains all queued commands in arrival order, then ticks the timer
// once if at least one real second has passed since the last tick. Ticks
// missed to scheduling jitter are skipped, never batched. The first poll
// only arms the clock.
func (e *Engine) Poll(now time.Time) Snapshot {
drain:
	for {
		select {
		case cmd := <-e.commands:
			debug.Log("ENGINE_COMMAND command=%s", cmd)
			e.apply(cmd)
		default:
			break drain
		}
	}

	transition := timer.TransitionNone
	if e.lastTick.IsZero() {
		e.lastTick = now
	} else if now.Sub(e.lastTick) >= time.Second {
		transition = e.timer.Tick()
		e.lastTick = now

		if transition != timer.TransitionNone {
			debug.Log("ENGINE_TRANSITION transition=%s phase=%s sessions=%d",
				transition, e.timer.Phase(), e.timer.SessionsCompleted())
		}
	}

	return Snapshot{
		Phase:             e.timer.Phase(),
		Running:           e.timer.Running(),
		Remaining:         e.timer.RemainingFormatted(),
		RemainingSecs:     e.timer.RemainingSecs(),
		Progress:          e.timer.ProgressRatio(),
		AtBoundary:        e.timer.AtPhaseBoundary(),
		Iterations:        e.timer.Iterations(),
		SessionsCompleted: e.timer.SessionsCompleted(),
		Transition:        transition,
	}
}

// Close shuts the control listener down and waits for its goroutine to
// exit. Safe to call when control is disabled or more than once.
func (e *Engine) Close() {
	if e.listener != nil {
		e.listener.Stop()
	}
}
