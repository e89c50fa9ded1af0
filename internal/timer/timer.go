// Package timer contains the pomodoro state machine: phase tracking,
// elapsed time, iteration and session counters.
//
// Maintenance notes:
//   - The Timer is deliberately single-owner: all mutation happens on the
//     host's poll-loop goroutine, so no locking is needed here. Route
//     external requests through the engine's command channel instead of
//     touching the Timer from another goroutine.
//   - No operation can fail. Durations are clamped positive on the config
//     side and transitions fire exactly at the phase boundary, so elapsed
//     time never exceeds the current duration.
package timer

import "fmt"

// Phase is the current phase of the pomodoro cycle.
type Phase int

const (
	PhaseWork Phase = iota
	PhaseShortBreak
	PhaseLongBreak
)

// IsBreak reports whether the phase is a short or long break.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

func (p Phase) String() string {
	switch p {
	case PhaseWork:
		return "work"
	case PhaseShortBreak:
		return "short_break"
	case PhaseLongBreak:
		return "long_break"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Transition describes the phase change produced by a Tick or Skip.
type Transition int

const (
	// TransitionNone means no phase boundary was crossed.
	TransitionNone Transition = iota
	// TransitionWorkComplete means a work phase just ended.
	TransitionWorkComplete
	// TransitionBreakComplete means a short or long break just ended.
	TransitionBreakComplete
)

func (tr Transition) String() string {
	switch tr {
	case TransitionWorkComplete:
		return "work_complete"
	case TransitionBreakComplete:
		return "break_complete"
	default:
		return "none"
	}
}

// Work iterations before a long break.
const iterationsPerSession = 4

// Options are the construction parameters for a Timer, taken from user
// configuration. Durations are minutes.
type Options struct {
	WorkMins       int
	ShortBreakMins int
	LongBreakMins  int
	AutoStartWork  bool
	AutoStartBreak bool
}

// Timer is the pomodoro state machine. The zero value is not usable;
// construct with New.
type Timer struct {
	phase       Phase
	elapsedSecs int

	workSecs       int
	shortBreakSecs int
	longBreakSecs  int

	iterations        int
	sessionsCompleted int

	running        bool
	autoStartWork  bool
	autoStartBreak bool
}

// New builds a Timer in its initial state: work phase, nothing elapsed,
// paused.
func New(opts Options) *Timer {
	return &Timer{
		phase:          PhaseWork,
		workSecs:       opts.WorkMins * 60,
		shortBreakSecs: opts.ShortBreakMins * 60,
		longBreakSecs:  opts.LongBreakMins * 60,
		autoStartWork:  opts.AutoStartWork,
		autoStartBreak: opts.AutoStartBreak,
	}
}

// SetOptions replaces the configured durations and auto-start flags.
// Meant to be applied at a phase boundary; elapsed time is untouched.
func (t *Timer) SetOptions(opts Options) {
	t.workSecs = opts.WorkMins * 60
	t.shortBreakSecs = opts.ShortBreakMins * 60
	t.longBreakSecs = opts.LongBreakMins * 60
	t.autoStartWork = opts.AutoStartWork
	t.autoStartBreak = opts.AutoStartBreak
}

// Phase returns the current phase.
func (t *Timer) Phase() Phase {
	return t.phase
}

// Running reports whether the countdown is active.
func (t *Timer) Running() bool {
	return t.running
}

// Iterations returns the work phases completed since the last long break,
// in [0, 4).
func (t *Timer) Iterations() int {
	return t.iterations
}

// SessionsCompleted returns the number of full work/break cycles finished
// since construction.
func (t *Timer) SessionsCompleted() int {
	return t.sessionsCompleted
}

// currentDuration returns the configured duration of the current phase in
// seconds.
func (t *Timer) currentDuration() int {
	switch t.phase {
	case PhaseShortBreak:
		return t.shortBreakSecs
	case PhaseLongBreak:
		return t.longBreakSecs
	default:
		return t.workSecs
	}
}

// RemainingSecs returns the seconds left in the current phase.
func (t *Timer) RemainingSecs() int {
	remaining := t.currentDuration() - t.elapsedSecs
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingFormatted renders the remaining time as MM:SS, or H:MM:SS once
// an hour or more remains.
func (t *Timer) RemainingFormatted() string {
	secs := t.RemainingSecs()
	hours := secs / 3600
	mins := (secs % 3600) / 60
	secs = secs % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// ProgressRatio returns how far the current phase has advanced, in [0, 1].
func (t *Timer) ProgressRatio() float64 {
	duration := t.currentDuration()
	if duration <= 0 {
		return 0
	}
	return float64(t.elapsedSecs) / float64(duration)
}

// AtPhaseBoundary reports whether no time has elapsed in the current
// phase, i.e. a transition or reset just happened.
func (t *Timer) AtPhaseBoundary() bool {
	return t.elapsedSecs == 0
}

// Toggle flips between running and paused.
func (t *Timer) Toggle() {
	t.running = !t.running
}

// Start sets the timer running. Idempotent.
func (t *Timer) Start() {
	t.running = true
}

// Pause stops the countdown. Idempotent.
func (t *Timer) Pause() {
	t.running = false
}

// Reset returns to the initial state: work phase, nothing elapsed, no
// iterations, paused. Completed sessions are kept.
func (t *Timer) Reset() {
	t.phase = PhaseWork
	t.elapsedSecs = 0
	t.iterations = 0
	t.running = false
}

// Skip forces an immediate phase transition, regardless of running state
// or elapsed time, and returns the transition that occurred.
func (t *Timer) Skip() Transition {
	return t.transition()
}

// Tick advances the timer by one second. A no-op while paused. Returns
// the transition if the phase boundary was reached.
func (t *Timer) Tick() Transition {
	if !t.running {
		return TransitionNone
	}

	t.elapsedSecs++

	if t.elapsedSecs >= t.currentDuration() {
		return t.transition()
	}

	return TransitionNone
}

// transition moves to the next phase and resets elapsed time.
func (t *Timer) transition() Transition {
	t.elapsedSecs = 0
	from := t.phase

	switch t.phase {
	case PhaseWork:
		t.iterations++
		if t.iterations >= iterationsPerSession {
			t.phase = PhaseLongBreak
		} else {
			t.phase = PhaseShortBreak
		}
		t.running = t.autoStartBreak

	case PhaseShortBreak:
		t.phase = PhaseWork
		t.running = t.autoStartWork

	case PhaseLongBreak:
		t.phase = PhaseWork
		t.iterations = 0
		t.sessionsCompleted++
		t.running = t.autoStartWork
	}

	if from == PhaseWork {
		return TransitionWorkComplete
	}
	return TransitionBreakComplete
}
