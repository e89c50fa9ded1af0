package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commons-systems/pomo/internal/config"
	"github.com/commons-systems/pomo/internal/engine"
	"github.com/commons-systems/pomo/internal/timer"
)

func testSnapshot() engine.Snapshot {
	return engine.Snapshot{
		Phase:         timer.PhaseWork,
		Running:       true,
		Remaining:     "25:00",
		RemainingSecs: 1500,
		AtBoundary:    true,
	}
}

func TestRenderShowsRemainingTime(t *testing.T) {
	r := NewRenderer(config.Default())

	out := r.Render(testSnapshot())
	assert.Contains(t, out, "25:00")
	assert.Contains(t, out, "Work")
}

func TestRenderShowsPausedState(t *testing.T) {
	r := NewRenderer(config.Default())

	snap := testSnapshot()
	snap.Running = false

	out := r.Render(snap)
	assert.Contains(t, out, "paused")
}

func TestRenderShowsBreakPhase(t *testing.T) {
	r := NewRenderer(config.Default())

	snap := testSnapshot()
	snap.Phase = timer.PhaseShortBreak
	snap.Remaining = "05:00"

	out := r.Render(snap)
	assert.Contains(t, out, "Short Break")
	assert.Contains(t, out, "05:00")
}

func TestRenderIterationDots(t *testing.T) {
	r := NewRenderer(config.Default())

	snap := testSnapshot()
	snap.Iterations = 2

	out := r.Render(snap)
	assert.Equal(t, 2, strings.Count(out, dotFilled))
	assert.Equal(t, 2, strings.Count(out, dotEmpty))
}

func TestRenderSessionCount(t *testing.T) {
	r := NewRenderer(config.Default())

	snap := testSnapshot()
	snap.SessionsCompleted = 3

	out := r.Render(snap)
	assert.Contains(t, out, "sessions completed: 3")
}

func TestPhaseTitle(t *testing.T) {
	assert.Equal(t, "Work", PhaseTitle(timer.PhaseWork))
	assert.Equal(t, "Short Break", PhaseTitle(timer.PhaseShortBreak))
	assert.Equal(t, "Long Break", PhaseTitle(timer.PhaseLongBreak))
}

func TestSetConfigSurvivesBadColours(t *testing.T) {
	cfg := config.Default()
	cfg.WorkBG = "not-a-colour"
	cfg.FGColor = "#zz"

	r := NewRenderer(cfg)
	out := r.Render(testSnapshot())
	assert.Contains(t, out, "25:00")
}

func TestSetWidthClamps(t *testing.T) {
	r := NewRenderer(config.Default())
	r.SetWidth(2)
	assert.Equal(t, 10, r.width)
}
