package main

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	teatest "github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commons-systems/pomo/internal/config"
	"github.com/commons-systems/pomo/internal/namespace"
	"github.com/commons-systems/pomo/internal/timer"
)

// isolate keeps test instances off the user's real socket and config.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(namespace.RuntimeDirEnv, t.TempDir())
	t.Setenv(namespace.ConfigFileEnv, t.TempDir()+"/config.toml")
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(model)
	require.True(t, ok)
	return next
}

func TestToggleKey(t *testing.T) {
	isolate(t)

	m := initialModel()
	defer m.shutdown()

	require.False(t, m.snap.Running)

	m = update(t, m, keyMsg(" "))
	assert.True(t, m.snap.Running)

	m = update(t, m, keyMsg(" "))
	assert.False(t, m.snap.Running)
}

func TestSkipKeyAdvancesPhase(t *testing.T) {
	isolate(t)

	m := initialModel()
	defer m.shutdown()

	m = update(t, m, keyMsg("s"))
	assert.Equal(t, timer.PhaseShortBreak, m.snap.Phase)
	assert.Equal(t, 1, m.snap.Iterations)
}

func TestResetKey(t *testing.T) {
	isolate(t)

	m := initialModel()
	defer m.shutdown()

	m = update(t, m, keyMsg("s"))
	m = update(t, m, keyMsg("r"))

	assert.Equal(t, timer.PhaseWork, m.snap.Phase)
	assert.Equal(t, 0, m.snap.Iterations)
	assert.False(t, m.snap.Running)
}

func TestPollMsgTicksTimer(t *testing.T) {
	isolate(t)

	m := initialModel()
	defer m.shutdown()

	m = update(t, m, keyMsg(" "))
	require.True(t, m.snap.Running)
	before := m.snap.RemainingSecs

	m = update(t, m, pollMsg(time.Now().Add(2*time.Second)))
	assert.Equal(t, before-1, m.snap.RemainingSecs)
}

func TestConfigReloadErrorShowsBanner(t *testing.T) {
	isolate(t)

	m := initialModel()
	defer m.shutdown()

	m = update(t, m, configEventMsg(config.Event{Err: errors.New("broken toml")}))
	assert.Contains(t, m.View(), "config reload failed")

	m = update(t, m, configEventMsg(config.Event{Config: config.Default()}))
	assert.NotContains(t, m.View(), "config reload failed")
}

func TestConfigReloadUpdatesInterval(t *testing.T) {
	isolate(t)

	m := initialModel()
	defer m.shutdown()

	cfg := config.Default()
	cfg.IntervalMS = 250
	m = update(t, m, configEventMsg(config.Event{Config: cfg}))

	assert.Equal(t, 250*time.Millisecond, m.interval)
}

func TestSecondInstanceShowsControlBanner(t *testing.T) {
	isolate(t)

	first := initialModel()
	defer first.shutdown()
	require.Empty(t, first.controlBanner)

	second := initialModel()
	defer second.shutdown()

	assert.Contains(t, second.View(), "control disabled")
}

func TestProgramStartsAndQuits(t *testing.T) {
	isolate(t)

	m := initialModel()
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	tm.Send(keyMsg("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}
