package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 25, cfg.Work)
	assert.Equal(t, 5, cfg.ShortBreak)
	assert.Equal(t, 15, cfg.LongBreak)
	assert.False(t, cfg.AutoStartWork)
	assert.False(t, cfg.AutoStartBreak)
	assert.Equal(t, 1000, cfg.IntervalMS)
	assert.Equal(t, "#c0392b", cfg.WorkBG)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialFile(t *testing.T) {
	path := writeConfig(t, `
work = 50
auto_start_break = true
work_sound = "bell"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Work)
	assert.True(t, cfg.AutoStartBreak)
	assert.Equal(t, "bell", cfg.WorkSound)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5, cfg.ShortBreak)
	assert.Equal(t, "#27ae60", cfg.BreakBG)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, `work = "not a number`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadClampsDurations(t *testing.T) {
	path := writeConfig(t, `
work = 0
short_break = -3
interval = 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultWorkMins, cfg.Work)
	assert.Equal(t, DefaultShortBreakMins, cfg.ShortBreak)
	assert.Equal(t, DefaultIntervalMS, cfg.IntervalMS)
}

func TestTimerOptions(t *testing.T) {
	path := writeConfig(t, `
work = 1
short_break = 2
long_break = 3
auto_start_work = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	opts := cfg.TimerOptions()
	assert.Equal(t, 1, opts.WorkMins)
	assert.Equal(t, 2, opts.ShortBreakMins)
	assert.Equal(t, 3, opts.LongBreakMins)
	assert.True(t, opts.AutoStartWork)
	assert.False(t, opts.AutoStartBreak)
}

func TestParseColour(t *testing.T) {
	c, ok := ParseColour("ff6b35")
	require.True(t, ok)
	assert.Equal(t, Colour{R: 255, G: 107, B: 53}, c)

	c, ok = ParseColour("#a1b2c3")
	require.True(t, ok)
	assert.Equal(t, Colour{R: 0xa1, G: 0xb2, B: 0xc3}, c)
	assert.Equal(t, "#a1b2c3", c.Hex())
}

func TestParseColourRejectsShortAndGarbage(t *testing.T) {
	for _, s := range []string{"fff", "#fff", "", "zzzzzz", "#12345g"} {
		_, ok := ParseColour(s)
		assert.False(t, ok, "input %q", s)
	}
}
