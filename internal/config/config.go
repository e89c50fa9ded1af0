// Package config loads the TOML settings file and watches it for changes.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/commons-systems/pomo/internal/timer"
)

const (
	DefaultWorkMins       = 25
	DefaultShortBreakMins = 5
	DefaultLongBreakMins  = 15
	DefaultIntervalMS     = 1000

	minIntervalMS = 100
)

// Config is the typed settings file. All fields have working defaults, so
// a missing or partial file is fine.
type Config struct {
	// Phase durations in minutes.
	Work       int `toml:"work"`
	ShortBreak int `toml:"short_break"`
	LongBreak  int `toml:"long_break"`

	// Whether a finished break auto-starts work, and vice versa.
	AutoStartWork  bool `toml:"auto_start_work"`
	AutoStartBreak bool `toml:"auto_start_break"`

	// Poll interval in milliseconds.
	IntervalMS int `toml:"interval"`

	// Hex RGB colours for the host renderer.
	WorkBG   string `toml:"work_bg"`
	BreakBG  string `toml:"break_bg"`
	PausedBG string `toml:"paused_bg"`
	FGColor  string `toml:"fg_color"`

	// Sound names or paths played on phase transitions. Empty means
	// silent.
	WorkSound  string `toml:"work_sound"`
	BreakSound string `toml:"break_sound"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Work:       DefaultWorkMins,
		ShortBreak: DefaultShortBreakMins,
		LongBreak:  DefaultLongBreakMins,
		IntervalMS: DefaultIntervalMS,
		WorkBG:     "#c0392b",
		BreakBG:    "#27ae60",
		PausedBG:   "#7f8c8d",
		FGColor:    "#ffffff",
	}
}

// Load reads the TOML file at path over the defaults. A missing file
// yields the defaults; a malformed file is an error. The result is
// normalized so downstream code never sees a non-positive duration.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize clamps values the timer and poll loop rely on being positive.
func (c *Config) normalize() {
	if c.Work < 1 {
		c.Work = DefaultWorkMins
	}
	if c.ShortBreak < 1 {
		c.ShortBreak = DefaultShortBreakMins
	}
	if c.LongBreak < 1 {
		c.LongBreak = DefaultLongBreakMins
	}
	if c.IntervalMS < minIntervalMS {
		c.IntervalMS = DefaultIntervalMS
	}
}

// TimerOptions converts the settings into timer construction parameters.
func (c Config) TimerOptions() timer.Options {
	return timer.Options{
		WorkMins:       c.Work,
		ShortBreakMins: c.ShortBreak,
		LongBreakMins:  c.LongBreak,
		AutoStartWork:  c.AutoStartWork,
		AutoStartBreak: c.AutoStartBreak,
	}
}

// Colour is a parsed RGB colour.
type Colour struct {
	R, G, B uint8
}

// ParseColour parses "#rrggbb" or "rrggbb". Short forms are rejected.
func ParseColour(s string) (Colour, bool) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) < 6 {
		return Colour{}, false
	}

	r, err := strconv.ParseUint(s[0:2], 16, 8)
	if err != nil {
		return Colour{}, false
	}
	g, err := strconv.ParseUint(s[2:4], 16, 8)
	if err != nil {
		return Colour{}, false
	}
	b, err := strconv.ParseUint(s[4:6], 16, 8)
	if err != nil {
		return Colour{}, false
	}

	return Colour{R: uint8(r), G: uint8(g), B: uint8(b)}, true
}

// Hex renders the colour as "#rrggbb", the form lipgloss accepts.
func (c Colour) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
