// Package control implements the external control protocol: the command
// vocabulary, the Unix socket listener that feeds commands into the
// engine, and the one-shot client used by pomoctl.
package control

import (
	"strings"

	"github.com/commons-systems/pomo/internal/timer"
)

// Command is one of the control operations accepted over the socket.
type Command int

const (
	CmdToggle Command = iota
	CmdStart
	CmdStop
	CmdReset
	CmdSkip
)

func (c Command) String() string {
	switch c {
	case CmdToggle:
		return "toggle"
	case CmdStart:
		return "start"
	case CmdStop:
		return "stop"
	case CmdReset:
		return "reset"
	case CmdSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Parse decodes a command payload. Decoding is total: surrounding
// whitespace is ignored, matching is case-insensitive, and anything
// outside the fixed vocabulary reports ok=false.
func Parse(s string) (Command, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toggle":
		return CmdToggle, true
	case "start":
		return CmdStart, true
	case "stop":
		return CmdStop, true
	case "reset":
		return CmdReset, true
	case "skip":
		return CmdSkip, true
	default:
		return 0, false
	}
}

// Apply dispatches the command to the matching timer operation. Stop maps
// to Pause. Skip's transition marker is discarded here: the poll loop's
// own Tick is the only source of transition side effects.
func (c Command) Apply(t *timer.Timer) {
	switch c {
	case CmdToggle:
		t.Toggle()
	case CmdStart:
		t.Start()
	case CmdStop:
		t.Pause()
	case CmdReset:
		t.Reset()
	case CmdSkip:
		_ = t.Skip()
	}
}
