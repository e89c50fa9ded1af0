// pomoctl sends a single control command to the running pomo instance.
//
// Usage: pomoctl <toggle|start|stop|reset|skip>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/commons-systems/pomo/internal/control"
	"github.com/commons-systems/pomo/internal/debug"
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: pomoctl <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  toggle   Toggle between running and paused")
	fmt.Fprintln(os.Stderr, "  start    Start the timer")
	fmt.Fprintln(os.Stderr, "  stop     Pause the timer")
	fmt.Fprintln(os.Stderr, "  reset    Reset to the beginning of the cycle")
	fmt.Fprintln(os.Stderr, "  skip     Skip to the next phase")
}

// run validates and sends the command, returning the process exit code.
func run(args []string) int {
	if len(args) != 1 {
		usage()
		return 2
	}

	cmd, ok := control.Parse(args[0])
	if !ok {
		red.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		usage()
		return 2
	}

	debug.Log("CTL_SEND command=%s", cmd)

	if err := control.Send(cmd.String()); err != nil {
		if errors.Is(err, control.ErrNotRunning) {
			red.Fprintln(os.Stderr, "Error: no running pomo instance found")
			fmt.Fprintln(os.Stderr, "Start one with: pomo")
		} else {
			red.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}

	green.Printf("Sent: %s\n", cmd)
	return 0
}

func main() {
	os.Exit(run(os.Args[1:]))
}
