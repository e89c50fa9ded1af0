package control

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/commons-systems/pomo/internal/debug"
	"github.com/commons-systems/pomo/internal/namespace"
)

const dialTimeout = time.Second

// ErrNotRunning is returned when no control socket exists in the runtime
// directory.
var ErrNotRunning = errors.New("no running pomo instance found")

// FindSocket scans the runtime directory for the control socket and
// returns its path, or ErrNotRunning if no instance has bound one.
func FindSocket() (string, error) {
	entries, err := os.ReadDir(namespace.RuntimeDir())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotRunning
		}
		return "", fmt.Errorf("failed to scan runtime directory: %w", err)
	}

	for _, entry := range entries {
		if entry.Name() == namespace.SocketName() {
			return filepath.Join(namespace.RuntimeDir(), entry.Name()), nil
		}
	}
	return "", ErrNotRunning
}

// Send delivers a command string to the running instance: connect, write
// the payload, close. One-way with no acknowledgement; delivery is
// at-most-once.
func Send(command string) error {
	socketPath, err := FindSocket()
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(dialTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if _, err := conn.Write([]byte(command)); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}

	debug.Log("CONTROL_SENT command=%s socket=%s", command, socketPath)
	return nil
}
