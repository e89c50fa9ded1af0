package control

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/commons-systems/pomo/internal/debug"
	"github.com/commons-systems/pomo/internal/namespace"
)

const (
	// acceptPollInterval bounds shutdown latency and doubles as the
	// backoff after transient accept errors.
	acceptPollInterval = 100 * time.Millisecond

	// readTimeout caps how long a misbehaving client can hold the accept
	// loop; well-behaved clients write and close immediately.
	readTimeout = time.Second

	// maxPayloadBytes caps a command payload read. The longest valid
	// command is six bytes.
	maxPayloadBytes = 256

	// CommandBuffer is the capacity of the listener-to-poll-loop channel.
	// The poll loop drains every cycle, so this only needs to absorb
	// bursts between polls.
	CommandBuffer = 64
)

// ErrAlreadyRunning is returned when another live instance owns the
// control socket.
var ErrAlreadyRunning = errors.New("another pomo instance is already running")

// Listener owns the control socket and the accept-loop goroutine. Each
// accepted connection carries one command, which is parsed and pushed
// onto the command channel for the poll loop to drain.
type Listener struct {
	socketPath string
	ln         *net.UnixListener
	commands   chan<- Command
	done       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once
}

// NewListener binds the control socket and starts the accept loop.
//
// A pre-existing socket file is probed by connecting to it: a successful
// connect means another live instance owns it (ErrAlreadyRunning); a
// failed connect means the file is stale and is removed. Two instances
// racing between probe and bind is accepted; the loser's bind fails.
func NewListener(commands chan<- Command) (*Listener, error) {
	runtimeDir := namespace.RuntimeDir()
	if err := os.MkdirAll(runtimeDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory %s: %w", runtimeDir, err)
	}

	socketPath := namespace.SocketPath()
	if _, err := os.Stat(socketPath); err == nil {
		conn, err := net.DialTimeout("unix", socketPath, readTimeout)
		if err == nil {
			conn.Close()
			return nil, ErrAlreadyRunning
		}
		// Stale socket from a crashed instance, safe to remove.
		debug.Log("CONTROL_STALE_SOCKET path=%s", socketPath)
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to bind control socket: %w", err)
	}

	l := &Listener{
		socketPath: socketPath,
		ln:         ln.(*net.UnixListener),
		commands:   commands,
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}

	go l.acceptLoop()

	debug.Log("CONTROL_LISTENER_STARTED socket=%s", socketPath)
	return l, nil
}

// SocketPath returns the path the listener is bound to.
func (l *Listener) SocketPath() string {
	return l.socketPath
}

// acceptLoop polls for connections with a short accept deadline so the
// done channel is observed within acceptPollInterval. Transient errors
// are logged and retried, never fatal.
func (l *Listener) acceptLoop() {
	defer close(l.stopped)

	for {
		select {
		case <-l.done:
			l.cleanup()
			return
		default:
		}

		l.ln.SetDeadline(time.Now().Add(acceptPollInterval))
		conn, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			select {
			case <-l.done:
				l.cleanup()
				return
			default:
			}
			debug.Log("CONTROL_ACCEPT_ERROR error=%v", err)
			time.Sleep(acceptPollInterval)
			continue
		}

		l.handleConn(conn)
	}
}

// handleConn reads one command payload, parses it, and queues it.
// Unrecognized payloads are logged and dropped without touching the timer.
func (l *Listener) handleConn(conn net.Conn) {
	defer conn.Close()

	connID := uuid.New().String()[:8]

	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		debug.Log("CONTROL_DEADLINE_ERROR conn=%s error=%v", connID, err)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(conn, maxPayloadBytes))
	if err != nil {
		debug.Log("CONTROL_READ_ERROR conn=%s error=%v", connID, err)
		return
	}

	cmd, ok := Parse(string(payload))
	if !ok {
		debug.Log("CONTROL_UNKNOWN_COMMAND conn=%s payload=%q", connID, string(payload))
		return
	}

	select {
	case l.commands <- cmd:
		debug.Log("CONTROL_COMMAND_QUEUED conn=%s command=%s", connID, cmd)
	default:
		// Queue full means the consumer stopped draining; dropping is
		// the contract for a fire-and-forget protocol.
		debug.Log("CONTROL_QUEUE_FULL conn=%s command=%s", connID, cmd)
	}
}

// cleanup closes the socket and removes the endpoint file.
func (l *Listener) cleanup() {
	l.ln.Close()
	if err := os.Remove(l.socketPath); err != nil && !os.IsNotExist(err) {
		debug.Log("CONTROL_SOCKET_REMOVE_ERROR error=%v", err)
	}
	debug.Log("CONTROL_LISTENER_STOPPED socket=%s", l.socketPath)
}

// Stop shuts the listener down: signals the accept loop, waits for it to
// exit, and removes the socket file defensively. Safe to call more than
// once.
func (l *Listener) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
	<-l.stopped

	if err := os.Remove(l.socketPath); err != nil && !os.IsNotExist(err) {
		debug.Log("CONTROL_SOCKET_REMOVE_ERROR error=%v", err)
	}
}
