package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	// Debug logging is opt-in. Set POMO_DEBUG=1 to enable.
	enabled = os.Getenv("POMO_DEBUG") != ""
	logPath = filepath.Join(os.TempDir(), "pomo-debug.log")
	mu      sync.Mutex
)

// Log appends a formatted event line to the debug log file.
// Events are UPPER_SNAKE tokens followed by key=value pairs.
func Log(format string, args ...interface{}) {
	if !enabled {
		return
	}
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	timestamp := float64(time.Now().UnixNano()) / 1e9
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(f, "[%.6f] %s\n", timestamp, msg)
}
