// Package namespace derives the filesystem paths shared by the engine and
// the control client: the runtime directory holding the control socket,
// the config file location, and the sound search directories.
//
// Both sides must agree on these paths, so all derivation lives here.
package namespace

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	appDir     = "pomo"
	socketName = "pomo.sock"
	configName = "config.toml"

	// RuntimeDirEnv overrides the runtime directory when set. Used by
	// tests to isolate socket namespaces, and by users on systems
	// without an XDG runtime dir.
	RuntimeDirEnv = "POMO_RUNTIME_DIR"

	// ConfigFileEnv overrides the config file location when set.
	ConfigFileEnv = "POMO_CONFIG"
)

// RuntimeDir returns the per-user directory that holds the control socket.
// $POMO_RUNTIME_DIR wins if set; otherwise the XDG runtime dir (which
// itself falls back to a temp dir on systems without one) is namespaced
// with an app subdirectory.
func RuntimeDir() string {
	if dir := os.Getenv(RuntimeDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(xdg.RuntimeDir, appDir)
}

// SocketPath returns the control socket path inside the runtime directory.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), socketName)
}

// SocketName returns the fixed file name of the control socket. The client
// side scans the runtime directory for this name rather than assuming the
// full path exists.
func SocketName() string {
	return socketName
}

// ConfigFile returns the TOML config path: $POMO_CONFIG if set, else
// under the XDG config home.
func ConfigFile() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}
	return filepath.Join(xdg.ConfigHome, appDir, configName)
}

// SoundDirs returns the directories searched for sound files, in priority
// order: the data home first, then the system data dirs, each namespaced
// with an app-specific sounds subtree.
func SoundDirs() []string {
	dirs := make([]string, 0, len(xdg.DataDirs)+1)
	dirs = append(dirs, filepath.Join(xdg.DataHome, appDir, "sounds"))
	for _, d := range xdg.DataDirs {
		dirs = append(dirs, filepath.Join(d, appDir, "sounds"))
	}
	return dirs
}
