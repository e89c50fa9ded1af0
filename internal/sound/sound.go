// Package sound resolves configured sound names against the XDG data
// dirs and plays them on phase transitions.
package sound

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/commons-systems/pomo/internal/debug"
	"github.com/commons-systems/pomo/internal/namespace"
)

// Buffer keys for the two transition sounds.
const (
	KeyWork  = "work"
	KeyBreak = "break"
)

const sampleRate = 44100

// Extensions tried when a configured name has none, in preference order.
var soundExtensions = []string{".ogg", ".oga", ".wav", ".mp3"}

var (
	initOnce sync.Once
	initErr  error
)

// Init brings up the speaker. Called once; later calls return the first
// result. An error means audio stays disabled, which is never fatal.
func Init() error {
	initOnce.Do(func() {
		initErr = speaker.Init(sampleRate, sampleRate/10)
		if initErr != nil {
			debug.Log("SOUND_INIT_ERROR error=%v", initErr)
		}
	})
	return initErr
}

// Resolve turns a configured sound name into a file path. Names
// containing a path separator are used as-is; bare names are searched
// recursively under the namespaced sound directories, trying the known
// extensions when the name has none.
func Resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		if fileExists(name) {
			return name, true
		}
		return "", false
	}

	return resolveIn(namespace.SoundDirs(), name)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// resolveIn searches each dir tree in order for a file matching one of
// the candidate names. Recursion covers theme subdirectories.
func resolveIn(dirs []string, name string) (string, bool) {
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = candidates[:0]
		for _, ext := range soundExtensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, dir := range dirs {
		var found string
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			for _, candidate := range candidates {
				if d.Name() == candidate {
					found = path
					return fs.SkipAll
				}
			}
			return nil
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}

// Player holds decoded sound buffers keyed by transition kind. Decoding
// happens once at load; Play only streams an existing buffer.
type Player struct {
	mu      sync.Mutex
	buffers map[string]*beep.Buffer
}

func NewPlayer() *Player {
	return &Player{buffers: make(map[string]*beep.Buffer)}
}

// Configure resolves and loads the two configured transition sounds,
// replacing any previous set. Unresolvable or undecodable files are
// logged and skipped.
func (p *Player) Configure(workSound, breakSound string) {
	p.mu.Lock()
	p.buffers = make(map[string]*beep.Buffer)
	p.mu.Unlock()

	for key, name := range map[string]string{KeyWork: workSound, KeyBreak: breakSound} {
		if name == "" {
			continue
		}
		path, ok := Resolve(name)
		if !ok {
			debug.Log("SOUND_NOT_FOUND key=%s name=%s", key, name)
			continue
		}
		if err := p.Load(key, path); err != nil {
			debug.Log("SOUND_LOAD_ERROR key=%s path=%s error=%v", key, path, err)
			continue
		}
		debug.Log("SOUND_CONFIGURED key=%s path=%s", key, path)
	}
}

// Load decodes the file at path into a buffer under key. The decoder is
// picked by extension.
func (p *Player) Load(key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open sound %s: %w", path, err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		f.Close()
		return fmt.Errorf("unsupported sound format %q", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to decode sound %s: %w", path, err)
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	streamer.Close()

	p.mu.Lock()
	p.buffers[key] = buffer
	p.mu.Unlock()
	return nil
}

// Play streams the buffer under key in the background. A missing buffer
// is a no-op.
func (p *Player) Play(key string) {
	p.mu.Lock()
	b, ok := p.buffers[key]
	p.mu.Unlock()

	if !ok {
		return
	}
	if Init() != nil {
		return
	}

	speaker.Play(b.Streamer(0, b.Len()))
	debug.Log("SOUND_PLAYING key=%s", key)
}
