package config

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/logger"
)

// ReloadCallback is called with the newly loaded configuration when the
// watched file changes.
type ReloadCallback func(*Config) error

// Watcher watches one TOML file (the project config or a model file) and
// triggers reload callbacks after a debounce window. Writes issued through
// Save on the same path are suppressed so saving never loops back into a
// reload.
type Watcher struct {
	path           string
	watcher        *fsnotify.Watcher
	callbacks      []ReloadCallback
	mu             sync.RWMutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration

	isOwnWrite      bool
	isOwnWriteMutex sync.Mutex
}

// watched tracks live watchers by path so Save can mark its own writes.
var (
	watched   = make(map[string]*Watcher)
	watchedMu sync.Mutex
)

// NewWatcher creates a watcher on path. Call Start to begin delivery and
// Stop to tear it down.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "watch %s", path)
	}
	w := &Watcher{
		path:           path,
		watcher:        fsw,
		debouncePeriod: 500 * time.Millisecond,
	}
	watchedMu.Lock()
	watched[path] = w
	watchedMu.Unlock()
	return w, nil
}

// OnReload registers a callback for reload events.
func (w *Watcher) OnReload(callback ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// MarkOwnWrite suppresses the next change event on the watched file.
func (w *Watcher) MarkOwnWrite() {
	w.isOwnWriteMutex.Lock()
	defer w.isOwnWriteMutex.Unlock()
	w.isOwnWrite = true
}

func (w *Watcher) checkOwnWrite() bool {
	w.isOwnWriteMutex.Lock()
	defer w.isOwnWriteMutex.Unlock()
	if w.isOwnWrite {
		w.isOwnWrite = false
		return true
	}
	return false
}

// markOwnWrite flags the watcher registered on path, if any.
func markOwnWrite(path string) {
	watchedMu.Lock()
	defer watchedMu.Unlock()
	if w, ok := watched[path]; ok {
		w.MarkOwnWrite()
	}
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if isBackupFile(event.Name) {
					continue
				}
				if w.checkOwnWrite() {
					logger.Debugw("watcher ignoring own write", logger.FieldPath, event.Name)
					continue
				}
				logger.Infow("config change detected",
					logger.FieldPath, event.Name,
					"op", event.Op.String(),
				)
				w.scheduleReload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("config watcher error", logger.FieldError, err)
		}
	}
}

// scheduleReload debounces rapid change bursts before reloading once.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		if err := w.reload(); err != nil {
			logger.Errorw("config reload failed", logger.FieldError, err)
		}
	})
}

func (w *Watcher) reload() error {
	cfg, err := LoadFromFile(w.path)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	logger.Infow("config reloaded", logger.FieldPath, w.path)

	w.mu.RLock()
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback(cfg); err != nil {
			logger.Warnw("config reload callback error", logger.FieldError, err)
			// Remaining callbacks still run.
		}
	}
	return nil
}

// Stop stops watching and releases the fsnotify handle.
func (w *Watcher) Stop() error {
	watchedMu.Lock()
	delete(watched, w.path)
	watchedMu.Unlock()
	return w.watcher.Close()
}

// isBackupFile reports whether path is one of Save's rotated backups.
func isBackupFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".back1") ||
		strings.HasSuffix(base, ".back2") ||
		strings.HasSuffix(base, ".back3")
}
