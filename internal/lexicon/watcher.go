package lexicon

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"resumatch/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a lexicon file into a Store whenever it changes on disk.
// A file that fails to load leaves the previous snapshot in place.
type Watcher struct {
	mu sync.Mutex

	path          string
	store         *Store
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}
	onReload   func(*Lexicon, error)

	logger  *errors.Logger
	running bool
}

// NewWatcher creates a watcher for path publishing into store. onReload, if
// non-nil, is called after every reload attempt.
func NewWatcher(path string, store *Store, debounceDelay time.Duration, logger *errors.Logger, onReload func(*Lexicon, error)) *Watcher {
	if debounceDelay <= 0 {
		debounceDelay = 500 * time.Millisecond
	}
	return &Watcher{
		path:          filepath.Clean(path),
		store:         store,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
		logger:        logger,
	}
}

// Start begins watching. The parent directory is watched so that editors
// replacing the file through a rename are noticed.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("lexicon watcher is already running")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		_ = fsWatcher.Close()
		return fmt.Errorf("failed to watch directory of %s: %w", w.path, err)
	}

	w.fsWatcher = fsWatcher
	w.running = true
	go w.watchLoop()

	w.logger.Info("Lexicon watcher started", "file", w.path, "debounce_delay", w.debounceDelay)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.running = false

	if err := w.fsWatcher.Close(); err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	w.logger.Info("Lexicon watcher stopped", "file", w.path)
	return nil
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldProcessEvent(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.LogError(err, "Lexicon watcher error")

		case <-w.reloadChan:
			w.reload()

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) reload() {
	lex, err := LoadFile(w.path)
	if err != nil {
		w.logger.LogError(err, "Lexicon reload failed, keeping previous tables", "file", w.path)
	} else {
		w.store.Swap(lex)
		w.logger.Info("Lexicon reloaded", "file", w.path, "patterns", len(lex.Patterns()))
	}
	if w.onReload != nil {
		w.onReload(lex, err)
	}
}
