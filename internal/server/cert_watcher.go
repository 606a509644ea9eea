package server

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
)

// CertWatcher watches certificate files through fsnotify and fires a
// debounced callback when any of them actually change on disk.
type CertWatcher struct {
	mu sync.RWMutex

	certFile string
	keyFile  string
	caFile   string

	// Last observed modification time per watched path
	modTimes map[string]time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	reloadCallback func()
	logger         *errors.Logger

	running bool
}

// NewCertWatcher creates a watcher for the given certificate paths.
// Empty paths are skipped; a zero debounce delay defaults to one second.
func NewCertWatcher(certFile, keyFile, caFile string, debounceDelay time.Duration, reloadCallback func(), logger *errors.Logger) (*CertWatcher, error) {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &CertWatcher{
		certFile:       certFile,
		keyFile:        keyFile,
		caFile:         caFile,
		modTimes:       make(map[string]time.Time),
		debounceDelay:  debounceDelay,
		stopChan:       make(chan struct{}),
		reloadChan:     make(chan struct{}, 1),
		reloadCallback: reloadCallback,
		logger:         logger,
	}, nil
}

func (cw *CertWatcher) watchedFiles() []string {
	files := make([]string, 0, 3)
	for _, file := range []string{cw.certFile, cw.keyFile, cw.caFile} {
		if file != "" {
			files = append(files, file)
		}
	}
	return files
}

// Start records the current modification times, registers the files with
// fsnotify, and launches the event loop
func (cw *CertWatcher) Start() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.running {
		return fmt.Errorf("certificate watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	cw.fsWatcher = watcher

	if err := cw.updateModTimes(); err != nil {
		if closeErr := cw.fsWatcher.Close(); closeErr != nil && cw.logger != nil {
			cw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("failed to get initial file modification times: %w", err)
	}

	files := cw.watchedFiles()
	for _, file := range files {
		if err := cw.watchFile(file); err != nil && cw.logger != nil {
			cw.logger.Warn("Failed to watch certificate file", "file", file, "error", err)
		}
	}

	cw.running = true
	go cw.watchLoop()

	if cw.logger != nil {
		cw.logger.Info("Certificate file watcher started",
			"files", files,
			"debounce_delay", cw.debounceDelay)
	}
	return nil
}

// Stop halts the event loop and releases the fsnotify watcher
func (cw *CertWatcher) Stop() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if !cw.running {
		return nil
	}

	close(cw.stopChan)

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}

	if cw.fsWatcher != nil {
		if err := cw.fsWatcher.Close(); err != nil {
			if cw.logger != nil {
				cw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	cw.running = false

	if cw.logger != nil {
		cw.logger.Info("Certificate file watcher stopped")
	}

	return nil
}

// watchFile registers a file with fsnotify. The containing directory is
// watched as well, both for files that don't exist yet and for atomic
// writes that land as renames.
func (cw *CertWatcher) watchFile(file string) error {
	if err := cw.fsWatcher.Add(file); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to watch file %s: %w", file, err)
		}
		dir := filepath.Dir(file)
		if err := cw.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		if cw.logger != nil {
			cw.logger.Info("Watching directory for certificate file",
				"file", file, "directory", dir)
		}
	}

	dir := filepath.Dir(file)
	if err := cw.fsWatcher.Add(dir); err != nil {
		if cw.logger != nil {
			cw.logger.Warn("Failed to watch directory for atomic writes",
				"directory", dir, "error", err)
		}
	}

	return nil
}

// updateModTimes snapshots the modification times of all watched files.
// Missing files are tolerated; they may appear later.
func (cw *CertWatcher) updateModTimes() error {
	for _, file := range cw.watchedFiles() {
		stat, err := os.Stat(file)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to stat file %s: %w", file, err)
		}
		cw.modTimes[file] = stat.ModTime()
	}
	return nil
}

// hasFileChanged compares a file's modification time against the last
// snapshot. Deletion of a previously seen file counts as a change.
func (cw *CertWatcher) hasFileChanged(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			if _, seen := cw.modTimes[file]; seen {
				delete(cw.modTimes, file)
				return true
			}
		}
		return false
	}

	lastMod, seen := cw.modTimes[file]
	if !seen || stat.ModTime().After(lastMod) {
		cw.modTimes[file] = stat.ModTime()
		return true
	}

	return false
}

func (cw *CertWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-cw.fsWatcher.Events:
			if !ok {
				return
			}
			if cw.shouldProcessEvent(event) {
				cw.scheduleReload()
			}

		case err, ok := <-cw.fsWatcher.Errors:
			if !ok {
				return
			}
			if cw.logger != nil {
				cw.logger.LogError(err, "File watcher error")
			}

		case <-cw.reloadChan:
			// Debounce fired; confirm something actually changed before
			// invoking the callback
			if slices.ContainsFunc(cw.watchedFiles(), cw.hasFileChanged) {
				if cw.logger != nil {
					cw.logger.Info("Certificate files changed, triggering reload")
				}
				cw.reloadCallback()
			}

		case <-cw.stopChan:
			return
		}
	}
}

// shouldProcessEvent filters fsnotify events down to write, create, and
// rename operations on the watched files
func (cw *CertWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	isWatchedFile := slices.ContainsFunc(cw.watchedFiles(), func(file string) bool {
		return event.Name == file || filepath.Base(event.Name) == filepath.Base(file)
	})
	if !isWatchedFile {
		return false
	}

	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload restarts the debounce timer; bursts of events collapse
// into a single reload check
func (cw *CertWatcher) scheduleReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}

	cw.debounceTimer = time.AfterFunc(cw.debounceDelay, func() {
		select {
		case cw.reloadChan <- struct{}{}:
		default:
		}
	})
}

// IsRunning reports whether the watch loop is active
func (cw *CertWatcher) IsRunning() bool {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return cw.running
}

// GetWatchedFiles returns the non-empty watched paths
func (cw *CertWatcher) GetWatchedFiles() []string {
	return cw.watchedFiles()
}
