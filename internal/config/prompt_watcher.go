package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PromptWatcher watches prompt override files for changes and reloads
// them in place, so a prompt edit takes effect without a restart.
type PromptWatcher struct {
	mu sync.Mutex

	cfg   *Config
	files []string

	// File metadata
	lastModTime map[string]time.Time

	// Watcher components
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	// Control channels
	stopChan   chan struct{}
	reloadChan chan struct{}

	onReload func(error)

	running bool
}

// NewPromptWatcher creates a watcher for the configured prompt files.
// Returns nil when no prompt file overrides are configured. onReload is
// invoked after each reload attempt with its result; it may be nil.
func NewPromptWatcher(cfg *Config, onReload func(error)) *PromptWatcher {
	var files []string
	if cfg.AI.CustomPrompts.SystemFile != "" {
		files = append(files, cfg.AI.CustomPrompts.SystemFile)
	}
	if cfg.AI.CustomPrompts.UserFile != "" {
		files = append(files, cfg.AI.CustomPrompts.UserFile)
	}
	if len(files) == 0 {
		return nil
	}

	return &PromptWatcher{
		cfg:           cfg,
		files:         files,
		lastModTime:   make(map[string]time.Time),
		debounceDelay: time.Second,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1), // Buffered to prevent blocking
		onReload:      onReload,
	}
}

// Start begins watching the prompt files for changes
func (pw *PromptWatcher) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return fmt.Errorf("prompt watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	pw.fsWatcher = watcher

	pw.updateModTimes()

	for _, file := range pw.files {
		if err := pw.addFileToWatcher(file); err != nil {
			_ = pw.fsWatcher.Close()
			return err
		}
	}

	pw.running = true
	go pw.watchLoop()

	return nil
}

// Stop stops the prompt file watcher
func (pw *PromptWatcher) Stop() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return nil
	}

	close(pw.stopChan)

	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}

	if pw.fsWatcher != nil {
		if err := pw.fsWatcher.Close(); err != nil {
			return err
		}
	}

	pw.running = false
	return nil
}

// addFileToWatcher adds a file and its directory to the file system watcher
func (pw *PromptWatcher) addFileToWatcher(file string) error {
	if err := pw.fsWatcher.Add(file); err != nil {
		return fmt.Errorf("failed to watch prompt file %s: %w", file, err)
	}

	// Also watch the directory to catch atomic writes (rename operations)
	dir := filepath.Dir(file)
	if err := pw.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch prompt directory %s: %w", dir, err)
	}

	return nil
}

// updateModTimes stores the current modification times for all watched files
func (pw *PromptWatcher) updateModTimes() {
	for _, file := range pw.files {
		if stat, err := os.Stat(file); err == nil {
			pw.lastModTime[file] = stat.ModTime()
		}
	}
}

// hasFileChanged checks if a file has been modified since last check
func (pw *PromptWatcher) hasFileChanged(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			// File was deleted
			if _, exists := pw.lastModTime[file]; exists {
				delete(pw.lastModTime, file)
				return true
			}
		}
		return false
	}

	lastMod, exists := pw.lastModTime[file]
	if !exists || stat.ModTime().After(lastMod) {
		pw.lastModTime[file] = stat.ModTime()
		return true
	}

	return false
}

// watchLoop is the main event loop for file watching
func (pw *PromptWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-pw.fsWatcher.Events:
			if !ok {
				return
			}

			if pw.shouldProcessEvent(event) {
				pw.scheduleReload()
			}

		case _, ok := <-pw.fsWatcher.Errors:
			if !ok {
				return
			}

		case <-pw.reloadChan:
			// Debounced reload trigger
			if slices.ContainsFunc(pw.files, pw.hasFileChanged) {
				err := pw.cfg.ReloadPrompts()
				if pw.onReload != nil {
					pw.onReload(err)
				}
			}

		case <-pw.stopChan:
			return
		}
	}
}

// shouldProcessEvent determines if a file system event should trigger a reload check
func (pw *PromptWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	isWatchedFile := slices.ContainsFunc(pw.files, func(file string) bool {
		return event.Name == file || filepath.Base(event.Name) == filepath.Base(file)
	})
	if !isWatchedFile {
		return false
	}

	// Process write, create, and rename events
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload schedules a debounced reload
func (pw *PromptWatcher) scheduleReload() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}

	pw.debounceTimer = time.AfterFunc(pw.debounceDelay, func() {
		select {
		case pw.reloadChan <- struct{}{}:
			// Reload scheduled
		default:
			// Channel is full, reload already scheduled
		}
	})
}

// IsRunning returns whether the watcher is currently running
func (pw *PromptWatcher) IsRunning() bool {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	return pw.running
}
