package library

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"brushvault/internal/logging"
	"brushvault/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of events (an installer dropping a brush
// pack writes dozens of files) into a single rescan.
const watchDebounce = 2 * time.Second

// Watch monitors the scan roots for changes and invokes onChange after
// activity settles. It blocks until ctx is cancelled.
func (s *Scanner) Watch(ctx context.Context, onChange func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Error("Failed to create file watcher: %v", err)
		metrics.WatcherErrors.Inc()
		return
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logging.Error("failed to close file watcher: %v", err)
		}
	}()

	watchCount := s.addRootsToWatcher(watcher)
	logging.Debug("Library watcher started, watching %d directories", watchCount)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	trigger := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !s.relevantEvent(event) {
				continue
			}
			metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()

			// New directories join the watch immediately so files
			// created inside them are seen.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if addErr := watcher.Add(event.Name); addErr != nil {
						logging.Warn("failed to watch new directory %s: %v", event.Name, addErr)
						metrics.WatcherErrors.Inc()
					}
				}
			}

			if debounce == nil {
				debounce = time.AfterFunc(watchDebounce, func() {
					select {
					case trigger <- struct{}{}:
					default:
					}
				})
			} else {
				debounce.Reset(watchDebounce)
			}

		case <-trigger:
			logging.Info("Library change detected, triggering rescan")
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher error: %v", err)
			metrics.WatcherErrors.Inc()

		case <-ctx.Done():
			logging.Info("Library watcher stopped")
			return
		}
	}
}

// addRootsToWatcher registers every directory under the scan roots.
func (s *Scanner) addRootsToWatcher(watcher *fsnotify.Watcher) int {
	watchCount := 0
	for _, root := range s.cfg.Roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
				if addErr := watcher.Add(path); addErr != nil {
					logging.Warn("failed to add path to watcher %s: %v", path, addErr)
					metrics.WatcherErrors.Inc()
				} else {
					watchCount++
				}
			}
			return nil
		})
		if err != nil {
			logging.Warn("failed to walk scan root %s for watcher: %v", root, err)
			metrics.WatcherErrors.Inc()
		}
	}
	return watchCount
}

// relevantEvent filters out hidden files and the scanner's own artifacts.
func (s *Scanner) relevantEvent(event fsnotify.Event) bool {
	if strings.Contains(event.Name, string(filepath.Separator)+".") {
		return false
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return true
}

// eventType returns a string representation of the fsnotify operation.
func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
