package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"bundletest/pkg/logging"
)

const watchSubsystem = "Watch"

// DefaultDebounce is used when no interval is given.
const DefaultDebounce = 500 * time.Millisecond

// ChangeEvent is one debounced burst of filesystem changes.
type ChangeEvent struct {
	// Paths are the changed paths, sorted and unique.
	Paths     []string
	Timestamp time.Time
}

// Detector watches a directory tree for changes.
type Detector struct {
	mu sync.Mutex

	// root is the top of the watched tree
	root string

	watcher *fsnotify.Watcher

	// debounceInterval is how long to wait for additional changes
	debounceInterval time.Duration

	// pending collects paths until the debounce timer fires
	pending map[string]struct{}
	timer   *time.Timer

	// stopCh signals shutdown
	stopCh chan struct{}

	running bool
}

// NewDetector creates a detector for the tree under root.
func NewDetector(root string, debounceInterval time.Duration) *Detector {
	if debounceInterval == 0 {
		debounceInterval = DefaultDebounce
	}

	return &Detector{
		root:             root,
		debounceInterval: debounceInterval,
		pending:          make(map[string]struct{}),
		stopCh:           make(chan struct{}),
	}
}

// Start begins watching and sends events to changes until ctx is done or
// Stop is called.
func (d *Detector) Start(ctx context.Context, changes chan<- ChangeEvent) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.mu.Unlock()
		return err
	}

	d.watcher = watcher
	d.running = true
	d.stopCh = make(chan struct{})
	d.mu.Unlock()

	if err := d.addTree(d.root); err != nil {
		d.Stop()
		return err
	}

	go d.processEvents(ctx, watcher, changes)

	logging.Info(watchSubsystem, "Watching %s for changes", d.root)
	return nil
}

// addTree watches dir and every non-hidden directory below it.
func (d *Detector) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logging.Debug(watchSubsystem, "Skipping %s: %v", path, err)
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if path != dir && isHidden(path) {
			return filepath.SkipDir
		}

		d.mu.Lock()
		watcher := d.watcher
		d.mu.Unlock()
		if watcher == nil {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			logging.Warn(watchSubsystem, "Failed to watch %s: %v", path, err)
			return nil
		}
		logging.Debug(watchSubsystem, "Watching directory: %s", path)
		return nil
	})
}

// processEvents handles filesystem events until shutdown.
func (d *Detector) processEvents(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			d.Stop()
			return

		case <-d.stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			d.handleFsEvent(event, changes)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error(watchSubsystem, err, "Filesystem watcher error")
		}
	}
}

// handleFsEvent records a single filesystem event.
func (d *Detector) handleFsEvent(event fsnotify.Event, changes chan<- ChangeEvent) {
	if isHidden(event.Name) || strings.HasSuffix(event.Name, "~") {
		return
	}

	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := d.addTree(event.Name); err != nil {
				logging.Warn(watchSubsystem, "Failed to watch new directory %s: %v", event.Name, err)
			}
		}
	}

	d.debounce(event.Name, changes)
}

// debounce adds path to the pending batch and restarts the timer.
func (d *Detector) debounce(path string, changes chan<- ChangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}

	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounceInterval, func() {
		d.mu.Lock()
		if len(d.pending) == 0 {
			d.mu.Unlock()
			return
		}
		paths := make([]string, 0, len(d.pending))
		for p := range d.pending {
			paths = append(paths, p)
		}
		d.pending = make(map[string]struct{})
		d.mu.Unlock()

		sort.Strings(paths)
		select {
		case changes <- ChangeEvent{Paths: paths, Timestamp: time.Now()}:
			logging.Debug(watchSubsystem, "Emitted change event for %d path(s)", len(paths))
		default:
			logging.Warn(watchSubsystem, "Change event channel full, dropping %d change(s)", len(paths))
		}
	})
}

// Stop gracefully stops the detector. It is safe to call more than once.
func (d *Detector) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}

	d.running = false
	close(d.stopCh)

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[string]struct{})

	if d.watcher != nil {
		if err := d.watcher.Close(); err != nil {
			logging.Error(watchSubsystem, err, "Error closing filesystem watcher")
		}
		d.watcher = nil
	}

	logging.Info(watchSubsystem, "Stopped watching %s", d.root)
	return nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
