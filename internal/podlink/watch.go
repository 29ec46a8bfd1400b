package podlink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"podpilot/internal/logging"
)

const defaultRescanPeriod = 5 * time.Second

// Watcher observes the pod state file and invokes a callback whenever the
// pod side changes it. fsnotify covers the common case; a rescan ticker
// backstops editors and filesystems that rename instead of writing in place.
type Watcher struct {
	link         *Link
	logger       *logging.Logger
	onChange     func()
	rescanPeriod time.Duration

	lastMod  time.Time
	lastSize int64
	present  bool
}

func NewWatcher(link *Link, logger *logging.Logger, onChange func()) *Watcher {
	if link == nil {
		panic("podlink.NewWatcher: link must not be nil")
	}
	if logger == nil {
		panic("podlink.NewWatcher: logger must not be nil")
	}
	if onChange == nil {
		panic("podlink.NewWatcher: onChange must not be nil")
	}
	return &Watcher{
		link:         link,
		logger:       logger,
		onChange:     onChange,
		rescanPeriod: defaultRescanPeriod,
	}
}

// RunContext watches until the context is canceled. The watch directory must
// exist; the state file itself may appear and disappear while running.
func (w *Watcher) RunContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(w.link.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create watch directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch pod state directory %s: %w", dir, err)
	}
	w.logger.Debugf("watching pod state directory: %s", dir)

	w.snapshotFileMeta()

	rescanTicker := time.NewTicker(w.rescanPeriod)
	defer rescanTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("stopping pod state watcher: context canceled")
			return nil
		case event := <-watcher.Events:
			w.handleWatcherEvent(event)
		case err := <-watcher.Errors:
			if err != nil {
				w.logger.Warn("pod state watcher error", logging.Field("error", err))
			}
		case <-rescanTicker.C:
			w.handleRescanTick()
		}
	}
}

func (w *Watcher) handleWatcherEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.link.Path() {
		return
	}
	w.logger.Debugf("fsnotify event: op=%s path=%s", event.Op.String(), event.Name)
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	if w.refreshFileMeta() {
		w.onChange()
	}
}

func (w *Watcher) handleRescanTick() {
	if w.refreshFileMeta() {
		w.logger.Debug("pod state change detected by rescan")
		w.onChange()
	}
}

func (w *Watcher) snapshotFileMeta() {
	w.present, w.lastMod, w.lastSize = statFile(w.link.Path())
}

// refreshFileMeta re-stats the state file and reports whether presence,
// mod time, or size moved since the last observation.
func (w *Watcher) refreshFileMeta() bool {
	present, mod, size := statFile(w.link.Path())
	changed := present != w.present || !mod.Equal(w.lastMod) || size != w.lastSize
	w.present, w.lastMod, w.lastSize = present, mod, size
	return changed
}

func statFile(path string) (bool, time.Time, int64) {
	info, err := os.Stat(path)
	if err != nil {
		return false, time.Time{}, 0
	}
	return true, info.ModTime(), info.Size()
}
