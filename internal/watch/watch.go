package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ppiankov/prodaudit/internal/audit"
)

// debounceDefault is the quiet period after the last file event before a rerun.
const debounceDefault = 500 * time.Millisecond

// pollDefault is the polling interval when fsnotify is unavailable.
const pollDefault = 2 * time.Second

// Config holds watcher configuration.
type Config struct {
	Root         string
	ExcludeDirs  []string // directory name markers that are never watched
	IgnorePaths  []string // files whose changes never trigger a rerun (the report itself)
	PollMode     bool     // fall back to polling if fsnotify unavailable
	Debounce     time.Duration
	PollInterval time.Duration
	OnChange     func() error // full audit run; called from the Run goroutine only
}

// Watcher reruns the audit whenever the project tree changes.
type Watcher struct {
	cfg    Config
	ignore map[string]bool
}

// New creates a watcher with validated configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("change handler is required")
	}
	if cfg.ExcludeDirs == nil {
		cfg.ExcludeDirs = audit.DefaultExcludeDirs
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = debounceDefault
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = pollDefault
	}

	ignore := make(map[string]bool, len(cfg.IgnorePaths))
	for _, p := range cfg.IgnorePaths {
		if abs, err := filepath.Abs(p); err == nil {
			ignore[abs] = true
		}
	}
	return &Watcher{cfg: cfg, ignore: ignore}, nil
}

// Run performs an initial audit and then one per batch of changes.
// Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.rerun("initial")

	if w.cfg.PollMode {
		return w.runPollWatcher(ctx)
	}
	return w.runFSWatcher(ctx)
}

func (w *Watcher) rerun(reason string) {
	slog.Info("running audit", "reason", reason)
	if err := w.cfg.OnChange(); err != nil {
		slog.Error("audit failed", "error", err)
	}
}

// runFSWatcher watches every non-excluded directory under root using fsnotify.
func (w *Watcher) runFSWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := w.addTree(watcher, w.cfg.Root); err != nil {
		return fmt.Errorf("watch root: %w", err)
	}

	slog.Info("watching for changes", "mode", "fsnotify", "root", w.cfg.Root)

	// a single pending rerun; the timer only signals, the audit runs in this goroutine
	trigger := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := w.addTree(watcher, event.Name); err != nil {
						slog.Warn("watch new dir", "dir", event.Name, "error", err)
					}
				}
			}
			slog.Debug("change detected", "path", event.Name, "op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.cfg.Debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			w.rerun("change")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

// runPollWatcher compares a tree fingerprint on every tick.
func (w *Watcher) runPollWatcher(ctx context.Context) error {
	slog.Info("watching for changes", "mode", "poll", "root", w.cfg.Root, "interval", w.cfg.PollInterval)

	last := w.fingerprint()
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("watch stopped")
			return nil
		case <-ticker.C:
			fp := w.fingerprint()
			if fp == last {
				continue
			}
			last = fp
			w.rerun("change")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if abs, err := filepath.Abs(event.Name); err == nil && w.ignore[abs] {
		return false
	}
	// exclude markers apply to directories only
	if !audit.ExcludedDir(filepath.Base(event.Name), w.cfg.ExcludeDirs) {
		return true
	}
	fi, err := os.Stat(event.Name)
	return err != nil || !fi.IsDir()
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && audit.ExcludedDir(d.Name(), w.cfg.ExcludeDirs) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			slog.Debug("watch dir", "dir", path, "error", err)
		}
		return nil
	})
}

type treeState struct {
	files   int
	size    int64
	modTime int64 // latest mtime in unix nanoseconds
}

func (w *Watcher) fingerprint() treeState {
	var fp treeState
	_ = filepath.WalkDir(w.cfg.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.cfg.Root && audit.ExcludedDir(d.Name(), w.cfg.ExcludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		if abs, err := filepath.Abs(path); err == nil && w.ignore[abs] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		fp.files++
		fp.size += info.Size()
		if mt := info.ModTime().UnixNano(); mt > fp.modTime {
			fp.modTime = mt
		}
		return nil
	})
	return fp
}
