package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"mercator-hq/verity/pkg/config"
)

// Event operations recorded through EventRecorder.
const (
	OpCreate   = "create"
	OpWrite    = "write"
	OpRemove   = "remove"
	OpRename   = "rename"
	OpRules    = "rules"
	OpSchedule = "schedule"
)

// rulesKey is the debounce key of rule file changes.
const rulesKey = "\x00rules"

// Handler checks one data file.
type Handler func(ctx context.Context, path string)

// EventRecorder counts watcher events.
type EventRecorder interface {
	RecordWatchEvent(op string)
}

// Watcher follows data files and the rule file and re-runs checks.
type Watcher struct {
	config    *config.WatchConfig
	rulesPath string
	events    EventRecorder
	logger    *slog.Logger

	fs       *fsnotify.Watcher
	debounce *Debouncer

	// files are watched paths that name a single file; trees are watched
	// directories.
	files map[string]bool
	trees []string

	mu      sync.Mutex
	running bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithRulesPath re-checks every data file when the rule file changes.
func WithRulesPath(path string) Option {
	return func(w *Watcher) {
		w.rulesPath = path
	}
}

// WithEventRecorder counts events on rec.
func WithEventRecorder(rec EventRecorder) Option {
	return func(w *Watcher) {
		w.events = rec
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a watcher for cfg. Paths must exist.
func New(cfg *config.WatchConfig, opts ...Option) (*Watcher, error) {
	if cfg == nil {
		return nil, errors.New("watch config is nil")
	}
	if len(cfg.Paths) == 0 {
		return nil, errors.New("no paths to watch")
	}

	w := &Watcher{
		config: cfg,
		logger: slog.Default(),
		files:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "watch")
	if w.rulesPath != "" {
		w.rulesPath = filepath.Clean(w.rulesPath)
	}

	for _, p := range cfg.Paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("watch path: %w", err)
		}
		if info.IsDir() {
			w.trees = append(w.trees, p)
		} else {
			w.files[p] = true
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	w.fs = fsw
	w.debounce = NewDebouncer(cfg.Debounce)

	return w, nil
}

// Files returns every data file currently covered by the watched paths,
// sorted. The rule file is never a data file.
func (w *Watcher) Files() ([]string, error) {
	var out []string
	for p := range w.files {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}

	for _, root := range w.trees {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && isHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && path != w.rulesPath && w.hasValidExtension(path) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	slices.Sort(out)
	return slices.Compact(out), nil
}

// RunAll calls handle for every data file in Files.
func (w *Watcher) RunAll(ctx context.Context, handle Handler) error {
	files, err := w.Files()
	if err != nil {
		return err
	}
	for _, f := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		handle(ctx, f)
	}
	return nil
}

// Watch follows the paths until ctx is cancelled, calling handle for every
// changed data file. A Watcher can watch once; its resources are released
// when Watch returns.
func (w *Watcher) Watch(ctx context.Context, handle Handler) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer w.fs.Close()
	defer w.debounce.Stop()

	if err := w.addPaths(); err != nil {
		return err
	}

	if w.config.Schedule != "" {
		c := cron.New()
		_, err := c.AddFunc(w.config.Schedule, func() {
			w.record(OpSchedule)
			w.logger.Info("scheduled re-check")
			if err := w.RunAll(ctx, handle); err != nil && ctx.Err() == nil {
				w.logger.Error("scheduled re-check failed", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid watch schedule %q: %w", w.config.Schedule, err)
		}
		c.Start()
		defer func() { <-c.Stop().Done() }()
	}

	w.logger.Info("watching for changes",
		"paths", w.config.Paths,
		"rules", w.rulesPath,
		"debounce_ms", w.config.Debounce.Milliseconds(),
		"schedule", w.config.Schedule,
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			w.handleEvent(ctx, event, handle)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event, handle Handler) {
	if event.Op == fsnotify.Chmod {
		return
	}
	path := filepath.Clean(event.Name)

	if path == w.rulesPath {
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			w.logger.Warn("rule file removed", "path", path)
			return
		}
		w.record(OpRules)
		w.debounce.Trigger(rulesKey, func() {
			w.logger.Info("rule file changed, re-checking every data file", "path", path)
			if err := w.RunAll(ctx, handle); err != nil && ctx.Err() == nil {
				w.logger.Error("re-check failed", "error", err)
			}
		})
		return
	}

	if event.Has(fsnotify.Create) && w.inTree(path) {
		if info, err := os.Stat(path); err == nil && info.IsDir() && !isHidden(path) {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if !w.isDataFile(path) {
		return
	}

	op := opName(event.Op)
	w.record(op)
	w.logger.Debug("file event", "path", path, "op", op)

	if op == OpRemove || op == OpRename {
		return
	}
	w.debounce.Trigger(path, func() {
		handle(ctx, path)
	})
}

// addPaths registers every directory that must be followed.
func (w *Watcher) addPaths() error {
	dirs := make(map[string]bool)
	for p := range w.files {
		dirs[filepath.Dir(p)] = true
	}
	if w.rulesPath != "" {
		dirs[filepath.Dir(w.rulesPath)] = true
	}
	for dir := range dirs {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", dir, err)
		}
	}

	for _, root := range w.trees {
		if err := w.addTree(root); err != nil {
			return err
		}
	}
	return nil
}

// addTree watches root and every non-hidden directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		w.logger.Debug("watching directory", "path", path)
		return nil
	})
}

// isDataFile reports whether path is a watched file or a matching file
// inside a watched directory.
func (w *Watcher) isDataFile(path string) bool {
	if path == w.rulesPath {
		return false
	}
	if w.files[path] {
		return true
	}
	return w.inTree(path) && !isHidden(path) && w.hasValidExtension(path)
}

func (w *Watcher) inTree(path string) bool {
	for _, root := range w.trees {
		if strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) hasValidExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range w.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

func (w *Watcher) record(op string) {
	if w.events != nil {
		w.events.RecordWatchEvent(op)
	}
}

func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove
	case op.Has(fsnotify.Rename):
		return OpRename
	case op.Has(fsnotify.Create):
		return OpCreate
	default:
		return OpWrite
	}
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
