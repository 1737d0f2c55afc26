// Package watch recompiles project documents when they change on disk.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	compiler "github.com/mjmahone/fragc/internal/compiler"
)

const eventChannelBuffer = 64

// Event is the result of recompiling one changed document.
type Event struct {
	// Path is the document path relative to the project root.
	Path string
	// Rendered is the rewritten document source when compilation
	// succeeded.
	Rendered string
	// Err holds the parse or validation error otherwise.
	Err error
}

// Watcher watches a project root and recompiles documents matching the
// configured glob patterns. Changes are debounced so an editor writing a
// file several times in quick succession compiles it once.
type Watcher struct {
	root     string
	patterns []string
	debounce time.Duration
	logger   *slog.Logger
	fsw      *fsnotify.Watcher

	pendingMu sync.Mutex
	pending   map[string]struct{}

	events chan Event
}

// New creates a Watcher for the documents under root matching patterns.
func New(root string, patterns []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		root:     root,
		patterns: patterns,
		debounce: debounce,
		logger:   logger,
		fsw:      fsw,
		pending:  make(map[string]struct{}),
		events:   make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the channel compile results are delivered on. It is
// closed when the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start adds watches for the project tree and begins processing changes.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.root); err != nil {
		return err
	}
	go w.run(ctx)
	w.logger.Info("watching for document changes",
		"root", w.root,
		"patterns", w.patterns,
		"debounce", w.debounce)
	return nil
}

// Stop closes the underlying filesystem watcher. The events channel is
// closed once the processing loop drains.
func (w *Watcher) Stop() error {
	return w.fsw.Close()
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			if err := w.addWatchesRecursive(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
		}
		return
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || !w.matches(rel) {
		return
	}
	w.pendingMu.Lock()
	w.pending[rel] = struct{}{}
	w.pendingMu.Unlock()
}

func (w *Watcher) matches(rel string) bool {
	slashed := filepath.ToSlash(rel)
	for _, pattern := range w.patterns {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
	}
	return false
}

func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	batch := w.pending
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	for rel := range batch {
		w.compile(ctx, rel)
	}
}

func (w *Watcher) compile(ctx context.Context, rel string) {
	data, err := os.ReadFile(filepath.Join(w.root, rel))
	if err != nil {
		// Deleted between the change event and the flush.
		return
	}
	res, err := compiler.CompileSource(ctx, rel, string(data))
	ev := Event{Path: rel, Err: err}
	if err == nil {
		ev.Rendered = res.Rendered
	}
	select {
	case w.events <- ev:
	default:
		w.logger.Warn("dropping compile event, channel full", "path", rel)
	}
}
