package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/guardlint/internal/syntax"
	tt "github.com/gnolang/guardlint/internal/types"
)

// ReportFunc receives the findings of a re-analyzed file.
type ReportFunc func(filename string, findings []tt.Finding)

// MatchFunc reports whether path is watched. Directories it rejects are not
// descended into.
type MatchFunc func(path string, isDir bool) bool

func supportedFiles(path string, isDir bool) bool {
	return isDir || syntax.Supported(path)
}

// Watcher re-analyzes supported files as they are written.
type Watcher struct {
	engine   *Engine
	watcher  *fsnotify.Watcher
	match    MatchFunc
	report   ReportFunc
	logger   *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher watches dirs and every directory below them that match
// accepts. A nil match watches every directory and every supported file.
func NewWatcher(engine *Engine, dirs []string, match MatchFunc, report ReportFunc, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if match == nil {
		match = supportedFiles
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && !match(path, true) {
				return filepath.SkipDir
			}
			return fw.Add(path)
		})
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	return &Watcher{
		engine:   engine,
		watcher:  fw,
		match:    match,
		report:   report,
		logger:   logger,
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Run processes file events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !w.match(event.Name, false) {
		return
	}

	// editors write in bursts; analyze once the file settles
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[event.Name]; ok {
		t.Stop()
	}
	name := event.Name
	w.pending[name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, name)
		w.mu.Unlock()
		w.analyze(ctx, name)
	})
}

func (w *Watcher) analyze(ctx context.Context, filename string) {
	if ctx.Err() != nil {
		return
	}
	findings, err := w.engine.Run(ctx, filename)
	if err != nil {
		if errors.Is(err, syntax.ErrSyntax) {
			w.logger.Debug("skipping file with syntax errors", zap.String("file", filename))
			return
		}
		w.logger.Error("error analyzing file", zap.String("file", filename), zap.Error(err))
		return
	}
	w.logger.Debug("analyzed", zap.String("file", filename), zap.Int("findings", len(findings)))
	if w.report != nil {
		w.report(filename, findings)
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for name, t := range w.pending {
		t.Stop()
		delete(w.pending, name)
	}
}
