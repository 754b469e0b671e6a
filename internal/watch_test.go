package internal

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tt "github.com/gnolang/guardlint/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWatcherReportsWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	engine, err := NewEngine(nil)
	require.NoError(t, err)

	var (
		mu      sync.Mutex
		reports = map[string][]tt.Finding{}
	)
	report := func(filename string, findings []tt.Finding) {
		mu.Lock()
		defer mu.Unlock()
		reports[filename] = findings
	}

	w, err := NewWatcher(engine, []string{dir}, nil, report, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	path := filepath.Join(dir, "main.js")
	ignored := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(ignored, []byte("if (a > b) {}"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(tailSource), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		_, ok := reports[path]
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, reports[path], 1)
	assert.NotContains(t, reports, ignored)
}

func TestNewWatcherMissingDir(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	_, err = NewWatcher(engine, []string{filepath.Join(t.TempDir(), "missing")}, nil, nil, nil)
	assert.Error(t, err)
}

func TestWatcherSkipsUnmatchedPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	vendor := filepath.Join(dir, "node_modules", "lib")
	require.NoError(t, os.MkdirAll(vendor, 0o755))

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	var (
		mu      sync.Mutex
		reports = map[string][]tt.Finding{}
	)
	report := func(filename string, findings []tt.Finding) {
		mu.Lock()
		defer mu.Unlock()
		reports[filename] = findings
	}
	match := func(path string, isDir bool) bool {
		if isDir {
			return filepath.Base(path) != "node_modules"
		}
		return filepath.Ext(path) == ".js"
	}

	w, err := NewWatcher(engine, []string{dir}, match, report, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	ignored := filepath.Join(vendor, "index.js")
	filtered := filepath.Join(dir, "view.ts")
	path := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(ignored, []byte(tailSource), 0o644))
	require.NoError(t, os.WriteFile(filtered, []byte(tailSource), 0o644))
	// past the debounce window, so earlier writes would be reported first
	time.Sleep(300 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(tailSource), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		_, ok := reports[path]
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, reports, ignored)
	assert.NotContains(t, reports, filtered)
}
