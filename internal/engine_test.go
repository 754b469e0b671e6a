package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnolang/guardlint/internal/syntax"
	tt "github.com/gnolang/guardlint/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tailSource = `function main() {
  const a = Math.random()
  if (a > 0.5) {
    console.log('Yes')
  }
}
`

func TestNewEngine(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"invert-if"}, engine.ActiveRules())
	assert.Equal(t, tt.SeverityWarning, engine.findRule("invert-if").Severity())
}

func TestNewEngineRuleConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rules    map[string]tt.ConfigRule
		active   []string
		severity tt.Severity
		wantErr  bool
	}{
		{
			name:     "raise severity",
			rules:    map[string]tt.ConfigRule{"invert-if": {Severity: tt.SeverityError}},
			active:   []string{"invert-if"},
			severity: tt.SeverityError,
		},
		{
			name:     "turn off",
			rules:    map[string]tt.ConfigRule{"invert-if": {Severity: tt.SeverityOff}},
			active:   []string{},
			severity: tt.SeverityOff,
		},
		{
			name:    "unknown rule",
			rules:   map[string]tt.ConfigRule{"no-such-rule": {Severity: tt.SeverityError}},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			engine, err := NewEngine(tc.rules)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.active, engine.ActiveRules())
			assert.Equal(t, tc.severity, engine.findRule("invert-if").Severity())
		})
	}
}

func TestEngineIgnoreRule(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(nil)
	require.NoError(t, err)
	engine.IgnoreRule("invert-if")
	assert.True(t, engine.ignoredRules["invert-if"])
	assert.Empty(t, engine.ActiveRules())

	findings, err := engine.RunSource(context.Background(), "main.js", []byte(tailSource))
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestEngineRunSource(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(map[string]tt.ConfigRule{"invert-if": {Severity: tt.SeverityError}})
	require.NoError(t, err)

	findings, err := engine.RunSource(context.Background(), "main.js", []byte(tailSource))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "invert-if", findings[0].Code)
	assert.Equal(t, 3, findings[0].Line)
	assert.Equal(t, tt.SeverityError, findings[0].Severity)
	assert.True(t, findings[0].HasFix())
}

func TestEngineRunSourceErrors(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	_, err = engine.RunSource(context.Background(), "main.py", []byte("x = 1\n"))
	assert.ErrorIs(t, err, syntax.ErrUnsupported)

	_, err = engine.RunSource(context.Background(), "main.js", []byte("function ( {\n"))
	assert.ErrorIs(t, err, syntax.ErrSyntax)
}

func TestEngineRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.ts")
	require.NoError(t, os.WriteFile(path, []byte(tailSource), 0o644))

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	findings, err := engine.Run(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, path, findings[0].FilePath)
	assert.Equal(t, "main.ts", findings[0].RelativeFilePath)
}

func TestEngineNolint(t *testing.T) {
	t.Parallel()

	src := `function main() {
  // nolint:invert-if
  if (a > b) {
    run()
  }
}

function other() {
  if (a > b) { // nolint:some-other-rule
    run()
  }
}
`
	engine, err := NewEngine(nil)
	require.NoError(t, err)

	findings, err := engine.RunSource(context.Background(), "main.js", []byte(src))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, 9, findings[0].Line)
}

func TestEngineCache(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(8)
	require.NoError(t, err)

	engine, err := NewEngine(nil)
	require.NoError(t, err)
	engine.SetCache(cache)

	first, err := engine.RunSource(context.Background(), "main.js", []byte(tailSource))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	second, err := engine.RunSource(context.Background(), "main.js", []byte(tailSource))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())

	// a severity change must not reuse the entry
	engine.findRule("invert-if").SetSeverity(tt.SeverityError)
	third, err := engine.RunSource(context.Background(), "main.js", []byte(tailSource))
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.Equal(t, tt.SeverityError, third[0].Severity)
	assert.Equal(t, 2, cache.Len())
}

func TestEngineAnalyzeOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, err := syntax.Parse(ctx, "a.js", []byte("function f() {\n  if (x > 1) {\n    if (y > 2) {\n      run()\n    }\n  }\n}\n"))
	require.NoError(t, err)
	b, err := syntax.Parse(ctx, "b.js", []byte(tailSource))
	require.NoError(t, err)

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	findings := engine.Analyze([]*syntax.File{b, a})
	require.Len(t, findings, 3)
	assert.Equal(t, "b.js", findings[0].FilePath)
	assert.Equal(t, "a.js", findings[1].FilePath)
	assert.Equal(t, 2, findings[1].Line)
	assert.Equal(t, "a.js", findings[2].FilePath)
	assert.Equal(t, 3, findings[2].Line)
}
