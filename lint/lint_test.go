package lint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	tt "github.com/gnolang/guardlint/internal/types"
)

const guardSource = `function main() {
  const a = Math.random()
  if (a > 0.5) {
    console.log('Yes')
  }
}
`

type mockLintEngine struct {
	mock.Mock
}

func (m *mockLintEngine) Run(ctx context.Context, filePath string) ([]tt.Finding, error) {
	args := m.Called(ctx, filePath)
	return args.Get(0).([]tt.Finding), args.Error(1)
}

func (m *mockLintEngine) RunSource(ctx context.Context, filename string, source []byte) ([]tt.Finding, error) {
	args := m.Called(ctx, filename, source)
	return args.Get(0).([]tt.Finding), args.Error(1)
}

func (m *mockLintEngine) IgnoreRule(rule string) {
	m.Called(rule)
}

func finding(path string, line int) tt.Finding {
	return tt.Finding{
		Code:     "invert-if",
		Message:  "Invert if statement to reduce nesting.",
		FilePath: path,
		Line:     line,
		Column:   3,
		Severity: tt.SeverityWarning,
	}
}

func TestProcessFile(t *testing.T) {
	t.Parallel()

	expected := []tt.Finding{finding("test.js", 3)}
	engine := new(mockLintEngine)
	engine.On("Run", mock.Anything, "test.js").Return(expected, nil)

	findings, err := ProcessFile(context.Background(), engine, "test.js")

	assert.NoError(t, err)
	assert.Equal(t, expected, findings)
	engine.AssertExpectations(t)
}

func TestProcessPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := createTempFiles(t, dir, "b.js", "a.ts", "c.tsx", "README.md")

	engine := new(mockLintEngine)
	for _, p := range paths[:3] {
		engine.On("Run", mock.Anything, p).Return([]tt.Finding{finding(p, 1)}, nil)
	}

	findings, err := ProcessPath(context.Background(), zap.NewNop(), engine, DefaultConfig(), dir, ProcessFile)
	require.NoError(t, err)
	require.Len(t, findings, 3)

	// sorted file order regardless of completion order
	assert.Equal(t, filepath.Join(dir, "a.ts"), findings[0].FilePath)
	assert.Equal(t, filepath.Join(dir, "b.js"), findings[1].FilePath)
	assert.Equal(t, filepath.Join(dir, "c.tsx"), findings[2].FilePath)
	engine.AssertNotCalled(t, "Run", mock.Anything, filepath.Join(dir, "README.md"))
}

func TestProcessPathSingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := createTempFiles(t, dir, "only.js")

	engine := new(mockLintEngine)
	engine.On("Run", mock.Anything, paths[0]).Return([]tt.Finding{finding(paths[0], 2)}, nil)

	findings, err := ProcessPath(context.Background(), nil, engine, DefaultConfig(), paths[0], ProcessFile)
	require.NoError(t, err)
	assert.Len(t, findings, 1)
	engine.AssertExpectations(t)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := createTempFiles(t, dir, "one.js", "two.js")

	engine := new(mockLintEngine)
	engine.On("Run", mock.Anything, paths[0]).Return([]tt.Finding{finding(paths[0], 1)}, nil)
	engine.On("Run", mock.Anything, paths[1]).Return([]tt.Finding{finding(paths[1], 4)}, nil)

	findings, err := ProcessFiles(context.Background(), zap.NewNop(), engine, DefaultConfig(), paths, ProcessFile)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, paths[0], findings[0].FilePath)
	assert.Equal(t, paths[1], findings[1].FilePath)
	engine.AssertExpectations(t)
}

func TestProcessFilesMissingPath(t *testing.T) {
	t.Parallel()

	engine := new(mockLintEngine)
	_, err := ProcessFiles(context.Background(), zap.NewNop(), engine, DefaultConfig(),
		[]string{filepath.Join(t.TempDir(), "missing.js")}, ProcessFile)
	assert.Error(t, err)
	engine.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestProcessSources(t *testing.T) {
	t.Parallel()

	sources := map[string][]byte{
		"z.js": []byte("if (a) { b() }"),
		"a.js": []byte("if (c) { d() }"),
	}
	engine := new(mockLintEngine)
	engine.On("RunSource", mock.Anything, "a.js", sources["a.js"]).Return([]tt.Finding{finding("a.js", 1)}, nil)
	engine.On("RunSource", mock.Anything, "z.js", sources["z.js"]).Return([]tt.Finding{finding("z.js", 1)}, nil)

	findings, err := ProcessSources(context.Background(), zap.NewNop(), engine, sources)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, "a.js", findings[0].FilePath)
	assert.Equal(t, "z.js", findings[1].FilePath)
	engine.AssertExpectations(t)
}

func TestCollectFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createTempFiles(t, dir,
		"src/app.ts",
		"src/view.tsx",
		"src/util.js",
		"node_modules/lib/index.js",
		"dist/bundle.js",
		"notes.txt",
	)

	tests := []struct {
		name   string
		config Config
		want   []string
	}{
		{
			name:   "default ignores",
			config: DefaultConfig(),
			want:   []string{"src/app.ts", "src/util.js", "src/view.tsx"},
		},
		{
			name:   "extension filter",
			config: Config{Extensions: []string{"ts"}, IgnorePaths: []string{"node_modules"}},
			want:   []string{"src/app.ts"},
		},
		{
			name:   "no ignores",
			config: Config{},
			want:   []string{"dist/bundle.js", "node_modules/lib/index.js", "src/app.ts", "src/util.js", "src/view.tsx"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			files, err := CollectFiles(dir, tc.config)
			require.NoError(t, err)

			got := make([]string, len(files))
			for i, f := range files {
				rel, err := filepath.Rel(dir, f)
				require.NoError(t, err)
				got[i] = filepath.ToSlash(rel)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoadFilesAndAnalyze(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	clean := filepath.Join(dir, "clean.js")
	nested := filepath.Join(dir, "nested.js")
	require.NoError(t, os.WriteFile(clean, []byte("const x = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(nested, []byte(guardSource), 0o644))

	files, err := LoadFiles(context.Background(), []string{nested, clean})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, nested, files[0].Path)
	assert.Equal(t, clean, files[1].Path)

	findings := Analyze(files)
	require.Len(t, findings, 1)
	assert.Equal(t, "invert-if", findings[0].Code)
	assert.Equal(t, nested, findings[0].FilePath)
	assert.Equal(t, 3, findings[0].Line)
	require.True(t, findings[0].HasFix())

	fixed, err := ApplyFix(files, findings[0])
	require.NoError(t, err)
	assert.Contains(t, fixed, "if (a <= 0.5) return\n")
	assert.NotContains(t, fixed, "if (a > 0.5)")
}

func TestLoadFilesErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.js")
	require.NoError(t, os.WriteFile(broken, []byte("function ( {"), 0o644))

	_, err := LoadFiles(context.Background(), []string{broken})
	assert.ErrorContains(t, err, "error parsing")

	_, err = LoadFiles(context.Background(), []string{filepath.Join(dir, "missing.js")})
	assert.ErrorContains(t, err, "error reading")
}

func TestNewWithConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	config.Rules["invert-if"] = tt.ConfigRule{Severity: tt.SeverityOff}
	engine, err := NewWithConfig(config)
	require.NoError(t, err)
	assert.Empty(t, engine.ActiveRules())

	config.Rules = map[string]tt.ConfigRule{"bogus": {Severity: tt.SeverityError}}
	_, err = NewWithConfig(config)
	assert.Error(t, err)
}

func createTempFiles(t *testing.T, dir string, fileNames ...string) []string {
	t.Helper()
	paths := make([]string, len(fileNames))
	for i, name := range fileNames {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("const x = 1\n"), 0o644))
		paths[i] = path
	}
	return paths
}
