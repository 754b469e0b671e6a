package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/viant/afs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/guardlint/internal"
	"github.com/gnolang/guardlint/internal/fixer"
	"github.com/gnolang/guardlint/internal/syntax"
	tt "github.com/gnolang/guardlint/internal/types"
)

type LintEngine interface {
	Run(ctx context.Context, filePath string) ([]tt.Finding, error)
	RunSource(ctx context.Context, filename string, source []byte) ([]tt.Finding, error)
	IgnoreRule(rule string)
}

// Processor analyzes one file with engine.
type Processor func(ctx context.Context, engine LintEngine, path string) ([]tt.Finding, error)

// New creates an engine from the configuration file at configurationPath.
func New(configurationPath string) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(config)
}

func NewWithConfig(config Config) (*internal.Engine, error) {
	return internal.NewEngine(config.Rules)
}

var defaultEngine = sync.OnceValue(func() *internal.Engine {
	engine, err := internal.NewEngine(nil)
	if err != nil {
		// the built-in rule set is always valid
		panic(err)
	}
	return engine
})

// Analyze runs the default rules over files and returns their findings in
// traversal order: files in the given order, nodes in pre-order.
func Analyze(files []*syntax.File) []tt.Finding {
	return defaultEngine().Analyze(files)
}

// ApplyFix returns the text of the finding's file with its fix applied.
func ApplyFix(files []*syntax.File, finding tt.Finding) (string, error) {
	return fixer.ApplyFix(files, finding)
}

// LoadFiles reads and parses paths in parallel. The result keeps the order
// of paths.
func LoadFiles(ctx context.Context, paths []string) ([]*syntax.File, error) {
	fsys := afs.New()
	files := make([]*syntax.File, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			source, err := fsys.DownloadWithURL(gctx, path)
			if err != nil {
				return fmt.Errorf("error reading %s: %w", path, err)
			}
			f, err := syntax.Parse(gctx, path, source)
			if err != nil {
				return fmt.Errorf("error parsing %s: %w", path, err)
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// CollectFiles expands path into the sorted list of files config accepts.
// A file path is returned as is when it matches.
func CollectFiles(path string, config Config) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		if config.Matches(path) {
			return []string{path}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if filePath != path && config.Ignored(filePath) {
				return filepath.SkipDir
			}
			return nil
		}
		if config.Matches(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	sources map[string][]byte,
) ([]tt.Finding, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var allFindings []tt.Finding
	for _, name := range names {
		findings, err := engine.RunSource(ctx, name, sources[name])
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.String("source", name), zap.Error(err))
			}
			return nil, err
		}
		allFindings = append(allFindings, findings...)
	}
	return allFindings, nil
}

// ProcessFiles runs ProcessPath over every path. Failures are joined and
// returned with the findings of everything that could be analyzed.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	config Config,
	paths []string,
	processor Processor,
) ([]tt.Finding, error) {
	var (
		allFindings []tt.Finding
		errs        []error
	)
	for _, path := range paths {
		findings, err := ProcessPath(ctx, logger, engine, config, path, processor)
		// a partly failed path still contributes what it found
		allFindings = append(allFindings, findings...)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			if ctx.Err() != nil {
				return allFindings, err
			}
			errs = append(errs, err)
		}
	}
	return allFindings, errors.Join(errs...)
}

// progressOutput receives the progress bar of directory runs.
var progressOutput io.Writer = os.Stderr

// ProcessPath analyzes a file, or every matching file below a directory.
// Files of a directory are processed in parallel. A file that fails does
// not stop the others: the findings of the rest are returned together with
// the joined errors. The findings keep the sorted file order.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	config Config,
	path string,
	processor Processor,
) ([]tt.Finding, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	files, err := CollectFiles(path, config)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) == 1 {
		return processor(ctx, engine, files[0])
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(progressOutput),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	results := make([][]tt.Finding, len(files))
	errs := make([]error, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, fp := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer bar.Add(1)

			findings, err := processor(gctx, engine, fp)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				errs[i] = err
				return nil
			}
			results[i] = findings
			return nil
		})
	}
	waitErr := g.Wait()

	var findings []tt.Finding
	for _, r := range results {
		findings = append(findings, r...)
	}
	if waitErr != nil {
		return findings, waitErr
	}
	return findings, errors.Join(errs...)
}

func ProcessFile(ctx context.Context, engine LintEngine, filePath string) ([]tt.Finding, error) {
	return engine.Run(ctx, filePath)
}
