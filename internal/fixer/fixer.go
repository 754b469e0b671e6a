package fixer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/gnolang/guardlint/internal/syntax"
	tt "github.com/gnolang/guardlint/internal/types"
)

// DefaultMaxPasses bounds the analyze-and-apply loop of Fix.
const DefaultMaxPasses = 16

var (
	// ErrFixUnavailable is returned for a finding that carries no fix.
	ErrFixUnavailable = errors.New("finding has no fix")
	// ErrFileNotFound is returned when no file matches the finding's path.
	ErrFileNotFound = errors.New("file not found")
	// ErrFixOutOfRange is returned when a fix does not fit the file text.
	ErrFixOutOfRange = errors.New("fix range outside of file")
)

// ApplyFix returns the text of the file finding belongs to with the
// finding's fix applied. files are not modified.
func ApplyFix(files []*syntax.File, finding tt.Finding) (string, error) {
	if !finding.HasFix() {
		return "", fmt.Errorf("%w: %s at %s:%d", ErrFixUnavailable, finding.Code, finding.FilePath, finding.Line)
	}
	for _, f := range files {
		if f != nil && f.Path == finding.FilePath {
			return apply(f.Text, finding.Fix)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrFileNotFound, finding.FilePath)
}

func apply(text string, fix *tt.Fix) (string, error) {
	if fix.Start < 0 || fix.Start > fix.End || fix.End > len(text) {
		return "", fmt.Errorf("%w: [%d, %d) in %d bytes", ErrFixOutOfRange, fix.Start, fix.End, len(text))
	}
	return text[:fix.Start] + fix.Content + text[fix.End:], nil
}

// Analyzer produces findings for a source. *internal.Engine satisfies it.
type Analyzer interface {
	RunSource(ctx context.Context, filename string, source []byte) ([]tt.Finding, error)
}

// Fixer rewrites files until no fixable finding remains.
type Fixer struct {
	DryRun    bool
	MaxPasses int

	analyzer Analyzer
	fs       afs.Service
	logger   *zap.Logger
	out      io.Writer
}

// Result summarizes one Fix call.
type Result struct {
	// Applied is the number of fixes applied.
	Applied int
	// Content is the final file text.
	Content string
	// Remaining holds the findings left once fixing stopped.
	Remaining []tt.Finding
}

func New(analyzer Analyzer, dryRun bool, maxPasses int, logger *zap.Logger) *Fixer {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fixer{
		DryRun:    dryRun,
		MaxPasses: maxPasses,
		analyzer:  analyzer,
		fs:        afs.New(),
		logger:    logger,
		out:       os.Stdout,
	}
}

// SetOutput redirects dry-run reports.
func (f *Fixer) SetOutput(w io.Writer) {
	f.out = w
}

// Fix analyzes filename and applies its first fixable finding, then analyzes
// the result again, since every application moves the offsets of the other
// findings. It stops when nothing fixable is left or after MaxPasses rounds.
// In dry-run mode the fixes of the first round are only printed.
func (f *Fixer) Fix(ctx context.Context, filename string) (Result, error) {
	source, err := f.fs.DownloadWithURL(ctx, filename)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read file: %w", err)
	}

	res := Result{Content: string(source)}
	for pass := 0; ; pass++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		findings, err := f.analyzer.RunSource(ctx, filename, []byte(res.Content))
		if err != nil {
			return res, fmt.Errorf("failed to analyze %s: %w", filename, err)
		}
		res.Remaining = findings

		next := firstFixable(findings)
		if next < 0 || pass == f.MaxPasses {
			break
		}

		if f.DryRun {
			f.report(filename, findings)
			return res, nil
		}

		content, err := apply(res.Content, findings[next].Fix)
		if err != nil {
			return res, err
		}
		res.Content = content
		res.Applied++
		f.logger.Debug("applied fix",
			zap.String("file", filename),
			zap.String("rule", findings[next].Code),
			zap.Int("line", findings[next].Line),
		)
	}

	if res.Applied == 0 {
		return res, nil
	}
	if err := f.fs.Upload(ctx, filename, f.fileMode(ctx, filename), strings.NewReader(res.Content)); err != nil {
		return res, fmt.Errorf("failed to write file: %w", err)
	}
	f.logger.Info("fixed file", zap.String("file", filename), zap.Int("fixes", res.Applied))
	return res, nil
}

// fileMode keeps the permissions of the file being rewritten.
func (f *Fixer) fileMode(ctx context.Context, filename string) os.FileMode {
	obj, err := f.fs.Object(ctx, filename)
	if err != nil {
		return 0o644
	}
	return obj.Mode().Perm()
}

func (f *Fixer) report(filename string, findings []tt.Finding) {
	for _, finding := range findings {
		if !finding.HasFix() {
			continue
		}
		fmt.Fprintf(f.out, "Would fix issue in %s at line %d: %s\n", filename, finding.Line, finding.Message)
		fmt.Fprintf(f.out, "Suggestion:\n%s\n", finding.Fix.Content)
	}
}

func firstFixable(findings []tt.Finding) int {
	for i, finding := range findings {
		if finding.HasFix() {
			return i
		}
	}
	return -1
}
