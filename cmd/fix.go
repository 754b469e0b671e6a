package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/guardlint/internal/fixer"
	"github.com/gnolang/guardlint/lint"
)

var dryRun bool

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Rewrite nested if statements into guard clauses",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, config, err := loadEngine()
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		fix := fixer.New(engine, dryRun, config.Fix.MaxPasses, logger)
		failed := runAutoFix(ctx, logger, fix, config, args)
		saveCache(engine)
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run in dry-run mode (show fixes without applying them)")
}

// runAutoFix fixes every matching file below paths and reports whether any
// of them failed.
func runAutoFix(ctx context.Context, logger *zap.Logger, fix *fixer.Fixer, config lint.Config, paths []string) bool {
	failed := false
	for _, path := range paths {
		files, err := lint.CollectFiles(path, config)
		if err != nil {
			logger.Error("error processing path", zap.String("path", path), zap.Error(err))
			failed = true
			continue
		}
		for _, file := range files {
			res, err := fix.Fix(ctx, file)
			if err != nil {
				logger.Error("error fixing issues", zap.String("file", file), zap.Error(err))
				failed = true
				if ctx.Err() != nil {
					return failed
				}
				continue
			}
			if len(res.Remaining) > 0 {
				logger.Debug("findings left after fixing",
					zap.String("file", file),
					zap.Int("findings", len(res.Remaining)),
				)
			}
		}
	}
	return failed
}
