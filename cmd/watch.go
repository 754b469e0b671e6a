package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/guardlint/internal"
	tt "github.com/gnolang/guardlint/internal/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-analyze files as they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine, config, err := loadEngine()
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}
		if engine.Cache() == nil {
			cache, err := internal.NewCache(internal.DefaultCacheSize)
			if err != nil {
				logger.Fatal("Failed to create cache", zap.Error(err))
			}
			engine.SetCache(cache)
		}

		report := func(filename string, findings []tt.Finding) {
			if len(findings) == 0 {
				logger.Info("No findings", zap.String("file", filename))
				return
			}
			if err := printFindings(ctx, os.Stdout, findings, false, ""); err != nil {
				logger.Error("Error printing findings", zap.Error(err))
			}
		}

		watcher, err := internal.NewWatcher(engine, args, config.WatchMatch, report, logger)
		if err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		fmt.Printf("Watching %d director%s, press Ctrl+C to stop\n", len(args), plural(len(args)))
		if err := watcher.Run(ctx); err != nil {
			logger.Error("Watcher stopped", zap.Error(err))
		}
		saveCache(engine)
	},
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
