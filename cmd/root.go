package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/guardlint/internal"
	"github.com/gnolang/guardlint/lint"
)

const (
	defaultTimeout = 5 * time.Minute
	configEnv      = "GUARDLINT_CONFIG"
)

var (
	cfgFile   string
	cacheFile string
	timeout   time.Duration
	verbose   bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "guardlint [paths...]",
	Short:            "guardlint - flattens nested if statements into guard clauses",
	TraverseChildren: true, // Prioritize subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing .env is fine
		_ = godotenv.Load()
		if cfgFile == "" {
			cfgFile = os.Getenv(configEnv)
		}

		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		// guardlint [path1 path2 ...] behaves like the lint subcommand
		lintCmd.Run(lintCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file (default "+lint.DefaultConfigName+" when present)")
	rootCmd.PersistentFlags().StringVar(&cacheFile, "cache", "", "Findings cache file reused across runs")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Set a timeout for the linter")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable development logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(watchCmd)
}

// configPath resolves the configuration to load: the flag or environment
// value, else the default file when it exists.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if _, err := os.Stat(lint.DefaultConfigName); err == nil {
		return lint.DefaultConfigName
	}
	return ""
}

// loadEngine builds the engine for the resolved configuration and attaches
// the findings cache when one is configured.
func loadEngine() (*internal.Engine, lint.Config, error) {
	config, err := lint.LoadConfig(configPath())
	if err != nil {
		return nil, lint.Config{}, err
	}
	engine, err := lint.NewWithConfig(config)
	if err != nil {
		return nil, lint.Config{}, fmt.Errorf("error initializing lint engine: %w", err)
	}

	if cacheFile != "" {
		cache, err := internal.NewCache(internal.DefaultCacheSize)
		if err != nil {
			return nil, lint.Config{}, err
		}
		if err := cache.Load(cacheFile); err != nil {
			// a stale or foreign cache file is rebuilt on save
			logger.Warn("Ignoring unreadable cache", zap.String("file", cacheFile), zap.Error(err))
			cache.InvalidateAll()
		}
		engine.SetCache(cache)
	}
	return engine, config, nil
}

// saveCache writes the engine's cache back when one is configured.
func saveCache(engine *internal.Engine) {
	cache := engine.Cache()
	if cacheFile == "" || cache == nil {
		return
	}
	if err := cache.Save(cacheFile); err != nil {
		logger.Warn("Failed to save cache", zap.String("file", cacheFile), zap.Error(err))
	}
}
