package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/gnolang/guardlint/formatter"
	"github.com/gnolang/guardlint/internal"
	tt "github.com/gnolang/guardlint/internal/types"
	"github.com/gnolang/guardlint/lint"
)

var (
	ignoreRules    string
	ignorePaths    string
	lintJsonOutput bool
	outPath        string
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Report if statements that can become guard clauses",
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

		for _, rule := range splitList(ignoreRules) {
			engine.IgnoreRule(rule)
		}
		config.IgnorePaths = append(config.IgnorePaths, splitList(ignorePaths)...)

		findings, processErr := lint.ProcessFiles(ctx, logger, engine, config, args, lint.ProcessFile)
		saveCache(engine)
		if processErr != nil {
			logger.Error("Error processing files", zap.Error(processErr))
		}

		if err := printFindings(ctx, os.Stdout, findings, lintJsonOutput, outPath); err != nil {
			logger.Error("Error printing findings", zap.Error(err))
			os.Exit(1)
		}
		if processErr != nil || hasErrors(findings) {
			os.Exit(1)
		}
	},
}

func init() {
	lintCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of lint rules to ignore")
	lintCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of path patterns to ignore")
	lintCmd.Flags().BoolVar(&lintJsonOutput, "json", false, "Output findings in JSON format")
	lintCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func hasErrors(findings []tt.Finding) bool {
	for _, f := range findings {
		if f.Severity == tt.SeverityError {
			return true
		}
	}
	return false
}

func groupByFile(findings []tt.Finding) (map[string][]tt.Finding, []string) {
	byFile := make(map[string][]tt.Finding)
	for _, f := range findings {
		byFile[f.FilePath] = append(byFile[f.FilePath], f)
	}
	files := make([]string, 0, len(byFile))
	for filename := range byFile {
		files = append(files, filename)
	}
	sort.Strings(files)
	return byFile, files
}

func printFindings(ctx context.Context, w io.Writer, findings []tt.Finding, isJson bool, jsonOutput string) error {
	byFile, files := groupByFile(findings)

	if isJson {
		d, err := json.Marshal(byFile)
		if err != nil {
			return fmt.Errorf("error marshalling findings to JSON: %w", err)
		}
		if jsonOutput == "" {
			_, err = fmt.Fprintln(w, string(d))
			return err
		}
		return os.WriteFile(jsonOutput, d, 0o644)
	}

	fsys := afs.New()
	for _, filename := range files {
		source, err := fsys.DownloadWithURL(ctx, filename)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
			continue
		}
		output := formatter.GenerateFormattedIssue(byFile[filename], internal.NewSourceCode(string(source)))
		if _, err := fmt.Fprint(w, output); err != nil {
			return err
		}
	}
	return nil
}
