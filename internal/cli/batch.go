package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wikibias/wikibias/internal/pipeline"
	"github.com/wikibias/wikibias/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple Wikipedia articles from a file in parallel",
	Long: `Batch analyzes multiple articles concurrently:
- Read article titles from the input file (one per line)
- Analyze articles in parallel with a configurable worker count
- Paragraphs within each article are processed sequentially
- Write one JSON report per article

Example:
  wikibias batch titles.txt
  wikibias batch titles.txt --concurrency 4 --output-dir ./reports
  wikibias batch titles.txt --max-paragraphs 3 --timeout 2h`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./wikibias-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 4*time.Hour, "total timeout for batch processing")
	batchCmd.Flags().IntVar(&maxParagraphs, "max-paragraphs", 0, "maximum number of paragraphs per article (0 = all)")

	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	batchCmd.Flags().StringVar(&llmBaseURL, "llm-base-url", "", "LLM API base URL (for local or proxied endpoints)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if llmBaseURL != "" {
		cfg.LLM.BaseURL = llmBaseURL
	}
	if concurrency > 0 {
		cfg.Concurrency.BatchWorkers = concurrency
	}
	cfg.Output.Verbose = verbose

	if err := resolveAPIKey(cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()

	p, err := pipeline.NewPipeline(cfg, log)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.BatchWorkers, maxParagraphs)

	fmt.Fprintf(os.Stderr, "Reading article titles from %s...\n", file)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", result.Title, result.Error)
			continue
		}

		path := filepath.Join(outputDir, sanitizeFilename(result.Title)+".json")
		if err := pipeline.WriteJSON(result.Report, path); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", result.Title, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "OK   %s -> %s\n", result.Title, path)
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d total, %d succeeded, %d failed\n",
		len(results), successCount, failureCount)

	if failureCount > 0 {
		return fmt.Errorf("%d of %d articles failed", failureCount, len(results))
	}
	return nil
}

// sanitizeFilename turns an article title into a safe file name
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
