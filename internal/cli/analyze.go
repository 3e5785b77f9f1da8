package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wikibias/wikibias/internal/pipeline"
)

var (
	maxParagraphs int
	outputPath    string
	analyzeTO     time.Duration
	llmProvider   string
	llmModel      string
	llmBaseURL    string
	userAgent     string
	httpProxy     string
	httpsProxy    string
	noRobots      bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <title>",
	Short: "Analyze a Wikipedia article for bias and factuality",
	Long: `Analyze fetches a Wikipedia article and runs the full analysis:
- Text scanners over every paragraph (loaded language, framing, omitted
  context, and a dozen more)
- Claim decomposition with citation markers preserved
- Source verification: each cited URL is scraped and checked against the
  claim it supports
- Source integrity, clustering, and diversity analysis
- Paragraph and page-level summaries

Example:
  wikibias analyze Gaza_war
  wikibias analyze Gaza_war --max-paragraphs 5 --output report.json
  wikibias analyze Climate_change --llm-provider ollama --llm-model llama3.1`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVar(&maxParagraphs, "max-paragraphs", 0, "maximum number of paragraphs to analyze (0 = all)")
	analyzeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output JSON path (default: stdout)")
	analyzeCmd.Flags().DurationVar(&analyzeTO, "timeout", 30*time.Minute, "overall analysis timeout")

	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	analyzeCmd.Flags().StringVar(&llmBaseURL, "llm-base-url", "", "LLM API base URL (for local or proxied endpoints)")

	analyzeCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent")
	analyzeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	analyzeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	analyzeCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks when scraping sources")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	title := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTO)
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
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if httpProxy != "" {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if noRobots {
		cfg.Scrape.RespectRobots = false
	}
	cfg.Output.Verbose = verbose

	if err := resolveAPIKey(cfg); err != nil {
		return err
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()

	p, err := pipeline.NewPipeline(cfg, log)
	if err != nil {
		return err
	}

	report, err := p.AnalyzeArticle(ctx, title, maxParagraphs)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", title, err)
	}

	if err := pipeline.WriteJSON(report, outputPath); err != nil {
		return err
	}
	if outputPath != "" {
		fmt.Fprintf(os.Stderr, "Results saved to: %s\n", outputPath)
	}

	return nil
}
