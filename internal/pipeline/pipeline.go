// Package pipeline wires the article fetcher, paragraph orchestrator, and
// report rendering into the end-to-end analysis of one Wikipedia article.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wikibias/wikibias/internal/analyze"
	"github.com/wikibias/wikibias/internal/llm"
	"github.com/wikibias/wikibias/internal/model"
	"github.com/wikibias/wikibias/internal/scrape"
	"github.com/wikibias/wikibias/internal/source"
	"github.com/wikibias/wikibias/internal/wiki"
)

// ArticleFetcher retrieves an article's paragraphs and references.
// Satisfied by *wiki.Client.
type ArticleFetcher interface {
	GetTextAndRefs(ctx context.Context, title string) ([]string, []model.Reference, error)
}

// ParagraphAnalyzer runs the per-paragraph analysis and summaries.
// Satisfied by *analyze.Orchestrator.
type ParagraphAnalyzer interface {
	AnalyzeParagraph(ctx context.Context, paragraph string, refs []model.Reference, articleTopic string) model.ReportCard
	ParagraphSummary(ctx context.Context, card model.ReportCard) model.Summary
	PageSummary(ctx context.Context, summaries []model.Summary) model.Summary
}

// Pipeline orchestrates the complete analysis of one article
type Pipeline struct {
	fetcher  ArticleFetcher
	analyzer ParagraphAnalyzer
	log      *zap.Logger
	verbose  bool
}

// NewPipeline builds the full pipeline from configuration: model
// provider, citation scraper, source analyzers, orchestrator, and
// article fetcher
func NewPipeline(cfg *model.Config, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}

	scraper := scrape.NewScraper(scrape.Config{
		Timeout:           cfg.Scrape.Timeout,
		UserAgent:         cfg.HTTP.UserAgent,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		RequestsPerSecond: cfg.Scrape.RequestsPerSecond,
		RespectRobots:     cfg.Scrape.RespectRobots,
		CacheTTL:          cfg.Scrape.CacheTTL,
		HTTPProxy:         cfg.HTTP.HTTPProxy,
		HTTPSProxy:        cfg.HTTP.HTTPSProxy,
	}, log)

	sources := source.NewAnalyzer(provider, scraper, cfg.Scrape.MaxChunkChars, log)
	orchestrator := analyze.NewOrchestrator(provider, sources, log)

	fetcher := wiki.NewClient(wiki.Config{
		BaseURL:   cfg.Wiki.BaseURL,
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.HTTP.Timeout,
	}, log)

	return &Pipeline{
		fetcher:  fetcher,
		analyzer: orchestrator,
		log:      log,
		verbose:  cfg.Output.Verbose,
	}, nil
}

// NewPipelineWithDeps builds a pipeline from preconstructed collaborators
func NewPipelineWithDeps(fetcher ArticleFetcher, analyzer ParagraphAnalyzer, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{fetcher: fetcher, analyzer: analyzer, log: log}
}

// AnalyzeArticle runs the complete analysis of one article. A failed
// article fetch is fatal: with no paragraphs there is nothing to
// analyze. Everything downstream degrades per paragraph instead.
func (p *Pipeline) AnalyzeArticle(ctx context.Context, title string, maxParagraphs int) (*model.Report, error) {
	p.log.Info("analyzing article", zap.String("title", title))

	paragraphs, refs, err := p.fetcher.GetTextAndRefs(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}
	p.log.Info("article fetched",
		zap.Int("paragraphs", len(paragraphs)),
		zap.Int("references", len(refs)))

	if maxParagraphs > 0 && len(paragraphs) > maxParagraphs {
		paragraphs = paragraphs[:maxParagraphs]
		p.log.Info("limiting analysis", zap.Int("paragraphs", len(paragraphs)))
	}

	// The underscored page title doubles as the topic fed to scanners
	articleTopic := strings.ReplaceAll(title, "_", " ")

	reports := make([]model.ReportCard, 0, len(paragraphs))
	summaries := make([]model.Summary, 0, len(paragraphs))

	for i, paragraph := range paragraphs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p.log.Info("processing paragraph",
			zap.Int("paragraph", i+1),
			zap.Int("total", len(paragraphs)))

		card := p.analyzer.AnalyzeParagraph(ctx, paragraph, refs, articleTopic)
		summary := p.analyzer.ParagraphSummary(ctx, card)

		reports = append(reports, card)
		summaries = append(summaries, summary)

		p.log.Info("paragraph summarized",
			zap.Int("paragraph", i+1),
			zap.Any("bias_score", summary["overall_bias_score"]),
			zap.Any("factuality_score", summary["overall_factuality_score"]))
	}

	p.log.Info("generating page-level summary")
	pageSummary := p.analyzer.PageSummary(ctx, summaries)

	return &model.Report{
		RunID:                   uuid.NewString(),
		AnalyzedAt:              time.Now().UTC(),
		ArticleTitle:            title,
		ArticleTopic:            articleTopic,
		TotalParagraphsAnalyzed: len(paragraphs),
		ParagraphReports:        reports,
		ParagraphSummaries:      summaries,
		PageSummary:             pageSummary,
	}, nil
}
