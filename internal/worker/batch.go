package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/wikibias/wikibias/internal/model"
)

// ArticleRunner runs the full analysis of one article title.
// Satisfied by *pipeline.Pipeline.
type ArticleRunner interface {
	AnalyzeArticle(ctx context.Context, title string, maxParagraphs int) (*model.Report, error)
}

// AnalyzeJob analyzes one article title
type AnalyzeJob struct {
	Title         string
	MaxParagraphs int
	Runner        ArticleRunner
}

// Execute runs the analysis
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	report, err := j.Runner.AnalyzeArticle(ctx, j.Title, j.MaxParagraphs)
	return &AnalyzeResult{
		Title:  j.Title,
		Report: report,
		Error:  err,
	}
}

// AnalyzeResult is the outcome of one article analysis
type AnalyzeResult struct {
	Title  string
	Report *model.Report
	Error  error
}

// GetError returns the analysis error, if any
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple article titles concurrently. Each
// title is one job; paragraphs within an article stay sequential.
type BatchProcessor struct {
	runner        ArticleRunner
	concurrency   int
	maxParagraphs int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(runner ArticleRunner, concurrency, maxParagraphs int) *BatchProcessor {
	return &BatchProcessor{
		runner:        runner,
		concurrency:   concurrency,
		maxParagraphs: maxParagraphs,
	}
}

// ProcessTitles analyzes the given titles concurrently
func (b *BatchProcessor) ProcessTitles(ctx context.Context, titles []string) []*AnalyzeResult {
	if len(titles) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, title := range titles {
		pool.Submit(&AnalyzeJob{
			Title:         title,
			MaxParagraphs: b.maxParagraphs,
			Runner:        b.runner,
		})
	}

	results := pool.Wait()

	analyzeResults := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		analyzeResults[i] = result.(*AnalyzeResult)
	}

	return analyzeResults
}

// ProcessFile reads article titles from a file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*AnalyzeResult, error) {
	titles, err := ReadTitlesFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read titles: %w", err)
	}

	return b.ProcessTitles(ctx, titles), nil
}

// ReadTitlesFromFile reads article titles from a file, one per line.
// Empty lines and # comments are skipped; duplicates are dropped.
func ReadTitlesFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var titles []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			titles = append(titles, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return titles, nil
}
