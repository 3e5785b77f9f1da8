package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wikibias/wikibias/internal/model"
)

// mockFetcher implements ArticleFetcher
type mockFetcher struct {
	paragraphs []string
	refs       []model.Reference
	err        error
}

func (m *mockFetcher) GetTextAndRefs(ctx context.Context, title string) ([]string, []model.Reference, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.paragraphs, m.refs, nil
}

// mockAnalyzer implements ParagraphAnalyzer
type mockAnalyzer struct {
	analyzed []string
	topics   []string
}

func (m *mockAnalyzer) AnalyzeParagraph(ctx context.Context, paragraph string, refs []model.Reference, topic string) model.ReportCard {
	m.analyzed = append(m.analyzed, paragraph)
	m.topics = append(m.topics, topic)
	return model.ReportCard{
		Paragraph:    paragraph,
		ArticleTopic: topic,
		Summary:      model.CardSummary{TotalClaims: 1},
	}
}

func (m *mockAnalyzer) ParagraphSummary(ctx context.Context, card model.ReportCard) model.Summary {
	return model.Summary{"overall_bias_score": 6}
}

func (m *mockAnalyzer) PageSummary(ctx context.Context, summaries []model.Summary) model.Summary {
	return model.Summary{"overall_bias_score": 7, "summary": "page"}
}

func TestAnalyzeArticle(t *testing.T) {
	fetcher := &mockFetcher{
		paragraphs: []string{"First paragraph.", "Second paragraph.", "Third paragraph."},
		refs:       []model.Reference{{Key: "1", Text: "ref"}},
	}
	analyzer := &mockAnalyzer{}
	p := NewPipelineWithDeps(fetcher, analyzer, nil)

	report, err := p.AnalyzeArticle(context.Background(), "Gaza_war", 0)
	if err != nil {
		t.Fatalf("AnalyzeArticle failed: %v", err)
	}

	if report.ArticleTitle != "Gaza_war" {
		t.Errorf("unexpected title %q", report.ArticleTitle)
	}
	if report.ArticleTopic != "Gaza war" {
		t.Errorf("expected underscores replaced in topic, got %q", report.ArticleTopic)
	}
	if report.TotalParagraphsAnalyzed != 3 {
		t.Errorf("expected 3 paragraphs analyzed, got %d", report.TotalParagraphsAnalyzed)
	}
	if len(report.ParagraphReports) != 3 || len(report.ParagraphSummaries) != 3 {
		t.Errorf("expected 3 reports and summaries, got %d/%d",
			len(report.ParagraphReports), len(report.ParagraphSummaries))
	}
	if report.PageSummary["summary"] != "page" {
		t.Errorf("unexpected page summary %v", report.PageSummary)
	}
	if report.RunID == "" {
		t.Error("expected non-empty run id")
	}
	if report.AnalyzedAt.IsZero() {
		t.Error("expected analyzed_at set")
	}

	for _, topic := range analyzer.topics {
		if topic != "Gaza war" {
			t.Errorf("analyzer received topic %q", topic)
		}
	}
}

func TestAnalyzeArticle_MaxParagraphs(t *testing.T) {
	fetcher := &mockFetcher{paragraphs: []string{"a", "b", "c", "d"}}
	analyzer := &mockAnalyzer{}
	p := NewPipelineWithDeps(fetcher, analyzer, nil)

	report, err := p.AnalyzeArticle(context.Background(), "T", 2)
	if err != nil {
		t.Fatalf("AnalyzeArticle failed: %v", err)
	}

	if report.TotalParagraphsAnalyzed != 2 {
		t.Errorf("expected 2 paragraphs, got %d", report.TotalParagraphsAnalyzed)
	}
	if len(analyzer.analyzed) != 2 {
		t.Errorf("expected 2 analyzer calls, got %d", len(analyzer.analyzed))
	}
}

func TestAnalyzeArticle_FetchFailureIsFatal(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("404")}
	p := NewPipelineWithDeps(fetcher, &mockAnalyzer{}, nil)

	_, err := p.AnalyzeArticle(context.Background(), "Missing", 0)
	if err == nil {
		t.Fatal("expected error when the article cannot be fetched")
	}
}

func TestAnalyzeArticle_CancelledContext(t *testing.T) {
	fetcher := &mockFetcher{paragraphs: []string{"a", "b"}}
	analyzer := &mockAnalyzer{}
	p := NewPipelineWithDeps(fetcher, analyzer, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.AnalyzeArticle(ctx, "T", 0)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestWriteJSON(t *testing.T) {
	report := &model.Report{
		RunID:        "test-run",
		ArticleTitle: "Gaza_war",
		PageSummary:  model.Summary{"overall_bias_score": 7},
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteJSON(report, path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var back model.Report
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if back.RunID != "test-run" || back.ArticleTitle != "Gaza_war" {
		t.Errorf("round trip mismatch: %+v", back)
	}
}
