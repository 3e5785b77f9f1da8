package worker

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/wikibias/wikibias/internal/model"
)

// mockRunner implements ArticleRunner
type mockRunner struct {
	shouldError bool
}

func (m *mockRunner) AnalyzeArticle(ctx context.Context, title string, maxParagraphs int) (*model.Report, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.shouldError {
		return nil, errors.New("analysis error")
	}
	return &model.Report{
		ArticleTitle:            title,
		TotalParagraphsAnalyzed: maxParagraphs,
	}, nil
}

func TestBatchProcessor_ProcessTitles(t *testing.T) {
	runner := &mockRunner{}
	processor := NewBatchProcessor(runner, 2, 5)

	titles := []string{"Gaza_war", "Climate_change", "Artificial_intelligence"}
	ctx := context.Background()

	results := processor.ProcessTitles(ctx, titles)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	successCount := 0
	for _, res := range results {
		if res.Error == nil {
			successCount++
			if res.Report == nil {
				t.Error("expected report for successful analysis")
			}
		} else {
			t.Errorf("unexpected error for %s: %v", res.Title, res.Error)
		}
	}

	if successCount != 3 {
		t.Errorf("expected 3 successes, got %d", successCount)
	}
}

func TestBatchProcessor_ProcessTitles_Error(t *testing.T) {
	runner := &mockRunner{shouldError: true}
	processor := NewBatchProcessor(runner, 2, 0)

	results := processor.ProcessTitles(context.Background(), []string{"Gaza_war"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Report != nil {
		t.Error("expected nil report on error")
	}
}

func TestBatchProcessor_ProcessTitles_Empty(t *testing.T) {
	runner := &mockRunner{}
	processor := NewBatchProcessor(runner, 2, 0)

	results := processor.ProcessTitles(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

// slowRunner blocks until its context is cancelled
type slowRunner struct{}

func (s *slowRunner) AnalyzeArticle(ctx context.Context, title string, maxParagraphs int) (*model.Report, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(10 * time.Second):
		return &model.Report{ArticleTitle: title}, nil
	}
}

func TestBatchProcessor_ProcessTitles_ContextCancelled(t *testing.T) {
	processor := NewBatchProcessor(&slowRunner{}, 2, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan []*AnalyzeResult, 1)
	go func() {
		done <- processor.ProcessTitles(ctx, []string{"Gaza_war", "Climate_change"})
	}()

	// The deadline must cancel in-flight analyses and unblock the batch
	select {
	case results := <-done:
		for _, res := range results {
			if res.Error == nil {
				t.Errorf("expected context error for %s", res.Title)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("batch ignored context deadline")
	}
}

func TestReadTitlesFromFile(t *testing.T) {
	content := `Gaza_war
# comment
Climate_change

Artificial_intelligence   `

	tmpfile, err := os.CreateTemp("", "titles")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	titles, err := ReadTitlesFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadTitlesFromFile failed: %v", err)
	}

	expected := []string{"Gaza_war", "Climate_change", "Artificial_intelligence"}
	if len(titles) != len(expected) {
		t.Fatalf("expected %d titles, got %d", len(expected), len(titles))
	}

	for i, title := range titles {
		if title != expected[i] {
			t.Errorf("expected title %s at index %d, got %s", expected[i], i, title)
		}
	}
}

func TestReadTitlesFromFile_NonExistent(t *testing.T) {
	_, err := ReadTitlesFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadTitlesFromFile_Deduplication(t *testing.T) {
	content := `Gaza_war
Gaza_war`

	tmpfile, err := os.CreateTemp("", "titles_dedup")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	titles, err := ReadTitlesFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadTitlesFromFile failed: %v", err)
	}

	if len(titles) != 1 {
		t.Errorf("expected 1 title after deduplication, got %d", len(titles))
	}
}

func TestAnalyzeResult_GetError(t *testing.T) {
	r1 := &AnalyzeResult{Title: "Gaza_war", Error: nil}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("analysis failed")
	r2 := &AnalyzeResult{Title: "Gaza_war", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	content := "Gaza_war\nClimate_change\n# comment\n\nArtificial_intelligence\n"

	tmpfile, err := os.CreateTemp("", "batch_titles")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	runner := &mockRunner{}
	processor := NewBatchProcessor(runner, 2, 0)

	results, err := processor.ProcessFile(context.Background(), tmpfile.Name())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	runner := &mockRunner{}
	processor := NewBatchProcessor(runner, 2, 0)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "empty_titles")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	runner := &mockRunner{}
	processor := NewBatchProcessor(runner, 2, 0)

	results, err := processor.ProcessFile(context.Background(), tmpfile.Name())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}
