package analyze

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wikibias/wikibias/internal/llm"
	"github.com/wikibias/wikibias/internal/model"
)

// fnProvider implements llm.Provider with a scripted function
type fnProvider struct {
	fn func(call int, prompt string) (string, error)

	calls   int
	prompts []string
}

func (p *fnProvider) Name() string { return "fn" }

func (p *fnProvider) Invoke(ctx context.Context, instructions, prompt string) (string, error) {
	p.calls++
	p.prompts = append(p.prompts, prompt)
	return p.fn(p.calls, prompt)
}

func (p *fnProvider) IsAvailable(ctx context.Context) bool { return true }

func intPtr(v int) *int { return &v }

func testCard() model.ReportCard {
	return model.ReportCard{
		Paragraph:    "A paragraph.",
		ArticleTopic: "Topic",
		TextFindings: []model.BiasFinding{
			{
				Kind:        model.KindLoadedLanguage,
				Strength:    0.7,
				Text:        "VERBATIM_SPAN",
				Offset:      model.Span{Start: intPtr(2), End: intPtr(15)},
				Explanation: "charged wording",
			},
		},
		ClaimReports: []model.ClaimReport{
			{
				Claim:        "A claim. [1]",
				CitationKeys: []string{"1"},
				SourceAnalyses: []model.SourceAnalysis{
					{
						SourceID:     "citation [1]: https://a.com",
						AnalysisType: model.AnalysisTypeVerification,
						Report: map[string]any{
							"verification_score": 0.9,
							"explanation":        "confirms",
							"source_text":        "SCRAPED_BODY",
						},
					},
				},
			},
		},
		Summary: model.CardSummary{TotalClaims: 1, TotalTextFindings: 1, TotalSourceAnalyses: 1},
	}
}

func TestParagraphSummary_Success(t *testing.T) {
	p := &fnProvider{fn: func(call int, prompt string) (string, error) {
		return `{"overall_bias_score": 7, "overall_factuality_score": 4, "summary": "slanted"}`, nil
	}}
	o := NewOrchestrator(p, nil, nil)

	summary := o.ParagraphSummary(context.Background(), testCard())

	if summary["summary"] != "slanted" {
		t.Errorf("unexpected summary %v", summary)
	}
	if p.calls != 1 {
		t.Errorf("expected 1 call, got %d", p.calls)
	}
	if !strings.Contains(p.prompts[0], "VERBATIM_SPAN") {
		t.Error("expected full report card in first attempt")
	}
}

func TestParagraphSummary_LeanRetryOnOverflow(t *testing.T) {
	p := &fnProvider{fn: func(call int, prompt string) (string, error) {
		if call == 1 {
			return "", &llm.InvokeError{Kind: llm.KindContextOverflow, Provider: "fn", Err: errors.New("context length")}
		}
		return `{"overall_bias_score": 6, "summary": "from lean"}`, nil
	}}
	o := NewOrchestrator(p, nil, nil)

	summary := o.ParagraphSummary(context.Background(), testCard())

	if summary["summary"] != "from lean" {
		t.Errorf("expected lean retry result, got %v", summary)
	}
	if p.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", p.calls)
	}

	// The retry prompt carries the lean projection: no finding spans, no
	// scraped source text, but scores and explanations intact
	lean := p.prompts[1]
	if strings.Contains(lean, "VERBATIM_SPAN") {
		t.Error("lean prompt still contains finding text")
	}
	if strings.Contains(lean, "SCRAPED_BODY") {
		t.Error("lean prompt still contains scraped source text")
	}
	if !strings.Contains(lean, "charged wording") {
		t.Error("lean prompt lost finding explanation")
	}
	if !strings.Contains(lean, "verification_score") {
		t.Error("lean prompt lost verification score")
	}
}

func TestParagraphSummary_LeanRetryFails(t *testing.T) {
	p := &fnProvider{fn: func(call int, prompt string) (string, error) {
		return "", &llm.InvokeError{Kind: llm.KindContextOverflow, Provider: "fn", Err: errors.New("context length")}
	}}
	o := NewOrchestrator(p, nil, nil)

	summary := o.ParagraphSummary(context.Background(), testCard())

	if summary["summary"] != "Error generating summary - report too large" {
		t.Errorf("expected too-large default, got %v", summary)
	}
	if summary["overall_bias_score"] != 5 {
		t.Errorf("expected neutral bias score, got %v", summary["overall_bias_score"])
	}
	if p.calls != 2 {
		t.Errorf("expected 2 calls, got %d", p.calls)
	}
}

func TestParagraphSummary_TransportErrorNoRetry(t *testing.T) {
	p := &fnProvider{fn: func(call int, prompt string) (string, error) {
		return "", &llm.InvokeError{Kind: llm.KindTransport, Provider: "fn", Err: errors.New("connection refused")}
	}}
	o := NewOrchestrator(p, nil, nil)

	summary := o.ParagraphSummary(context.Background(), testCard())

	if summary["summary"] != "Error generating summary" {
		t.Errorf("expected plain default, got %v", summary)
	}
	if p.calls != 1 {
		t.Errorf("expected no retry on transport error, got %d calls", p.calls)
	}
}

func TestPageSummary_Success(t *testing.T) {
	p := &fnProvider{fn: func(call int, prompt string) (string, error) {
		return `{"overall_bias_score": 8, "overall_political_leaning": "Left[-0.4]", "summary": "page-level"}`, nil
	}}
	o := NewOrchestrator(p, nil, nil)

	summary := o.PageSummary(context.Background(), []model.Summary{
		{"overall_bias_score": 7},
		{"overall_bias_score": 9},
	})

	if summary["summary"] != "page-level" {
		t.Errorf("unexpected summary %v", summary)
	}
	if !strings.Contains(p.prompts[0], "Summarize these paragraph analyses") {
		t.Errorf("unexpected prompt %q", p.prompts[0])
	}
}

func TestPageSummary_FailureDefault(t *testing.T) {
	p := &fnProvider{fn: func(call int, prompt string) (string, error) {
		return "", errors.New("boom")
	}}
	o := NewOrchestrator(p, nil, nil)

	summary := o.PageSummary(context.Background(), nil)

	if summary["summary"] != "Error generating page summary" {
		t.Errorf("expected page default, got %v", summary)
	}
	if p.calls != 1 {
		t.Errorf("expected single attempt, got %d", p.calls)
	}
}

func TestLeanCard_FieldAbsence(t *testing.T) {
	lean := leanCard(testCard())

	findings, ok := lean["text_findings"].([]map[string]any)
	if !ok || len(findings) != 1 {
		t.Fatalf("unexpected lean findings %v", lean["text_findings"])
	}

	// Dropped keys must be absent, not empty
	for _, key := range []string{"text", "offset"} {
		if _, present := findings[0][key]; present {
			t.Errorf("lean finding still has %q", key)
		}
	}
	if findings[0]["kind"] != model.KindLoadedLanguage {
		t.Errorf("lean finding lost kind: %v", findings[0])
	}

	claims, ok := lean["claim_reports"].([]map[string]any)
	if !ok || len(claims) != 1 {
		t.Fatalf("unexpected lean claims %v", lean["claim_reports"])
	}

	analyses := claims[0]["source_analyses"].([]map[string]any)
	report := analyses[0]["report"].(map[string]any)
	if _, present := report["source_text"]; present {
		t.Error("lean report still has source_text")
	}
	if report["verification_score"] != 0.9 {
		t.Errorf("lean report lost verification_score: %v", report)
	}
}
