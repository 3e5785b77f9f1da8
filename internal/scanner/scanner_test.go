package scanner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wikibias/wikibias/internal/model"
)

// mockProvider implements llm.Provider
type mockProvider struct {
	response   string
	err        error
	lastPrompt string
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Invoke(ctx context.Context, instructions, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockProvider) IsAvailable(ctx context.Context) bool { return true }

func TestRegistry(t *testing.T) {
	if len(Tools) != 15 {
		t.Fatalf("expected 15 scanners, got %d", len(Tools))
	}

	seen := make(map[string]bool)
	for _, entry := range Tools {
		if entry.Name == "" {
			t.Error("scanner with empty name")
		}
		if seen[entry.Name] {
			t.Errorf("duplicate scanner name %s", entry.Name)
		}
		seen[entry.Name] = true

		hasFn := entry.Fn != nil
		hasTopicFn := entry.TopicFn != nil
		if hasFn == hasTopicFn {
			t.Errorf("scanner %s must set exactly one of Fn and TopicFn", entry.Name)
		}
	}

	if Tools[0].Name != "analyze_loaded_language" {
		t.Errorf("expected loaded_language first, got %s", Tools[0].Name)
	}
	if Tools[9].Name != "analyze_narrative_framing" || Tools[9].TopicFn == nil {
		t.Errorf("expected narrative_framing at index 9 with TopicFn")
	}
}

func TestLoadedLanguage(t *testing.T) {
	p := &mockProvider{response: `{
		"findings": [
			{
				"kind": "loaded_language",
				"strength": 0.8,
				"text": "brutal crackdown",
				"offset": [10, 27],
				"explanation": "Emotionally charged phrasing"
			}
		]
	}`}

	findings, err := LoadedLanguage(context.Background(), p, "After the brutal crackdown, protests continued.")
	if err != nil {
		t.Fatalf("LoadedLanguage failed: %v", err)
	}

	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}

	f := findings[0]
	if f.Kind != model.KindLoadedLanguage {
		t.Errorf("expected kind loaded_language, got %s", f.Kind)
	}
	if f.Strength != 0.8 {
		t.Errorf("expected strength 0.8, got %v", f.Strength)
	}
	if f.Offset.Start == nil || *f.Offset.Start != 10 {
		t.Errorf("expected offset start 10, got %v", f.Offset.Start)
	}
	if f.Offset.End == nil || *f.Offset.End != 27 {
		t.Errorf("expected offset end 27, got %v", f.Offset.End)
	}
}

func TestScan_NoFindings(t *testing.T) {
	// Prose response decodes to zero findings, not an error
	p := &mockProvider{response: "The text appears neutral."}

	findings, err := FramingVoice(context.Background(), p, "Some neutral text.")
	if err != nil {
		t.Fatalf("FramingVoice failed: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected 0 findings, got %d", len(findings))
	}
}

func TestScan_ProviderError(t *testing.T) {
	p := &mockProvider{err: errors.New("connection refused")}

	_, err := OmittedContext(context.Background(), p, "text")
	if err == nil {
		t.Fatal("expected error from failing provider")
	}
}

func TestPoliticalAlignment_SignedStrength(t *testing.T) {
	// political_alignment strength is signed; decode must not clamp
	p := &mockProvider{response: `{
		"findings": [
			{"kind": "political_alignment", "strength": -0.7, "text": "x", "offset": [0, 1], "explanation": "left-leaning framing"}
		]
	}`}

	findings, err := PoliticalAlignment(context.Background(), p, "text")
	if err != nil {
		t.Fatalf("PoliticalAlignment failed: %v", err)
	}
	if len(findings) != 1 || findings[0].Strength != -0.7 {
		t.Fatalf("expected strength -0.7 preserved, got %+v", findings)
	}
}

func TestNarrativeFraming_TopicInPrompt(t *testing.T) {
	p := &mockProvider{response: `{"findings": []}`}

	_, err := NarrativeFraming(context.Background(), p, "Fighting continued.", "Gaza war")
	if err != nil {
		t.Fatalf("NarrativeFraming failed: %v", err)
	}

	if !strings.Contains(p.lastPrompt, "Topic: Gaza war") {
		t.Errorf("expected topic in prompt, got %q", p.lastPrompt)
	}
	if !strings.Contains(p.lastPrompt, "Fighting continued.") {
		t.Errorf("expected text in prompt, got %q", p.lastPrompt)
	}
}

func TestDecodeFindings_NullOffsets(t *testing.T) {
	data := map[string]any{
		"findings": []any{
			map[string]any{
				"kind":        "omitted_context",
				"strength":    0.4,
				"text":        "span",
				"offset":      []any{nil, nil},
				"explanation": "e",
			},
		},
	}

	findings := decodeFindings(data)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Offset.Start != nil || findings[0].Offset.End != nil {
		t.Error("expected nil offsets for null indices")
	}
}

func TestDecodeFindings_MalformedItems(t *testing.T) {
	data := map[string]any{
		"findings": []any{
			"not an object",
			map[string]any{"kind": "framing_bias"},
		},
	}

	findings := decodeFindings(data)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding after skipping junk, got %d", len(findings))
	}
	if findings[0].Kind != "framing_bias" {
		t.Errorf("expected framing_bias, got %s", findings[0].Kind)
	}
}
