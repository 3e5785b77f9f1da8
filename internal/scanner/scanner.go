// Package scanner holds the text-scanning tools that detect categories of
// textual bias in a paragraph. Each scanner is one model invocation with a
// scanner-specific instruction set; all scanners share the output schema
// decoded here.
package scanner

import (
	"context"
	"fmt"

	"github.com/wikibias/wikibias/internal/extract"
	"github.com/wikibias/wikibias/internal/llm"
	"github.com/wikibias/wikibias/internal/model"
)

// Func is the uniform signature for a text scanner
type Func func(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error)

// TopicFunc is the signature for the one scanner that also needs the
// article topic as context
type TopicFunc func(ctx context.Context, p llm.Provider, text, topic string) ([]model.BiasFinding, error)

// Entry registers one scanner. Exactly one of Fn and TopicFn is set; the
// orchestrator dispatches on which, not on the name.
type Entry struct {
	Name    string
	Fn      Func
	TopicFn TopicFunc
}

// Tools is the scanner registry. A slice rather than a map: iteration
// order is part of the report contract.
var Tools = []Entry{
	{Name: "analyze_loaded_language", Fn: LoadedLanguage},
	{Name: "analyze_asymmetric_labeling", Fn: AsymmetricLabeling},
	{Name: "analyze_framing_voice", Fn: FramingVoice},
	{Name: "analyze_statistical_aggregation", Fn: StatisticalAggregation},
	{Name: "analyze_omitted_context", Fn: OmittedContext},
	{Name: "analyze_certainty_and_hedging", Fn: CertaintyAndHedging},
	{Name: "analyze_temporal_framing", Fn: TemporalFraming},
	{Name: "analyze_emphasis_bias", Fn: EmphasisBias},
	{Name: "analyze_false_balance", Fn: FalseBalance},
	{Name: "analyze_narrative_framing", TopicFn: NarrativeFraming},
	{Name: "analyze_missing_attribution", Fn: MissingAttribution},
	{Name: "analyze_political_alignment", Fn: PoliticalAlignment},
	{Name: "analyze_missing_context", Fn: MissingContext},
	{Name: "analyze_historical_revisionism", Fn: HistoricalRevisionism},
	{Name: "analyze_framing_bias", Fn: FramingBias},
}

// persona opens every instruction set; the shared voice keeps scanner
// judgments calibrated against the same editorial standard
const persona = "You are a staff writer in a prestigious newspaper well regarded for its neutrality and fact checking. "

// outputFormat renders the shared findings schema block. kindSpec is the
// literal to print for the kind field; strengthSpec the strength range.
func outputFormat(kindSpec, strengthSpec string) string {
	return fmt.Sprintf(`

Output ONLY valid JSON in this format:
{
  "findings": [
    {
      "kind": %s,
      "strength": %s,
      "text": "exact text span",
      "offset": [start_index, end_index],
      "explanation": "explanation"
    }
  ]
}

If for some reason you cannot compute a value for a field, use null.`, kindSpec, strengthSpec)
}

// scan runs one scanner invocation end to end: invoke, recover the JSON
// object, decode findings. Any failure surfaces as an error; the caller
// treats it as zero findings from this scanner only.
func scan(ctx context.Context, p llm.Provider, instructions, prompt string) ([]model.BiasFinding, error) {
	out, err := p.Invoke(ctx, instructions, prompt)
	if err != nil {
		return nil, err
	}

	data, err := extract.Object(out)
	if err != nil {
		return nil, err
	}

	return decodeFindings(data), nil
}

// decodeFindings converts the extracted object into findings, tolerating
// missing or mistyped fields. Strength is never clamped: most kinds use
// [0,1] but political_alignment is signed, and the per-kind range is part
// of each scanner's contract.
func decodeFindings(data map[string]any) []model.BiasFinding {
	items := extract.List(data, "findings")
	findings := make([]model.BiasFinding, 0, len(items))

	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}

		findings = append(findings, model.BiasFinding{
			Kind:        extract.Str(raw, "kind"),
			Strength:    extract.NumOr(raw, "strength", 0),
			Text:        extract.Str(raw, "text"),
			Offset:      decodeSpan(raw["offset"]),
			Explanation: extract.Str(raw, "explanation"),
		})
	}

	return findings
}

// decodeSpan reads an [start, end] array where either index may be null
func decodeSpan(v any) model.Span {
	pair, ok := v.([]any)
	if !ok {
		return model.Span{}
	}

	var span model.Span
	if len(pair) > 0 {
		span.Start = toIndex(pair[0])
	}
	if len(pair) > 1 {
		span.End = toIndex(pair[1])
	}
	return span
}

func toIndex(v any) *int {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	i := int(f)
	return &i
}
