package model

import "encoding/json"

// BiasFinding represents one detected instance of textual bias
type BiasFinding struct {
	Kind        string  `json:"kind"`        // Bias category tag (e.g., "loaded_language")
	Strength    float64 `json:"strength"`    // Signal strength; [0,1] for most kinds, [-1,1] for political_alignment
	Text        string  `json:"text"`        // Exact quoted span from the paragraph
	Offset      Span    `json:"offset"`      // Character range in the source paragraph
	Explanation string  `json:"explanation"` // Human-reviewable rationale
}

// Span is a [start, end] character range. Either endpoint may be absent when
// the model could not localize the finding.
type Span struct {
	Start *int
	End   *int
}

// MarshalJSON renders the span as a two-element array with nulls for
// absent endpoints, matching the wire shape analyzers are prompted for.
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]*int{s.Start, s.End})
}

// UnmarshalJSON accepts [start, end], partial arrays, or null.
func (s *Span) UnmarshalJSON(data []byte) error {
	var pair []*int
	if err := json.Unmarshal(data, &pair); err != nil {
		// Tolerate null or non-array offsets from the model
		*s = Span{}
		return nil
	}
	if len(pair) > 0 {
		s.Start = pair[0]
	}
	if len(pair) > 1 {
		s.End = pair[1]
	}
	return nil
}

// Known bias kinds. The set is open-ended: scanners may introduce new tags,
// and unknown kinds are logged but never rejected.
const (
	KindLoadedLanguage        = "loaded_language"
	KindAsymmetricLabeling    = "asymmetric_labeling"
	KindPassiveVoice          = "passive_voice_omitted_actor"
	KindStatAggregation       = "statistical_aggregation"
	KindStatMissingDenom      = "statistical_missing_denominator"
	KindOmittedContext        = "omitted_context"
	KindHedgingMisuse         = "hedging_misuse"
	KindTemporalAsymmetric    = "temporal_framing_asymmetric"
	KindTemporalSuperlative   = "temporal_framing_superlative"
	KindEmphasisMinimizer     = "emphasis_bias_minimizer"
	KindEmphasisMaximizer     = "emphasis_bias_maximizer"
	KindFalseBalance          = "false_balance"
	KindNarrativeFraming      = "narrative_framing"
	KindMissingAttribution    = "missing_attribution"
	KindPoliticalAlignment    = "political_alignment"
	KindMissingContext        = "missing_context"
	KindHistoricalRevisionism = "historical_revisionism"
	KindFramingBias           = "framing_bias"
)

var knownKinds = map[string]bool{
	KindLoadedLanguage:        true,
	KindAsymmetricLabeling:    true,
	KindPassiveVoice:          true,
	KindStatAggregation:       true,
	KindStatMissingDenom:      true,
	KindOmittedContext:        true,
	KindHedgingMisuse:         true,
	KindTemporalAsymmetric:    true,
	KindTemporalSuperlative:   true,
	KindEmphasisMinimizer:     true,
	KindEmphasisMaximizer:     true,
	KindFalseBalance:          true,
	KindNarrativeFraming:      true,
	KindMissingAttribution:    true,
	KindPoliticalAlignment:    true,
	KindMissingContext:        true,
	KindHistoricalRevisionism: true,
	KindFramingBias:           true,
}

// KnownKind reports whether the kind tag is one of the documented categories.
func KnownKind(kind string) bool {
	return knownKinds[kind]
}
