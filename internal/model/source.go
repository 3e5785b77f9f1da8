package model

// SourceAnalysis represents one assessment of a citation (or citation set)
// against a claim
type SourceAnalysis struct {
	SourceID     string         `json:"source_id"`     // What was analyzed: a citation, or a label like "clustering analysis"
	AnalysisType string         `json:"analysis_type"` // One of the AnalysisType* constants
	Report       map[string]any `json:"report"`        // Shape depends on AnalysisType; each analyzer defines its own fields
}

// Analysis types produced by the source analyzers
const (
	AnalysisTypeIntegrity    = "integrity"
	AnalysisTypeClustering   = "clustering"
	AnalysisTypeDiversity    = "diversity"
	AnalysisTypeVerification = "verification"
)

// Verification strength levels for integrity reports
const (
	VerificationFull    = "Full"
	VerificationPartial = "Partial"
	VerificationNone    = "None"
)

// Diversity levels for diversity reports
const (
	DiversityLow    = "Low"
	DiversityMedium = "Medium"
	DiversityHigh   = "High"
)

// IntegrityReport documents the report shape for analysis_type "integrity"
type IntegrityReport struct {
	SourceReliability    float64 `json:"source_reliability"`    // 0-1
	SourceBiasScore      float64 `json:"source_bias_score"`     // -1 (left) to 1 (right)
	VerificationStrength string  `json:"verification_strength"` // Full, Partial, None
	Explanation          string  `json:"explanation"`
}

// Map returns the report as the open mapping stored in SourceAnalysis
func (r IntegrityReport) Map() map[string]any {
	return map[string]any{
		"source_reliability":    r.SourceReliability,
		"source_bias_score":     r.SourceBiasScore,
		"verification_strength": r.VerificationStrength,
		"explanation":           r.Explanation,
	}
}

// ClusteringReport documents the report shape for analysis_type "clustering"
type ClusteringReport struct {
	IsClustered        bool   `json:"is_clustered"`
	IndependentSources int    `json:"independent_sources"`
	TotalCitations     int    `json:"total_citations"`
	OriginalSource     string `json:"original_source"`
	Explanation        string `json:"explanation"`
}

// Map returns the report as the open mapping stored in SourceAnalysis
func (r ClusteringReport) Map() map[string]any {
	return map[string]any{
		"is_clustered":        r.IsClustered,
		"independent_sources": r.IndependentSources,
		"total_citations":     r.TotalCitations,
		"original_source":     r.OriginalSource,
		"explanation":         r.Explanation,
	}
}

// DiversityReport documents the report shape for analysis_type "diversity"
type DiversityReport struct {
	GeographicDiversity  string `json:"geographic_diversity"`
	IdeologicalDiversity string `json:"ideological_diversity"`
	TypeDiversity        string `json:"type_diversity"`
	Explanation          string `json:"explanation"`
}

// Map returns the report as the open mapping stored in SourceAnalysis
func (r DiversityReport) Map() map[string]any {
	return map[string]any{
		"geographic_diversity":  r.GeographicDiversity,
		"ideological_diversity": r.IdeologicalDiversity,
		"type_diversity":        r.TypeDiversity,
		"explanation":           r.Explanation,
	}
}

// VerificationReport documents the report shape for analysis_type "verification"
type VerificationReport struct {
	VerificationScore float64 `json:"verification_score"` // 0-1, 1 = very strong verification
	Explanation       string  `json:"explanation"`
	ContentSummary    string  `json:"content_summary"` // What the source actually says
}

// Map returns the report as the open mapping stored in SourceAnalysis
func (r VerificationReport) Map() map[string]any {
	return map[string]any{
		"verification_score": r.VerificationScore,
		"explanation":        r.Explanation,
		"content_summary":    r.ContentSummary,
	}
}
