package model

import "time"

// ReportCard aggregates the complete analysis of one paragraph
type ReportCard struct {
	Paragraph    string        `json:"paragraph"`
	ArticleTopic string        `json:"article_topic"`
	TextFindings []BiasFinding `json:"text_findings"`
	ClaimReports []ClaimReport `json:"claim_reports"`
	Summary      CardSummary   `json:"summary"`
}

// ClaimReport holds the source analyses for one decomposed claim
type ClaimReport struct {
	Claim          string           `json:"claim"`
	CitationKeys   []string         `json:"citation_indices"` // Marker keys in order of appearance, duplicates preserved
	SourceAnalyses []SourceAnalysis `json:"source_analyses"`
}

// CardSummary carries the count block of a report card.
// TotalSourceAnalyses always equals the sum of source-analysis list
// lengths across all claim reports.
type CardSummary struct {
	TotalClaims         int `json:"total_claims"`
	TotalTextFindings   int `json:"total_text_findings"`
	TotalSourceAnalyses int `json:"total_source_analyses"`
}

// Summary is a model-generated score block (paragraph- or page-level).
// Kept as an open mapping because the model defines its own fields
// (overall_bias_score, political_leaning, representative examples, ...).
type Summary map[string]any

// DefaultParagraphSummary returns the fixed neutral summary used when
// summarization fails past all retries
func DefaultParagraphSummary(message string) Summary {
	return Summary{
		"overall_bias_score":       5,
		"overall_factuality_score": 5,
		"key_issues":               []string{},
		"summary":                  message,
	}
}

// DefaultPageSummary returns the fixed neutral page-level summary
func DefaultPageSummary(message string) Summary {
	return Summary{
		"overall_bias_score":       5,
		"overall_factuality_score": 5,
		"summary":                  message,
	}
}

// Report is the top-level artifact for one analyzed article
type Report struct {
	RunID                   string       `json:"run_id"`
	AnalyzedAt              time.Time    `json:"analyzed_at"`
	ArticleTitle            string       `json:"article_title"`
	ArticleTopic            string       `json:"article_topic"`
	TotalParagraphsAnalyzed int          `json:"total_paragraphs_analyzed"`
	ParagraphReports        []ReportCard `json:"paragraph_reports"`
	ParagraphSummaries      []Summary    `json:"paragraph_summaries"`
	PageSummary             Summary      `json:"page_summary"`
}
