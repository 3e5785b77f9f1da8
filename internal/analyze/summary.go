package analyze

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/wikibias/wikibias/internal/extract"
	"github.com/wikibias/wikibias/internal/llm"
	"github.com/wikibias/wikibias/internal/model"
)

const paragraphSummarizerInstructions = persona + `You are a bias analysis summarizer. Given a detailed bias report card,
provide a concise summary with overall scores.

CRITICAL: You MUST ALWAYS return ONLY a valid JSON object. Never return plain text, explanations, or any other format.
If you cannot analyze the report or have no results, return a JSON object with default values.
Do not include any text before or after the JSON object.

IMPORTANT: Escape all double quotes in string values as \"

Output format:
{
  "overall_bias_score": <0-10>,
  "overall_factuality_score": <0-10>,
  "political_leaning": "<Left([-1,0)|Right([0,1]|Center(≈0)>",
  "representative_example": "a direct quote from the text that best exemplifies the bias found",
  "key_issues": ["issue 1", "issue 2", ...],
  "summary": "brief summary of findings"
}

For political_leaning, negative scores indicate Left-leaning, positive scores indicate Right-leaning, and near-zero scores indicate Center.

For representative_example:
- Select a direct quote from the paragraph that best demonstrates the most significant bias
- This should be a concrete example that readers can immediately understand
- If no significant bias is found, you may use an empty string ""`

// ParagraphSummary generates the score block for one report card. The
// full card is tried first; when the provider reports a context overflow
// the card is projected to its lean form and retried once. Any other
// failure, and a failed retry, produce the fixed neutral summary -
// summarization never fails the run.
func (o *Orchestrator) ParagraphSummary(ctx context.Context, card model.ReportCard) model.Summary {
	encoded, err := json.MarshalIndent(card, "", "  ")
	if err != nil {
		o.log.Warn("report card encoding failed", zap.Error(err))
		return model.DefaultParagraphSummary("Error generating summary")
	}

	summary, err := o.summarize(ctx, paragraphSummarizerInstructions,
		"Analyze this bias report card and provide a summary:\n\n"+string(encoded))
	if err == nil {
		return summary
	}

	if !llm.IsContextOverflow(err) {
		o.log.Warn("paragraph summary failed", zap.Error(err))
		return model.DefaultParagraphSummary("Error generating summary")
	}

	o.log.Warn("report card too large for context window, retrying with lean version")

	lean, err := json.MarshalIndent(leanCard(card), "", "  ")
	if err != nil {
		return model.DefaultParagraphSummary("Error generating summary - report too large")
	}

	summary, err = o.summarize(ctx, paragraphSummarizerInstructions,
		"Analyze this bias report card and provide a summary:\n\n"+string(lean))
	if err != nil {
		o.log.Warn("paragraph summary failed on lean report", zap.Error(err))
		return model.DefaultParagraphSummary("Error generating summary - report too large")
	}

	return summary
}

const pageSummarizerInstructions = persona + `You are a page-level bias summarizer. Given summaries of multiple paragraphs,
provide a concise overall assessment of the page's bias and factuality.

CRITICAL: You MUST ALWAYS return ONLY a valid JSON object. Never return plain text, explanations, or any other format.
If you cannot analyze the summaries or have no results, return a JSON object with default values.
Do not include any text before or after the JSON object.

IMPORTANT: Escape all double quotes in string values as \"

Output format:
{
  "overall_bias_score": <0-10>,
  "overall_factuality_score": <0-10>,
  "overall_political_leaning": "<Left[-1,0]|Right[0,1]|Center(≈0)>",
  "representative_examples": ["example 1", "example 2", "example 3"],
  "summary": "comprehensive summary of page bias and factuality - make this intriguing and click-baity while remaining factual"
}

For overall_political_leaning:
- Synthesize the political_leaning from all paragraph summaries
- Use "Left", "Right", "Center". Indicated strength with brackets: Left[-1,0], Right[0,1], Center(≈0)

For representative_examples:
- Select the 3-5 most compelling examples from all paragraph summaries
- These should be the most striking instances of bias found
- Include direct quotes that demonstrate the bias clearly

For summary:
- Write an engaging, intriguing summary that captures attention
- Be factual but make it compelling - think NY Times headline style
- Highlight the most surprising or significant findings
- Keep it concise but impactful
- Use formal or journalistic tone, don't sound like clickbait`

// PageSummary synthesizes the paragraph summaries into one page-level
// assessment. Single attempt; failure produces the fixed neutral summary.
func (o *Orchestrator) PageSummary(ctx context.Context, paragraphSummaries []model.Summary) model.Summary {
	encoded, err := json.MarshalIndent(paragraphSummaries, "", "  ")
	if err != nil {
		o.log.Warn("paragraph summaries encoding failed", zap.Error(err))
		return model.DefaultPageSummary("Error generating page summary")
	}

	summary, err := o.summarize(ctx, pageSummarizerInstructions,
		"Summarize these paragraph analyses:\n\n"+string(encoded))
	if err != nil {
		o.log.Warn("page summary failed", zap.Error(err))
		return model.DefaultPageSummary("Error generating page summary")
	}

	return summary
}

// summarize runs one summarizer invocation and recovers its object
func (o *Orchestrator) summarize(ctx context.Context, instructions, prompt string) (model.Summary, error) {
	out, err := o.llm.Invoke(ctx, instructions, prompt)
	if err != nil {
		return nil, err
	}

	data, err := extract.Object(out)
	if err != nil {
		return nil, err
	}
	return model.Summary(data), nil
}

// Report fields that may carry whole scraped documents; dropped from the
// lean projection
var verboseReportFields = map[string]bool{
	"source_text": true,
	"full_text":   true,
	"content":     true,
	"raw_content": true,
}

// leanCard projects a report card down to what the summarizer actually
// needs: finding positions and source text bodies are dropped, scores and
// explanations are kept. Built as an open mapping so dropped fields are
// genuinely absent from the serialized form, not zero-valued.
func leanCard(card model.ReportCard) map[string]any {
	findings := make([]map[string]any, 0, len(card.TextFindings))
	for _, f := range card.TextFindings {
		findings = append(findings, map[string]any{
			"kind":        f.Kind,
			"strength":    f.Strength,
			"explanation": f.Explanation,
		})
	}

	claimReports := make([]map[string]any, 0, len(card.ClaimReports))
	for _, cr := range card.ClaimReports {
		analyses := make([]map[string]any, 0, len(cr.SourceAnalyses))
		for _, sa := range cr.SourceAnalyses {
			report := make(map[string]any, len(sa.Report))
			for key, value := range sa.Report {
				if !verboseReportFields[key] {
					report[key] = value
				}
			}
			analyses = append(analyses, map[string]any{
				"source_id":     sa.SourceID,
				"analysis_type": sa.AnalysisType,
				"report":        report,
			})
		}
		claimReports = append(claimReports, map[string]any{
			"claim":            cr.Claim,
			"citation_indices": cr.CitationKeys,
			"source_analyses":  analyses,
		})
	}

	return map[string]any{
		"paragraph":     card.Paragraph,
		"article_topic": card.ArticleTopic,
		"text_findings": findings,
		"claim_reports": claimReports,
		"summary": map[string]any{
			"total_claims":          card.Summary.TotalClaims,
			"total_text_findings":   card.Summary.TotalTextFindings,
			"total_source_analyses": card.Summary.TotalSourceAnalyses,
		},
	}
}
