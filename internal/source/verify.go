package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wikibias/wikibias/internal/extract"
	"github.com/wikibias/wikibias/internal/model"
	"github.com/wikibias/wikibias/internal/scrape"
)

const verifyInstructions = persona + `Analyze whether the following source text verifies the given claim.

Return a verification score from 0.0 to 1.0 where:
- 1.0 = The source strongly verifies the claim with clear evidence
- 0.7-0.9 = The source supports the claim with good evidence
- 0.5-0.6 = The source partially supports the claim
- 0.3-0.4 = The source mentions the topic but doesn't clearly verify the claim
- 0.0-0.2 = The source contradicts the claim or doesn't mention it

Also provide:
- A brief summary of what the source actually says
- A detailed explanation of how well it verifies the claim

IMPORTANT: Escape all double quotes in string values as \"

Output ONLY valid JSON in this format:
{
  "verification_score": <0.0-1.0>,
  "content_summary": "brief summary of source content",
  "explanation": "detailed explanation of verification analysis"
}`

// chunkResult holds one chunk's parsed verification output
type chunkResult struct {
	chunk       int
	score       float64
	summary     string
	explanation string
}

// VerifyClaim verifies a claim by scraping the cited source and scoring
// its actual content chunk by chunk. The final score is the maximum over
// chunks: verification asks whether the source supports the claim
// anywhere, not on average. An inaccessible or empty source is a
// successful analysis with score 0.0, never an error.
func (a *Analyzer) VerifyClaim(ctx context.Context, claim, sourceURL, citationKey string) model.SourceAnalysis {
	sourceID := fmt.Sprintf("citation [%s]: %s", citationKey, sourceURL)

	paragraphs, err := a.retriever.Scrape(ctx, sourceURL)
	if err != nil {
		a.log.Debug("source scrape failed", zap.String("url", sourceURL), zap.Error(err))
		return model.SourceAnalysis{
			SourceID:     sourceID,
			AnalysisType: model.AnalysisTypeVerification,
			Report: model.VerificationReport{
				VerificationScore: 0.0,
				Explanation:       fmt.Sprintf("Failed to access or scrape source: %s", truncate(err.Error(), 200)),
				ContentSummary:    "Source inaccessible - treated as bad source",
			}.Map(),
		}
	}

	if len(paragraphs) == 0 {
		return model.SourceAnalysis{
			SourceID:     sourceID,
			AnalysisType: model.AnalysisTypeVerification,
			Report: model.VerificationReport{
				VerificationScore: 0.0,
				Explanation:       "Could not extract meaningful content from the source URL",
				ContentSummary:    "No content found - treated as bad source",
			}.Map(),
		}
	}

	chunks := scrape.Chunk(paragraphs, a.maxChunkChars)
	a.log.Debug("verifying claim against source",
		zap.String("url", sourceURL),
		zap.Int("paragraphs", len(paragraphs)),
		zap.Int("chunks", len(chunks)))

	// A chunk whose output cannot be parsed scores 0.0 and carries no
	// explanation; the best parsed chunk provides the narrative.
	var best *chunkResult

	for i, chunk := range chunks {
		prompt := fmt.Sprintf("Claim: %s\n\nSource text from citation [%s]: %s\n\n%s", claim, citationKey, sourceURL, chunk)

		data, err := a.invoke(ctx, verifyInstructions, prompt)
		if err != nil {
			a.log.Warn("chunk verification failed",
				zap.String("url", sourceURL),
				zap.Int("chunk", i+1),
				zap.Error(err))
			continue
		}

		result := chunkResult{
			chunk:       i + 1,
			score:       extract.NumOr(data, "verification_score", 0.0),
			summary:     extract.StrOr(data, "content_summary", ""),
			explanation: extract.StrOr(data, "explanation", ""),
		}
		if best == nil || result.score > best.score {
			best = &result
		}
	}

	contentSummary := "Analysis failed"
	explanation := "Could not analyze source content"
	finalScore := 0.0
	if best != nil {
		finalScore = best.score
		contentSummary = best.summary
		explanation = fmt.Sprintf("Analyzed %d content segment(s). Best match (chunk %d, score: %.2f): %s",
			len(chunks), best.chunk, best.score, best.explanation)
	}

	return model.SourceAnalysis{
		SourceID:     sourceID,
		AnalysisType: model.AnalysisTypeVerification,
		Report: model.VerificationReport{
			VerificationScore: finalScore,
			Explanation:       explanation,
			ContentSummary:    contentSummary,
		}.Map(),
	}
}
