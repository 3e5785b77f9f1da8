// Package analyze orchestrates the per-paragraph analysis: text scanners
// over the whole paragraph, claim decomposition, and source analyses per
// claim, aggregated into a report card.
package analyze

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/wikibias/wikibias/internal/extract"
	"github.com/wikibias/wikibias/internal/llm"
	"github.com/wikibias/wikibias/internal/model"
	"github.com/wikibias/wikibias/internal/scanner"
	"github.com/wikibias/wikibias/internal/source"
)

// SourceAnalyzer is the source-analysis collaborator. Satisfied by
// *source.Analyzer; tests substitute their own.
type SourceAnalyzer interface {
	Integrity(ctx context.Context, claim, sourceURL, sourceDescription string) model.SourceAnalysis
	Clustering(ctx context.Context, claim string, sourceDescriptions []string) model.SourceAnalysis
	Diversity(ctx context.Context, sources []source.SourceRef) model.SourceAnalysis
	VerifyClaim(ctx context.Context, claim, sourceURL, citationKey string) model.SourceAnalysis
}

// Orchestrator runs the complete analysis of one paragraph
type Orchestrator struct {
	llm     llm.Provider
	sources SourceAnalyzer
	log     *zap.Logger
}

// NewOrchestrator creates a paragraph orchestrator
func NewOrchestrator(p llm.Provider, sources SourceAnalyzer, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{llm: p, sources: sources, log: log}
}

const persona = "You are a staff writer in a prestigious newspaper well regarded for its neutrality and fact checking. "

const claimParserInstructions = persona + `You are a paragraph parser. Given a paragraph, extract individual claims or sentences.
Each claim should be a standalone statement that can be analyzed independently.
INCLUDE citation markers (e.g., [1], [2]) as they appear in the text !!

CRITICAL: You MUST ALWAYS return ONLY a valid JSON object. Never return plain text, explanations, or any other format.
If you cannot parse the paragraph or have no results, return {"claims": []}.
Do not include any text before or after the JSON object.

IMPORTANT: Escape all double quotes in string values as \"

Output format:
{
  "claims": ["claim 1", "claim 2", "claim 3", ...]
}

Example:
Input: "The war began on October 7, 2023 [1]. Hamas launched a surprise attack [3][4][5]. Over 1,000 people were killed [2]."
Output: {
  "claims": [
    "The war began on October 7, 2023. [1]",
    "Hamas launched a surprise attack. [3][4][5]",
    "Over 1,000 people were killed. [2]"
  ]
}`

// ParseClaims decomposes a paragraph into standalone claims, preserving
// citation markers. When the model output cannot be recovered it falls
// back to a sentence split so analysis always proceeds.
func (o *Orchestrator) ParseClaims(ctx context.Context, paragraph string) []string {
	data, err := o.parse(ctx, paragraph)
	if err != nil {
		o.log.Warn("claim parsing failed, splitting by sentence", zap.Error(err))
		return SplitSentences(paragraph)
	}

	items := extract.List(data, "claims")
	claims := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			claims = append(claims, s)
		}
	}
	return claims
}

func (o *Orchestrator) parse(ctx context.Context, paragraph string) (map[string]any, error) {
	out, err := o.llm.Invoke(ctx, claimParserInstructions, "Parse this paragraph into claims:\n\n"+paragraph)
	if err != nil {
		return nil, err
	}
	return extract.Object(out)
}

var sentenceEnd = regexp.MustCompile(`([.!?]+)\s+`)

// SplitSentences is the claim-parse fallback: split after terminal
// punctuation, keeping the punctuation with its sentence
func SplitSentences(paragraph string) []string {
	split := sentenceEnd.ReplaceAllString(paragraph, "$1\x00")

	var sentences []string
	for _, s := range strings.Split(split, "\x00") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

var citationMarker = regexp.MustCompile(`\[([a-zA-Z0-9]+)\]`)

// ExtractCitationMarkers returns the citation keys in a claim, in order
// of appearance with duplicates preserved. Keys are opaque strings:
// footnote markers may be letters.
func ExtractCitationMarkers(claim string) []string {
	var keys []string
	for _, m := range citationMarker.FindAllStringSubmatch(claim, -1) {
		keys = append(keys, m[1])
	}
	return keys
}

// AnalyzeParagraph runs the full analysis of one paragraph: every text
// scanner over the whole escaped paragraph, claim decomposition, then the
// source analyzers per claim. A failing scanner loses only its own
// findings; the card always comes back.
func (o *Orchestrator) AnalyzeParagraph(ctx context.Context, paragraph string, refs []model.Reference, articleTopic string) model.ReportCard {
	// Unescaped quotes inside model output are the most common cause of
	// malformed JSON downstream
	paragraph = strings.ReplaceAll(paragraph, `"`, `\"`)

	textFindings := o.runScanners(ctx, paragraph, articleTopic)
	o.log.Info("text scan complete", zap.Int("findings", len(textFindings)))

	claims := o.ParseClaims(ctx, paragraph)
	o.log.Info("paragraph decomposed", zap.Int("claims", len(claims)))

	claimReports := make([]model.ClaimReport, 0, len(claims))
	totalAnalyses := 0

	for i, claim := range claims {
		keys := ExtractCitationMarkers(claim)

		var analyses []model.SourceAnalysis
		if len(keys) > 0 {
			analyses = o.runSourceAnalyzers(ctx, claim, keys, refs)
			o.log.Debug("claim analyzed",
				zap.Int("claim", i+1),
				zap.Int("citations", len(keys)),
				zap.Int("analyses", len(analyses)))
		}

		totalAnalyses += len(analyses)
		claimReports = append(claimReports, model.ClaimReport{
			Claim:          claim,
			CitationKeys:   keys,
			SourceAnalyses: analyses,
		})
	}

	return model.ReportCard{
		Paragraph:    paragraph,
		ArticleTopic: articleTopic,
		TextFindings: textFindings,
		ClaimReports: claimReports,
		Summary: model.CardSummary{
			TotalClaims:         len(claims),
			TotalTextFindings:   len(textFindings),
			TotalSourceAnalyses: totalAnalyses,
		},
	}
}

// runScanners runs every registered text scanner over the paragraph.
// Scanner failures are isolated: one scanner's error costs only its own
// findings. Kind tags are open-ended, so findings with an unrecognized
// kind are kept; each one is logged for review.
func (o *Orchestrator) runScanners(ctx context.Context, paragraph, articleTopic string) []model.BiasFinding {
	all := make([]model.BiasFinding, 0)

	for _, entry := range scanner.Tools {
		var findings []model.BiasFinding
		var err error

		if entry.TopicFn != nil {
			findings, err = entry.TopicFn(ctx, o.llm, paragraph, articleTopic)
		} else {
			findings, err = entry.Fn(ctx, o.llm, paragraph)
		}

		if err != nil {
			o.log.Warn("text scanner failed", zap.String("scanner", entry.Name), zap.Error(err))
			continue
		}

		for _, f := range findings {
			if !model.KnownKind(f.Kind) {
				o.log.Warn("unknown finding kind",
					zap.String("scanner", entry.Name),
					zap.String("kind", f.Kind))
			}
		}

		all = append(all, findings...)
	}

	return all
}

// runSourceAnalyzers resolves the claim's citation markers against the
// article's references and runs the source analyses in a fixed order:
// verification per URL citation, then integrity per URL citation, then
// clustering once when several citations resolved, then diversity once
// when any resolved citation has a URL. Markers that match no reference
// are dropped.
func (o *Orchestrator) runSourceAnalyzers(ctx context.Context, claim string, keys []string, refs []model.Reference) []model.SourceAnalysis {
	var citations []model.Reference
	dropped := 0
	for _, key := range keys {
		if ref, ok := model.FindRef(refs, key); ok {
			citations = append(citations, ref)
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		o.log.Debug("citation markers matched no reference", zap.Int("dropped", dropped))
	}

	if len(citations) == 0 {
		return nil
	}

	var analyses []model.SourceAnalysis

	for _, citation := range citations {
		// Notes do not necessarily carry URLs; they are skipped here.
		// TODO: feed note text into the text scanners as context instead.
		if citation.URL == "" {
			continue
		}

		verification := o.sources.VerifyClaim(ctx, claim, citation.URL, citation.Key)
		analyses = append(analyses, verification)

		if score := extract.NumOr(verification.Report, "verification_score", 0.0); score < 0.5 {
			o.log.Info("weak source detected",
				zap.String("citation", citation.Key),
				zap.Float64("score", score))
		}
	}

	for _, citation := range citations {
		if citation.URL == "" {
			continue
		}
		analyses = append(analyses, o.sources.Integrity(ctx, claim, citation.URL, citation.Text))
	}

	if len(citations) > 1 {
		descriptions := make([]string, len(citations))
		for i, c := range citations {
			descriptions[i] = c.Text
		}
		analyses = append(analyses, o.sources.Clustering(ctx, claim, descriptions))
	}

	var withURLs []source.SourceRef
	for _, c := range citations {
		if c.URL != "" {
			withURLs = append(withURLs, source.SourceRef{Description: c.Text, URL: c.URL})
		}
	}
	if len(withURLs) > 0 {
		analyses = append(analyses, o.sources.Diversity(ctx, withURLs))
	}

	return analyses
}
