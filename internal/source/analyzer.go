// Package source holds the analyzers that assess cited sources against a
// claim: integrity, clustering, diversity, and scrape-backed verification.
// Every analyzer returns exactly one SourceAnalysis and never fails the
// caller; degraded results carry the error in their explanation instead.
package source

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/wikibias/wikibias/internal/extract"
	"github.com/wikibias/wikibias/internal/llm"
	"github.com/wikibias/wikibias/internal/model"
)

// Retriever is the web-retrieval collaborator used by claim verification
type Retriever interface {
	Scrape(ctx context.Context, url string) ([]string, error)
}

// SourceRef pairs a citation's description with its URL for diversity analysis
type SourceRef struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Analyzer runs source analyses through an injected model provider.
// All collaborators are passed in at construction; the analyzer never
// reconstructs the model client.
type Analyzer struct {
	llm           llm.Provider
	retriever     Retriever
	maxChunkChars int
	log           *zap.Logger
}

// NewAnalyzer creates a source analyzer
func NewAnalyzer(p llm.Provider, r Retriever, maxChunkChars int, log *zap.Logger) *Analyzer {
	if maxChunkChars <= 0 {
		maxChunkChars = 8000
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{
		llm:           p,
		retriever:     r,
		maxChunkChars: maxChunkChars,
		log:           log,
	}
}

const persona = "You are a staff writer in a prestigious newspaper well regarded for its neutrality and fact checking. "

const integrityInstructions = persona + `Analyze the provided source against the claim. Return a source analysis with
'analysis_type': 'integrity' and a report containing:
- 'source_reliability' (0-1): How reliable is this source?
- 'source_bias_score' (-1 to 1): Ideological bias (-1=left, 0=neutral, 1=right)
- 'verification_strength' ('Full', 'Partial', or 'None'): How well does it verify the claim?
- 'explanation': Detailed explanation

IMPORTANT: Escape all double quotes in string values as \"

Output ONLY valid JSON in this format:
{
  "source_id": "source description",
  "analysis_type": "integrity",
  "report": {
    "source_reliability": <0.0-1.0>,
    "source_bias_score": <-1.0 to 1.0>,
    "verification_strength": "Full" or "Partial" or "None",
    "explanation": "detailed explanation"
  }
}`

// Integrity analyzes a single source against a single claim for
// reliability and bias. On failure it returns a neutral default annotated
// with the error; it never fails the caller.
func (a *Analyzer) Integrity(ctx context.Context, claim, sourceURL, sourceDescription string) model.SourceAnalysis {
	prompt := fmt.Sprintf("Claim: %s\nSource URL: %s\nSource Description: %s", claim, sourceURL, sourceDescription)

	data, err := a.invoke(ctx, integrityInstructions, prompt)
	if err != nil {
		a.log.Warn("source integrity analysis failed", zap.String("url", sourceURL), zap.Error(err))
		return model.SourceAnalysis{
			SourceID:     sourceDescription,
			AnalysisType: model.AnalysisTypeIntegrity,
			Report: model.IntegrityReport{
				SourceReliability:    0.5,
				SourceBiasScore:      0.0,
				VerificationStrength: model.VerificationNone,
				Explanation:          fmt.Sprintf("Error parsing analysis: %s", truncate(err.Error(), 100)),
			}.Map(),
		}
	}

	return model.SourceAnalysis{
		SourceID:     extract.StrOr(data, "source_id", sourceDescription),
		AnalysisType: model.AnalysisTypeIntegrity,
		Report:       reportOf(data),
	}
}

const clusteringInstructions = persona + `Analyze this list of sources for a single claim. Do they 'cluster' around one original source?

Return a source analysis with 'analysis_type': 'clustering' and a report containing:
- 'is_clustered' (bool): Do they cluster?
- 'independent_sources' (int): Number of truly independent sources
- 'total_citations' (int): Total citations analyzed
- 'original_source' (string): The original/primary source if clustered
- 'explanation': Detailed explanation

IMPORTANT: Escape all double quotes in string values as \"

Output ONLY valid JSON in this format:
{
  "source_id": "clustering analysis",
  "analysis_type": "clustering",
  "report": {
    "is_clustered": true or false,
    "independent_sources": <int>,
    "total_citations": <int>,
    "original_source": "source name or empty string",
    "explanation": "detailed explanation"
  }
}`

// Clustering analyzes whether a claim's citations cluster around a single
// original source. Only meaningful for claims with more than one citation;
// the orchestrator enforces that precondition. On failure it defaults to
// "not clustered" with every source counted as independent.
func (a *Analyzer) Clustering(ctx context.Context, claim string, sourceDescriptions []string) model.SourceAnalysis {
	sources, _ := json.MarshalIndent(sourceDescriptions, "", "  ")
	prompt := fmt.Sprintf("Claim: %s\nSources: %s", claim, sources)

	data, err := a.invoke(ctx, clusteringInstructions, prompt)
	if err != nil {
		a.log.Warn("citation clustering analysis failed", zap.Error(err))
		return model.SourceAnalysis{
			SourceID:     "clustering analysis",
			AnalysisType: model.AnalysisTypeClustering,
			Report: model.ClusteringReport{
				IsClustered:        false,
				IndependentSources: len(sourceDescriptions),
				TotalCitations:     len(sourceDescriptions),
				OriginalSource:     "",
				Explanation:        fmt.Sprintf("Error parsing analysis: %s", truncate(err.Error(), 100)),
			}.Map(),
		}
	}

	return model.SourceAnalysis{
		SourceID:     extract.StrOr(data, "source_id", "clustering analysis"),
		AnalysisType: model.AnalysisTypeClustering,
		Report:       reportOf(data),
	}
}

const diversityInstructions = persona + `Analyze the diversity of this source list. Return a source analysis with
'analysis_type': 'diversity' and a report containing:
- 'geographic_diversity' ('Low', 'Medium', or 'High')
- 'ideological_diversity' ('Low', 'Medium', or 'High')
- 'type_diversity' ('Low', 'Medium', or 'High'): primary/secondary/tertiary mix
- 'explanation': Explanation of selection bias

IMPORTANT: Escape all double quotes in string values as \"

Output ONLY valid JSON in this format:
{
  "source_id": "diversity analysis",
  "analysis_type": "diversity",
  "report": {
    "geographic_diversity": "Low" or "Medium" or "High",
    "ideological_diversity": "Low" or "Medium" or "High",
    "type_diversity": "Low" or "Medium" or "High",
    "explanation": "detailed explanation of selection bias"
  }
}`

// Diversity analyzes the source list for selection bias. Callers pass only
// citations with resolvable URLs; with none, the analyzer is skipped
// upstream. On failure every axis defaults to Medium.
func (a *Analyzer) Diversity(ctx context.Context, sources []SourceRef) model.SourceAnalysis {
	encoded, _ := json.MarshalIndent(sources, "", "  ")
	prompt := fmt.Sprintf("Sources: %s", encoded)

	data, err := a.invoke(ctx, diversityInstructions, prompt)
	if err != nil {
		a.log.Warn("source diversity analysis failed", zap.Error(err))
		return model.SourceAnalysis{
			SourceID:     "diversity analysis",
			AnalysisType: model.AnalysisTypeDiversity,
			Report: model.DiversityReport{
				GeographicDiversity:  model.DiversityMedium,
				IdeologicalDiversity: model.DiversityMedium,
				TypeDiversity:        model.DiversityMedium,
				Explanation:          fmt.Sprintf("Error parsing analysis: %s", truncate(err.Error(), 100)),
			}.Map(),
		}
	}

	return model.SourceAnalysis{
		SourceID:     extract.StrOr(data, "source_id", "diversity analysis"),
		AnalysisType: model.AnalysisTypeDiversity,
		Report:       reportOf(data),
	}
}

// invoke runs one model call and recovers its structured output
func (a *Analyzer) invoke(ctx context.Context, instructions, prompt string) (map[string]any, error) {
	out, err := a.llm.Invoke(ctx, instructions, prompt)
	if err != nil {
		return nil, err
	}
	return extract.Object(out)
}

// reportOf returns the report sub-object, tolerating its absence
func reportOf(data map[string]any) map[string]any {
	if report := extract.Map(data, "report"); report != nil {
		return report
	}
	return map[string]any{}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
