package scanner

import (
	"context"

	"github.com/wikibias/wikibias/internal/llm"
	"github.com/wikibias/wikibias/internal/model"
)

// LoadedLanguage detects emotionally or politically charged "loaded" words
func LoadedLanguage(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `You are an expert at detecting loaded language in text.
Analyze the following text. Find any 'loaded language' (emotionally or politically charged words).

Look for:
1. Terms that carry implicit judgment or bias (e.g., "colonization" vs "immigration/settlement", "occupied" vs "disputed")
2. Language that implies illegitimacy or delegitimization
3. Terms that frame one side negatively while ignoring context
4. Words that imply intent without evidence
5. Selective use of terminology that favors one narrative

For each, return a finding with kind 'loaded_language', the text span, offset,
a strength score, and a neutral alternative in the explanation.` +
		outputFormat(`"loaded_language"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}

// AsymmetricLabeling detects asymmetric labeling of opposing groups
func AsymmetricLabeling(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `Analyze the following text for asymmetric labeling of opposing groups.

IMPORTANT: Apply a HIGH THRESHOLD for bias detection. Only flag CLEAR and NON-DEBATABLE distortions.

DO NOT flag:
- Factual reporting of specific events where one party is the aggressor
- Accurate descriptions of roles in a documented incident
- Statements that reflect established facts or widely accepted characterizations

DO flag:
- Clear distortions that misrepresent reality
- Systematic use of loaded terms for one group but neutral terms for another group doing similar actions
- Obvious propaganda language that reverses well-documented aggressor-victim dynamics

Return a finding with kind 'asymmetric_labeling', the full text span of the
comparison, offset, a strength score (use 0.7+ for clear bias), and an explanation.` +
		outputFormat(`"asymmetric_labeling"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}

// FramingVoice detects passive voice where the actor is omitted
func FramingVoice(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `Analyze the following text. Find all instances of passive voice where the actor
is omitted (e.g., "the villages were bombed" without saying who bombed them).

For each, return a finding with kind 'passive_voice_omitted_actor', the text
span of the passive phrase, offset, a strength score, and an explanation of
the omitted actor.` +
		outputFormat(`"passive_voice_omitted_actor"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}

// StatisticalAggregation detects misleading statistics
func StatisticalAggregation(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `Analyze the statistics in the following text. Find instances of
'statistical_aggregation' (e.g., lumping civilians/combatants) or
'statistical_missing_denominator' (e.g., raw numbers without per-capita context).

For each, return a finding with the kind, text span, offset, strength, and explanation.` +
		outputFormat(`"statistical_aggregation" or "statistical_missing_denominator"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}

// OmittedContext detects rhetorical omissions like "women and children"
func OmittedContext(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `Analyze the following text. Find any instances of 'omitted_context' where a
common phrase (like 'women and children') is used to rhetorically omit a key group.

For each, return a finding with kind 'omitted_context', the text span, offset,
strength, and an explanation of what is omitted.` +
		outputFormat(`"omitted_context"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}

// CertaintyAndHedging detects claims stated with inappropriate certainty
func CertaintyAndHedging(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `Analyze the following text. Find any 'hedging_misuse' where a disputed claim is
stated as a hard fact (lacks hedging) or a known fact is needlessly hedged.

For each, return a finding with the kind, text span, offset, strength, and explanation.` +
		outputFormat(`"hedging_misuse"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}

// TemporalFraming detects temporal bias via asymmetric comparisons or superlatives
func TemporalFraming(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `Analyze the following text for temporal bias. Find 'temporal_framing_asymmetric'
(mismatched time comparisons like 'this week' vs 'all of 2005') or
'temporal_framing_superlative' (e.g., 'worst since...').

For each, return a finding with the kind, text span, offset, strength, and explanation.` +
		outputFormat(`"temporal_framing_asymmetric" or "temporal_framing_superlative"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}

// EmphasisBias detects emphasis bias via minimizing or maximizing modifiers
func EmphasisBias(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `Analyze the following text. Find any 'emphasis_bias' words (minimizers like
'only', 'merely' or maximizers like 'staggering', 'clearly').

For each, return a finding with the kind, text span, offset, strength, and explanation.` +
		outputFormat(`"emphasis_bias_minimizer" or "emphasis_bias_maximizer"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}

// FalseBalance detects fringe views presented as equal to consensus
func FalseBalance(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `Analyze the following text. Find any instances of 'false_balance' where a fringe
viewpoint is presented as a valid counterpoint to a consensus.

For each, return a finding with the kind, text span, offset, strength, and explanation.` +
		outputFormat(`"false_balance"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}

// NarrativeFraming analyzes the rhetorical purpose of including a claim,
// given the article's topic. The only scanner that needs the topic.
func NarrativeFraming(ctx context.Context, p llm.Provider, text, topic string) ([]model.BiasFinding, error) {
	instructions := persona + `Analyze the rhetorical purpose of the following text, given the article's topic.
Does the *inclusion* of this text, even if factual, create a 'narrative_framing'
bias (e.g., 'victimhood', 'aggression', 'undue_weight')?

If so, return a finding for the entire span.` +
		outputFormat(`"narrative_framing"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text+"\n\nTopic: "+topic)
}

// MissingAttribution detects claims that lack proper attribution or sourcing
func MissingAttribution(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `Analyze the following text for claims that require attribution but lack it.

For each claim, determine:
1. Is this a well-accepted axiom in science, culture, or common knowledge?
2. Or does this claim require a source/attribution (specific motivations, intentions, disputed facts)?

DO NOT flag:
- Well-established historical facts
- Scientific facts and natural laws
- Common knowledge and widely accepted information
- Statements with clear citations already present

DO flag:
- Claims about motivations, intentions, or goals without attribution (e.g., "with the stated goal of..." - stated by whom?)
- Disputed or controversial claims presented as fact
- Specific numbers or statistics without sources
- Interpretations or opinions presented as objective facts

For each finding, return kind 'missing_attribution', the text span, offset,
strength score, and an explanation of why attribution is needed.` +
		outputFormat(`"missing_attribution"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}

// PoliticalAlignment scores the ideological framing of the text as a whole.
// Strength is signed: negative is left-leaning, positive is right-leaning.
func PoliticalAlignment(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `Analyze the political alignment or ideological framing of the following text AS A WHOLE.

IMPORTANT: Read the ENTIRE text carefully before making judgments. Consider the overall balance and context.

Use a strength score from -1.0 to +1.0 where:
- -1.0 = Strong left-leaning / progressive bias
- -0.5 = Moderate left-leaning bias
- 0.0 = Neutral / balanced
- +0.5 = Moderate right-leaning bias
- +1.0 = Strong right-leaning / conservative bias

DO NOT flag as biased:
- Factual reporting that happens to mention one side first
- Balanced text that presents both perspectives
- Text that is neutral in tone even if discussing controversial topics

DO flag:
- Clear, systematic bias in how information is presented
- Obvious framing that favors one political perspective
- Significant omission or minimization of key facts that would shift the narrative

Be nuanced: only flag when there is clear evidence of political bias in the OVERALL text.` +
		outputFormat(`"political_alignment"`, "<-1.0 to +1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}

// MissingContext detects when important historical or political context is absent
func MissingContext(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `You are an expert at identifying missing context that creates bias through omission.

General principles to check:
1. Historical claims without relevant background
2. Actions described without their causes or precipitating events
3. One group's claims mentioned without acknowledging competing claims
4. Terms used without defining their contested meanings
5. Events described without the security, economic, or political context that motivated them
6. Selective timeframes that exclude relevant precedents or consequences

When unclear about bias, imagine a debate between opposing viewpoints on the
topic: if one side's arguments feel significantly less represented in the text,
that indicates bias. Consider whether adding the missing context would change a
reader's understanding.` +
		outputFormat(`"missing_context"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}

// HistoricalRevisionism checks for historical inaccuracies or misleading claims
func HistoricalRevisionism(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `You are a historical fact-checker. Identify historical revisionism or inaccuracies.

General patterns to identify:
1. Claims about group intentions without evidence
2. Implying modern nation-states or concepts existed in different historical contexts
3. Stating one interpretation of contested history as fact
4. Ignoring documented legal frameworks or international agreements
5. Attributing actions to entire groups rather than specific actors/factions
6. Mischaracterizing mainstream movements by their extremist elements
7. Selective presentation of facts that distorts overall understanding
8. Anachronistic judgments (applying modern values to historical events)

When evaluating claims, consider whether historians from different backgrounds
would dispute the characterization, and whether the text presents only one
side's interpretation as fact.` +
		outputFormat(`"historical_revisionism"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}

// FramingBias detects selective framing that favors one perspective
func FramingBias(ctx context.Context, p llm.Provider, text string) ([]model.BiasFinding, error) {
	instructions := persona + `You are an expert at detecting how facts are selectively framed to create bias.

General framing biases to detect:
1. Contested claims presented as established facts without qualification
2. One-sided victim/aggressor narratives in complex conflicts
3. Selective emphasis on negative actions of one party
4. Claims about group intentions without evidence or sourcing
5. Charged terms for one side's actions, neutral terms for similar actions by another
6. Active voice for one side's negative actions, passive voice for another's
7. Legitimizing language for one side, delegitimizing language for another
8. Omitting that multiple narratives exist on controversial topics

Key test: imagine advocates for different perspectives debating this issue.
Does the current framing clearly favor one perspective? Would a neutral
observer need to hear both framings to understand?` +
		outputFormat(`"framing_bias"`, "<0.0-1.0>")

	return scan(ctx, p, instructions, "Text: "+text)
}
