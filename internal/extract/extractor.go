package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// snippetLen bounds how much of the raw model output is carried in a
// MalformedOutputError for diagnostics
const snippetLen = 500

// MalformedOutputError indicates that no structured object could be
// recovered from model output after all fallback tiers
type MalformedOutputError struct {
	Snippet string // Truncated prefix of the original text
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("could not extract valid JSON from model output: %s", e.Snippet)
}

// Object recovers a JSON object from the raw text of a model invocation.
//
// Model-generated JSON is unreliable: it may be wrapped in prose, use
// invalid escaping, or be truncated by output-length limits. Recovery runs
// in three tiers:
//
//  1. Text with no '{' or '[' at all is a deliberate "no findings" answer,
//     not an error: an empty map is returned.
//  2. The whole text is repaired and parsed (trailing commas, unescaped
//     control characters, and minor truncation are tolerated).
//  3. The outermost {...} span (first '{' to last '}') is repaired and
//     parsed on its own.
//
// If every tier fails, a *MalformedOutputError is returned carrying a
// truncated prefix of the original text.
//
// Every analyzer depends on this contract; no analyzer parses model
// output itself.
func Object(raw string) (map[string]any, error) {
	text := strings.TrimSpace(raw)

	if !strings.ContainsAny(text, "{[") {
		return map[string]any{}, nil
	}

	if obj, err := repairParse(text); err == nil {
		return obj, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		if obj, err := repairParse(text[start : end+1]); err == nil {
			return obj, nil
		}
	}

	snippet := text
	if len(snippet) > snippetLen {
		snippet = snippet[:snippetLen]
	}
	return nil, &MalformedOutputError{Snippet: snippet}
}

// repairParse repairs minor JSON corruption and parses the result,
// requiring a top-level object
func repairParse(text string) (map[string]any, error) {
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return nil, fmt.Errorf("repair: %w", err)
	}

	var value any
	if err := json.Unmarshal([]byte(repaired), &value); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value is %T, not an object", value)
	}

	return obj, nil
}
