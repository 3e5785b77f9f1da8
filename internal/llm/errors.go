package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a model invocation failure
type ErrorKind string

const (
	// KindTransport covers network failures, bad responses, and anything
	// not recognized as one of the more specific kinds
	KindTransport ErrorKind = "transport"

	// KindRateLimit covers HTTP 429 and provider rate-limit responses
	KindRateLimit ErrorKind = "rate_limit"

	// KindContextOverflow covers prompts that exceed the model's context
	// window; summarization uses this to trigger the lean-report retry
	KindContextOverflow ErrorKind = "context_overflow"
)

// InvokeError is the typed error returned by every Provider.Invoke failure.
// Classification happens once, here at the model boundary, so callers never
// have to pattern-match rendered error text.
type InvokeError struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("%s invoke (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *InvokeError) Unwrap() error {
	return e.Err
}

// IsContextOverflow reports whether the error is a context-window overflow
func IsContextOverflow(err error) bool {
	var ie *InvokeError
	return errors.As(err, &ie) && ie.Kind == KindContextOverflow
}

// IsRateLimit reports whether the error is a rate-limit rejection
func IsRateLimit(err error) bool {
	var ie *InvokeError
	return errors.As(err, &ie) && ie.Kind == KindRateLimit
}

// Phrases that identify context-window overflows across providers. Status
// codes alone are ambiguous (400 also covers malformed requests), so the
// message must mention the context or token budget too.
var contextOverflowPhrases = []string{
	"context length",
	"context_length_exceeded",
	"maximum context",
	"context window",
	"too many tokens",
	"prompt is too long",
	"input length exceeds",
}

var rateLimitPhrases = []string{
	"rate limit",
	"rate_limit",
	"too many requests",
	"429",
}

// classifyMessage maps an error message to an ErrorKind using known
// provider phrases. Used as a fallback when no structured code is available.
func classifyMessage(msg string) ErrorKind {
	lower := strings.ToLower(msg)
	for _, p := range contextOverflowPhrases {
		if strings.Contains(lower, p) {
			return KindContextOverflow
		}
	}
	for _, p := range rateLimitPhrases {
		if strings.Contains(lower, p) {
			return KindRateLimit
		}
	}
	return KindTransport
}

// classifyStatus combines an HTTP status with the response message
func classifyStatus(status int, msg string) ErrorKind {
	switch {
	case status == 429:
		return KindRateLimit
	case status == 400 || status == 413:
		// Overflows surface as 400s on most providers; require a matching
		// phrase so a malformed request is not mistaken for one
		if kind := classifyMessage(msg); kind == KindContextOverflow {
			return KindContextOverflow
		}
		return KindTransport
	default:
		return classifyMessage(msg)
	}
}
