// Package nlp provides the natural-language translation layer of the agent.
//
// The layer sits between raw user text and the command validator. Its sole
// responsibility is translation: convert a free-form sentence into a typed
// Command the downstream pipeline can validate and execute.
//
// Security invariants:
//   - The LLM only proposes a structured command; it never returns code and
//     nothing it returns is ever executed.
//   - Its output is untrusted input: it must conform to a fixed JSON schema
//     before it is accepted, and the resulting command still passes the
//     whitelist validator like any other input.
//   - Rate limiting bounds token spend per sender; a circuit breaker stops
//     hammering an unavailable provider.
package nlp

import (
	"context"
	"errors"
)

// ErrRateLimited is returned when the upstream LLM API reports a
// rate-limiting condition (HTTP 429). The request was understood but cannot
// be fulfilled right now; callers surface this as a terminal condition.
var ErrRateLimited = errors.New("nlp: upstream rate limit exceeded")

// ErrUnavailable is returned when the provider cannot be reached or the
// circuit breaker is open. Distinct terminal condition, never retried here.
var ErrUnavailable = errors.New("nlp: translation provider unavailable")

// ErrMalformedOutput is returned when the LLM replies with output that does
// not conform to the translation schema, even after the single corrective
// re-prompt. The output is discarded, never coerced.
var ErrMalformedOutput = errors.New("nlp: malformed output from translation provider")

// Intent is the operation category the LLM inferred from the user's text.
// The values mirror command.Kind plus "unknown" for everything else.
type Intent string

const (
	IntentListTopics    Intent = "list_topics"
	IntentCreateTopic   Intent = "create_topic"
	IntentDescribeTopic Intent = "describe_topic"
	IntentExplain       Intent = "explain_concept"
	IntentUnknown       Intent = "unknown"
)

// TranslateRequest is the input to a single translation call.
//
// The caller populates the cluster context fields fresh on each request;
// they are intentionally not cached inside the provider.
type TranslateRequest struct {
	// Prompt is the raw text sent by the user.
	Prompt string

	// KnownTopics is the current topic list from the cluster metadata
	// snapshot, shown to the model so it can resolve references like
	// "my orders topic".
	KnownTopics []string

	// RememberedTopic is the topic of the most recent successful
	// topic-scoped command in this conversation, or "" when none.
	RememberedTopic string
}

// Translation is the structured output of the provider after schema
// validation. Only the fields relevant to Intent are populated.
type Translation struct {
	// Intent is the inferred operation, or IntentUnknown.
	Intent Intent `json:"intent"`

	// Topic is the topic name for topic-scoped intents.
	Topic string `json:"topic,omitempty"`

	// Partitions is the requested partition count for create_topic.
	Partitions int `json:"partitions,omitempty"`

	// Retention is the user's retention phrase for create_topic, echoed
	// verbatim (e.g. "one day", "24 hours"). Normalization into a duration
	// happens deterministically in the parser, never in the model.
	Retention string `json:"retention,omitempty"`

	// Concept is the conceptual question for explain_concept.
	Concept string `json:"concept,omitempty"`

	// Answer is the model's explanation text for explain_concept, or a
	// clarifying question when Intent is unknown. Display text only.
	Answer string `json:"answer,omitempty"`
}

// Provider translates free-form user text into a Translation.
//
// Implementations must be safe for concurrent use and must return only
// schema-conformant translations; anything else is an error.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (*Translation, error)
}
