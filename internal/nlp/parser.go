package nlp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/command"
)

// ParseReason classifies why free text could not become a command.
type ParseReason string

const (
	ReasonUnrecognizedIntent ParseReason = "unrecognized_intent"
	ReasonMissingParameter   ParseReason = "missing_parameter"
	ReasonAmbiguousPhrasing  ParseReason = "ambiguous_phrasing"
)

// ParseError is the typed parse failure of the intent parser.
type ParseError struct {
	Reason ParseReason
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failure (%s): %s", e.Reason, e.Detail)
}

// Parser turns free text into exactly one Command or a ParseError. It wraps
// the translation provider with a circuit breaker so a dead or throttled
// LLM endpoint degrades into a fast, typed unavailable condition instead of
// a pile of hanging requests.
type Parser struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker[*Translation]
}

// NewParser returns a Parser backed by provider.
func NewParser(provider Provider) *Parser {
	settings := gobreaker.Settings{
		Name:    "nlp-translate",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Only connectivity problems should trip the breaker. Rate limiting
		// and malformed output are conditions of a healthy endpoint.
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Info("NLP circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &Parser{
		provider: provider,
		breaker:  gobreaker.NewCircuitBreaker[*Translation](settings),
	}
}

// Parse translates prompt into a Command. It performs no side effects.
//
// Failure modes, all terminal for the request:
//   - *ParseError for unrecognized intent, missing parameters, or
//     ambiguous phrasing (duration phrases that cannot be normalized).
//   - ErrUnavailable / ErrRateLimited / ErrMalformedOutput passed through
//     from the provider layer.
func (p *Parser) Parse(ctx context.Context, req TranslateRequest) (command.Command, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return command.Command{}, &ParseError{Reason: ReasonUnrecognizedIntent, Detail: "empty prompt"}
	}

	translation, err := p.breaker.Execute(func() (*Translation, error) {
		return p.provider.Translate(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return command.Command{}, fmt.Errorf("%w: circuit breaker open", ErrUnavailable)
		}
		return command.Command{}, err
	}

	return p.toCommand(translation, req.RememberedTopic)
}

// toCommand maps a schema-valid Translation onto the constrained command
// representation, normalizing durations deterministically.
func (p *Parser) toCommand(t *Translation, rememberedTopic string) (command.Command, error) {
	topic := strings.TrimSpace(t.Topic)
	if topic == "" {
		topic = rememberedTopic
	}

	switch t.Intent {
	case IntentListTopics:
		return command.Command{Kind: command.KindListTopics}, nil

	case IntentDescribeTopic:
		if topic == "" {
			return command.Command{}, &ParseError{
				Reason: ReasonMissingParameter,
				Detail: "no topic name given and none remembered from the conversation",
			}
		}
		return command.Command{
			Kind:          command.KindDescribeTopic,
			DescribeTopic: &command.DescribeTopicParams{Name: topic},
		}, nil

	case IntentCreateTopic:
		if topic == "" {
			return command.Command{}, &ParseError{
				Reason: ReasonMissingParameter,
				Detail: "create topic requires a topic name",
			}
		}
		if t.Retention == "" {
			return command.Command{}, &ParseError{
				Reason: ReasonMissingParameter,
				Detail: "create topic requires a retention duration",
			}
		}
		retention, err := ParseDurationPhrase(t.Retention)
		if err != nil {
			return command.Command{}, &ParseError{
				Reason: ReasonAmbiguousPhrasing,
				Detail: fmt.Sprintf("retention phrase %q: %v", t.Retention, err),
			}
		}
		partitions := t.Partitions
		if partitions == 0 {
			partitions = 1
		}
		// The translation schema caps partitions at math.MaxInt32, so a value
		// outside the int32 range means the provider broke its contract. It
		// must never be truncated into a value the validator would accept.
		if partitions < 0 || partitions > math.MaxInt32 {
			return command.Command{}, fmt.Errorf("%w: partitions %d outside representable range", ErrMalformedOutput, partitions)
		}
		return command.Command{
			Kind: command.KindCreateTopic,
			CreateTopic: &command.CreateTopicParams{
				Name:       topic,
				Partitions: int32(partitions),
				Retention:  retention,
			},
		}, nil

	case IntentExplain:
		if strings.TrimSpace(t.Answer) == "" {
			return command.Command{}, &ParseError{
				Reason: ReasonMissingParameter,
				Detail: "explanation intent carried no answer text",
			}
		}
		return command.Command{
			Kind:    command.KindExplainConcept,
			Explain: &command.ExplainParams{Concept: t.Concept, Answer: t.Answer},
		}, nil

	default:
		detail := strings.TrimSpace(t.Answer)
		if detail == "" {
			detail = "the request does not match a supported operation"
		}
		return command.Command{}, &ParseError{Reason: ReasonUnrecognizedIntent, Detail: detail}
	}
}
