// Package format renders execution outcomes and pipeline failures as
// human-readable text. It is purely presentational: nothing here can alter
// an outcome, and no value is ever fabricated.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/command"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/engine"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/nlp"
)

// ErrMalformedOutcome indicates an outcome whose payload does not match its
// kind. This is an internal contract violation, not a user error.
var ErrMalformedOutcome = errors.New("format: malformed outcome")

// Render turns an execution outcome into response text. It returns
// ErrMalformedOutcome when the outcome violates the payload contract;
// callers treat that as a non-recoverable defect.
func Render(o *engine.Outcome) (string, error) {
	if o == nil {
		return "", fmt.Errorf("%w: nil outcome", ErrMalformedOutcome)
	}
	if o.Failure != nil {
		return renderFailure(o.Failure), nil
	}

	switch o.Kind {
	case command.KindListTopics:
		return renderTopicList(o.Topics), nil

	case command.KindDescribeTopic:
		if o.Topic == nil || o.Configs == nil {
			return "", fmt.Errorf("%w: describe outcome missing payload", ErrMalformedOutcome)
		}
		return renderTopicDescription(o), nil

	case command.KindCreateTopic:
		if o.Created == nil {
			return "", fmt.Errorf("%w: create outcome missing payload", ErrMalformedOutcome)
		}
		c := o.Created
		return fmt.Sprintf("Created topic %q with %d partition(s) and a retention of %s.",
			c.Topic, c.Partitions, FormatRetentionMs(c.RetentionMs)), nil

	case command.KindExplainConcept:
		if o.Explanation == "" {
			return "", fmt.Errorf("%w: explain outcome missing text", ErrMalformedOutcome)
		}
		return o.Explanation, nil

	default:
		return "", fmt.Errorf("%w: unknown outcome kind %q", ErrMalformedOutcome, o.Kind)
	}
}

func renderTopicList(topics []string) string {
	if len(topics) == 0 {
		return "The cluster has no topics."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "The cluster has %d topic(s):\n", len(topics))
	for _, t := range topics {
		sb.WriteString("  - ")
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderTopicDescription(o *engine.Outcome) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic %q has %d partition(s).\n", o.Topic.Name, len(o.Topic.Partitions))
	for _, p := range o.Topic.Partitions {
		fmt.Fprintf(&sb, "  - partition %d: leader %d, replicas %v, ISR %v\n",
			p.PartitionID, p.Leader, p.Replicas, p.ISR)
	}
	if ms, ok := o.Configs.RetentionMs(); ok {
		fmt.Fprintf(&sb, "Retention for %s: %s", o.Topic.Name, FormatRetentionMs(ms))
	} else {
		fmt.Fprintf(&sb, "Retention is not explicitly set for %s", o.Topic.Name)
	}
	return sb.String()
}

func renderFailure(f *engine.Failure) string {
	switch f.Class {
	case engine.FailureTopicExists:
		return "That topic already exists, so nothing was changed."
	case engine.FailureTopicNotFound:
		return "The cluster does not know that topic. Use \"list topics\" to see what exists."
	case engine.FailureTimeout:
		return fmt.Sprintf("The cluster did not respond in time (gave up after %d attempt(s)).", f.Attempts)
	case engine.FailureUnreachable:
		return fmt.Sprintf("The cluster could not be reached (gave up after %d attempt(s)). Check the broker addresses and network.", f.Attempts)
	default:
		return "Something went wrong while talking to the cluster. The operation was not confirmed."
	}
}

// FormatRetentionMs renders a retention period consistently as
// "D.DD days (H.HH hours)".
func FormatRetentionMs(ms int64) string {
	days := float64(ms) / (1000 * 60 * 60 * 24)
	hours := float64(ms) / (1000 * 60 * 60)
	return fmt.Sprintf("%.2f days (%.2f hours)", days, hours)
}

// RenderParseFailure explains why free text could not become a command.
func RenderParseFailure(err *nlp.ParseError) string {
	switch err.Reason {
	case nlp.ReasonMissingParameter:
		return fmt.Sprintf("I couldn't run that: %s.", err.Detail)
	case nlp.ReasonAmbiguousPhrasing:
		return fmt.Sprintf("I couldn't pin that down precisely (%s). Please state an exact value, e.g. \"24 hours\" or \"7 days\".", err.Detail)
	default:
		return fmt.Sprintf("I can only list topics, describe a topic, create a topic, or answer Kafka questions. %s", sentence(err.Detail))
	}
}

// RenderRejection explains a validator rejection.
func RenderRejection(result command.ValidationResult) string {
	switch result.Reason {
	case command.RejectUnauthorizedAction:
		return "That operation is not permitted through this assistant."
	case command.RejectPartitionsBounds, command.RejectRetentionBounds:
		return fmt.Sprintf("The request is out of bounds: %s.", result.Detail)
	case command.RejectInvalidTopicName:
		return fmt.Sprintf("That topic name is not valid: %s.", result.Detail)
	default:
		return fmt.Sprintf("The request is incomplete: %s.", result.Detail)
	}
}

// RenderProviderFailure explains a terminal failure of the translation
// provider itself.
func RenderProviderFailure(err error) string {
	switch {
	case errors.Is(err, nlp.ErrRateLimited):
		return "The assistant is temporarily rate-limited by the language model provider. Please try again in a moment."
	case errors.Is(err, nlp.ErrUnavailable):
		return "The assistant's language model is currently unreachable. Please try again later."
	case errors.Is(err, nlp.ErrMalformedOutput):
		return "I didn't manage to understand that. Try rephrasing your request."
	default:
		return "Something went wrong while interpreting your request. Please try again."
	}
}

// RateLimitMessage is the reply for senders who exceed the per-minute
// translation call limit.
const RateLimitMessage = "I'm processing too many requests from you right now. Please try again in a moment."

// InternalErrorMessage is the generic reply for internal contract
// violations. Details go to the log, not to the user.
const InternalErrorMessage = "An internal error occurred while preparing the answer. The operation result was not lost on the cluster side."

func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "?") && !strings.HasSuffix(s, "!") {
		s += "."
	}
	return s
}
