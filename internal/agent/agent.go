// Package agent wires the pipeline together: free text in, rendered answer
// out. Parse → validate → execute → format, with no path that drops a
// request silently.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/command"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/engine"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/format"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/kafka"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/nlp"
)

// Agent processes one user request at a time per call; concurrent calls are
// independent and share no mutable state beyond the remembered topic.
type Agent struct {
	parser  *nlp.Parser
	engine  *engine.Engine
	client  kafka.AdminClient
	bounds  command.Bounds
	limiter *nlp.RateLimiter
	memory  topicMemory
}

// New assembles an Agent. limiter may be nil to disable per-sender rate
// limiting (tests).
func New(parser *nlp.Parser, eng *engine.Engine, client kafka.AdminClient, bounds command.Bounds, limiter *nlp.RateLimiter) *Agent {
	return &Agent{
		parser:  parser,
		engine:  eng,
		client:  client,
		bounds:  bounds,
		limiter: limiter,
	}
}

// Ask answers a single free-text prompt. Every path terminates in rendered
// text; errors are folded into explanatory messages and logged.
func (a *Agent) Ask(ctx context.Context, sender, prompt string) string {
	requestID := uuid.NewString()
	log := slog.With("request_id", requestID, "sender", sender)

	if a.limiter != nil && !a.limiter.Allow(sender) {
		log.WarnContext(ctx, "Sender rate limit exceeded")
		return format.RateLimitMessage
	}

	// Fresh read-only metadata snapshot for this request. A failure here is
	// not fatal for the parse: the model just sees an empty topic list.
	var knownTopics []string
	if meta, err := a.client.ClusterMetadata(ctx); err == nil {
		knownTopics = meta.Topics
	} else {
		log.WarnContext(ctx, "Could not refresh cluster metadata for prompt context", "error", err)
	}

	cmd, err := a.parser.Parse(ctx, nlp.TranslateRequest{
		Prompt:          prompt,
		KnownTopics:     knownTopics,
		RememberedTopic: a.memory.recall(),
	})
	if err != nil {
		var parseErr *nlp.ParseError
		if errors.As(err, &parseErr) {
			log.InfoContext(ctx, "Parse failure", "reason", string(parseErr.Reason), "detail", parseErr.Detail)
			return format.RenderParseFailure(parseErr)
		}
		log.ErrorContext(ctx, "Translation provider failure", "error", err)
		return format.RenderProviderFailure(err)
	}

	result := command.Validate(cmd, a.bounds)
	if !result.Accepted {
		log.InfoContext(ctx, "Command rejected", "kind", string(cmd.Kind), "reason", string(result.Reason), "detail", result.Detail)
		return format.RenderRejection(result)
	}

	outcome := a.engine.Execute(ctx, result.Command)

	if outcome.Succeeded() {
		if topic := result.Command.Topic(); topic != "" {
			a.memory.remember(topic)
			log.InfoContext(ctx, "Remembering topic", "topic", topic)
		}
	}

	text, err := format.Render(outcome)
	if err != nil {
		// Contract violation between engine and formatter. Non-recoverable
		// defect: log loudly, answer generically.
		log.ErrorContext(ctx, "Malformed outcome", "kind", string(outcome.Kind), "error", err)
		return format.InternalErrorMessage
	}
	return text
}

// Run validates and executes an already-constructed command, bypassing the
// language model. Structured tool calls use this so they share the same
// whitelist, bounds, retry behavior, and rendering as free-text requests.
func (a *Agent) Run(ctx context.Context, cmd command.Command) string {
	requestID := uuid.NewString()
	log := slog.With("request_id", requestID)

	result := command.Validate(cmd, a.bounds)
	if !result.Accepted {
		log.InfoContext(ctx, "Command rejected", "kind", string(cmd.Kind), "reason", string(result.Reason), "detail", result.Detail)
		return format.RenderRejection(result)
	}

	outcome := a.engine.Execute(ctx, result.Command)

	if outcome.Succeeded() {
		if topic := result.Command.Topic(); topic != "" {
			a.memory.remember(topic)
		}
	}

	text, err := format.Render(outcome)
	if err != nil {
		log.ErrorContext(ctx, "Malformed outcome", "kind", string(outcome.Kind), "error", err)
		return format.InternalErrorMessage
	}
	return text
}

// topicMemory remembers the topic of the most recent successful
// topic-scoped command so follow-ups like "describe that topic" work.
type topicMemory struct {
	mu   sync.Mutex
	last string
}

func (m *topicMemory) remember(topic string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = topic
}

func (m *topicMemory) recall() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
