// Package engine applies validated commands to the Kafka cluster.
//
// Each request runs its own small state machine:
//
//	Idle → Dispatched → {Succeeded, Failed(retryable), Failed(fatal)}
//
// Retryable failures are retried with bounded exponential backoff up to the
// attempt cap; fatal failures (topic exists on create, topic absent on
// describe) surface immediately. Every attempt carries a timeout.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/command"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/kafka"
)

// FailureClass categorizes terminal execution failures.
type FailureClass string

const (
	FailureUnreachable   FailureClass = "cluster_unreachable"
	FailureTopicExists   FailureClass = "topic_exists"
	FailureTopicNotFound FailureClass = "topic_not_found"
	FailureTimeout       FailureClass = "timeout"
	FailureInternal      FailureClass = "internal"
)

// Failure is a typed terminal execution failure.
type Failure struct {
	Class    FailureClass
	Err      error
	Attempts int
}

func (f *Failure) Error() string {
	return fmt.Sprintf("execution failed (%s) after %d attempt(s): %v", f.Class, f.Attempts, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Outcome is the result of executing one command. Exactly one payload field
// matching Kind is populated on success; Failure is set otherwise.
type Outcome struct {
	Kind     command.Kind
	Attempts int

	Topics      []string                 // KindListTopics
	Topic       *kafka.TopicMetadata     // KindDescribeTopic
	Configs     *kafka.TopicConfigs      // KindDescribeTopic
	Created     *kafka.CreateTopicResult // KindCreateTopic
	Explanation string                   // KindExplainConcept

	Failure *Failure
}

// Succeeded reports whether the command completed without a terminal failure.
func (o *Outcome) Succeeded() bool { return o.Failure == nil }

// Engine executes validated commands against the cluster.
type Engine struct {
	client       kafka.AdminClient
	retryCfg     RetryConfig
	adminTimeout time.Duration
}

// New returns an Engine using client for cluster calls. adminTimeout bounds
// each individual attempt; retryCfg bounds the attempts.
func New(client kafka.AdminClient, adminTimeout time.Duration, retryCfg RetryConfig) *Engine {
	if adminTimeout <= 0 {
		adminTimeout = 10 * time.Second
	}
	if retryCfg.ShouldRetry == nil {
		retryCfg.ShouldRetry = kafka.IsRetryable
	}
	return &Engine{
		client:       client,
		retryCfg:     retryCfg,
		adminTimeout: adminTimeout,
	}
}

// Execute applies cmd to the cluster and returns its outcome. The command
// must already have passed validation. Side effects are strictly scoped to
// the single requested operation.
//
// Cancellation before the first dispatch has no side effect. Once a call is
// in flight, cancellation is best-effort: the cluster applies whatever the
// in-flight call does, and the result is discarded with the request.
func (e *Engine) Execute(ctx context.Context, cmd command.Command) *Outcome {
	outcome := &Outcome{Kind: cmd.Kind}

	// ExplainConcept never touches the cluster; the answer text is relayed
	// as-is.
	if cmd.Kind == command.KindExplainConcept {
		outcome.Explanation = cmd.Explain.Answer
		outcome.Attempts = 0
		return outcome
	}

	// Idle → Dispatched: bail out before any side effect if already cancelled.
	if err := ctx.Err(); err != nil {
		outcome.Failure = &Failure{Class: FailureInternal, Err: err}
		return outcome
	}

	attempts, err := retryDo(ctx, e.retryCfg, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, e.adminTimeout)
		defer cancel()
		return e.dispatch(attemptCtx, cmd, outcome)
	})
	outcome.Attempts = attempts

	if err != nil {
		failure := &Failure{Class: classify(err), Err: err, Attempts: attempts}
		slog.ErrorContext(ctx, "Command execution failed",
			"kind", string(cmd.Kind), "topic", cmd.Topic(),
			"class", string(failure.Class), "attempts", attempts, "error", err)
		outcome.Failure = failure
		return outcome
	}

	slog.InfoContext(ctx, "Command executed",
		"kind", string(cmd.Kind), "topic", cmd.Topic(), "attempts", attempts)
	return outcome
}

// dispatch performs one attempt of the cluster call for cmd, filling the
// outcome payload on success.
func (e *Engine) dispatch(ctx context.Context, cmd command.Command, outcome *Outcome) error {
	switch cmd.Kind {
	case command.KindListTopics:
		topics, err := e.client.ListTopics(ctx)
		if err != nil {
			return err
		}
		outcome.Topics = topics
		return nil

	case command.KindDescribeTopic:
		meta, err := e.client.DescribeTopic(ctx, cmd.DescribeTopic.Name)
		if err != nil {
			return err
		}
		configs, err := e.client.DescribeTopicConfigs(ctx, cmd.DescribeTopic.Name)
		if err != nil {
			return err
		}
		outcome.Topic = meta
		outcome.Configs = configs
		return nil

	case command.KindCreateTopic:
		p := cmd.CreateTopic
		created, err := e.client.CreateTopic(ctx, p.Name, p.Partitions, p.Retention.Milliseconds())
		if err != nil {
			return err
		}
		outcome.Created = created
		return nil

	default:
		return fmt.Errorf("engine received unvalidated command kind %q", cmd.Kind)
	}
}

// classify maps an execution error onto a terminal failure class.
func classify(err error) FailureClass {
	switch {
	case errors.Is(err, kafka.ErrTopicExists):
		return FailureTopicExists
	case errors.Is(err, kafka.ErrTopicNotFound):
		return FailureTopicNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, kafka.ErrUnreachable):
		return FailureUnreachable
	case kafka.IsRetryable(err):
		// Retryable condition that exhausted the attempt cap.
		return FailureUnreachable
	default:
		return FailureInternal
	}
}
