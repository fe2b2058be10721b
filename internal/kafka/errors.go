package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/twmb/franz-go/pkg/kerr"
)

// Typed failures surfaced by the client. The execution engine relies on
// these to distinguish fatal outcomes from retryable ones.
var (
	// ErrTopicExists is returned by CreateTopic when the topic is already
	// present on the cluster.
	ErrTopicExists = errors.New("topic already exists")

	// ErrTopicNotFound is returned by DescribeTopic and DescribeTopicConfigs
	// when the cluster does not know the topic.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrUnreachable is returned when no broker could be contacted.
	ErrUnreachable = errors.New("cluster unreachable")
)

// kerrToTyped maps a Kafka protocol error code onto one of the typed
// sentinel errors above, wrapping the original kerr error for context.
// A zero code maps to nil.
func kerrToTyped(code int16) error {
	kerrErr := kerr.TypedErrorForCode(code)
	if kerrErr == nil {
		return nil
	}
	switch {
	case errors.Is(kerrErr, kerr.TopicAlreadyExists):
		return fmt.Errorf("%w: %s", ErrTopicExists, kerrErr.Message)
	case errors.Is(kerrErr, kerr.UnknownTopicOrPartition):
		return fmt.Errorf("%w: %s", ErrTopicNotFound, kerrErr.Message)
	default:
		return kerrErr
	}
}

// IsRetryable reports whether err represents a transient condition worth
// retrying (leader elections, broker restarts, network hiccups, per-attempt
// timeouts). Fatal protocol outcomes such as "already exists" and
// "unknown topic" are never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTopicExists) || errors.Is(err, ErrTopicNotFound) {
		return false
	}
	// Per-attempt deadline expiry is retried up to the engine's attempt cap.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var kerrErr *kerr.Error
	if errors.As(err, &kerrErr) {
		return kerrErr.Retriable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, ErrUnreachable) {
		return true
	}
	return false
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
