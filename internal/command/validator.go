package command

import (
	"fmt"
	"regexp"
	"time"
)

// RejectReason is a machine-readable reason for refusing a command.
type RejectReason string

const (
	RejectUnknownOperation   RejectReason = "unknown_operation"
	RejectMissingParameter   RejectReason = "missing_parameter"
	RejectPartitionsBounds   RejectReason = "partitions_out_of_bounds"
	RejectRetentionBounds    RejectReason = "retention_out_of_bounds"
	RejectInvalidTopicName   RejectReason = "invalid_topic_name"
	RejectUnauthorizedAction RejectReason = "unauthorized_action"
)

// ValidationResult either accepts a command or rejects it with a reason
// suitable for rendering a user-facing explanation.
type ValidationResult struct {
	Accepted bool
	Command  Command
	Reason   RejectReason
	Detail   string
}

// Bounds are the configurable parameter limits enforced on commands.
type Bounds struct {
	MaxPartitions   int32
	MinRetention    time.Duration
	MaxRetention    time.Duration
	MaxTopicNameLen int
}

// DefaultBounds mirrors the configuration defaults.
var DefaultBounds = Bounds{
	MaxPartitions:   100,
	MinRetention:    time.Minute,
	MaxRetention:    365 * 24 * time.Hour,
	MaxTopicNameLen: 249,
}

// Kafka's legal topic name character set.
var topicNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Validate is a pure function checking a command against the operation
// whitelist and parameter bounds. Commands that do not pass never reach the
// execution engine.
func Validate(cmd Command, bounds Bounds) ValidationResult {
	reject := func(reason RejectReason, detail string) ValidationResult {
		return ValidationResult{Accepted: false, Reason: reason, Detail: detail}
	}

	switch cmd.Kind {
	case KindListTopics:
		return ValidationResult{Accepted: true, Command: cmd}

	case KindDescribeTopic:
		if cmd.DescribeTopic == nil || cmd.DescribeTopic.Name == "" {
			return reject(RejectMissingParameter, "describe topic requires a topic name")
		}
		if detail, ok := checkTopicName(cmd.DescribeTopic.Name, bounds); !ok {
			return reject(RejectInvalidTopicName, detail)
		}
		return ValidationResult{Accepted: true, Command: cmd}

	case KindCreateTopic:
		p := cmd.CreateTopic
		if p == nil || p.Name == "" {
			return reject(RejectMissingParameter, "create topic requires a topic name")
		}
		if detail, ok := checkTopicName(p.Name, bounds); !ok {
			return reject(RejectInvalidTopicName, detail)
		}
		if p.Partitions < 1 || p.Partitions > bounds.MaxPartitions {
			return reject(RejectPartitionsBounds,
				fmt.Sprintf("partition count %d outside allowed range [1, %d]", p.Partitions, bounds.MaxPartitions))
		}
		if p.Retention < bounds.MinRetention || p.Retention > bounds.MaxRetention {
			return reject(RejectRetentionBounds,
				fmt.Sprintf("retention %s outside allowed range [%s, %s]", p.Retention, bounds.MinRetention, bounds.MaxRetention))
		}
		return ValidationResult{Accepted: true, Command: cmd}

	case KindExplainConcept:
		if cmd.Explain == nil || cmd.Explain.Answer == "" {
			return reject(RejectMissingParameter, "explain requires an answer to relay")
		}
		return ValidationResult{Accepted: true, Command: cmd}

	default:
		// Structurally different requests (delete topic, alter broker config,
		// anything the LLM hallucinates) land here.
		return reject(RejectUnauthorizedAction,
			fmt.Sprintf("operation %q is not on the whitelist", cmd.Kind))
	}
}

func checkTopicName(name string, bounds Bounds) (string, bool) {
	if len(name) > bounds.MaxTopicNameLen {
		return fmt.Sprintf("topic name longer than %d characters", bounds.MaxTopicNameLen), false
	}
	if name == "." || name == ".." {
		return fmt.Sprintf("topic name %q is reserved", name), false
	}
	if !topicNamePattern.MatchString(name) {
		return fmt.Sprintf("topic name %q contains characters outside [A-Za-z0-9._-]", name), false
	}
	return "", true
}
