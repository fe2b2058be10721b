// Package command defines the constrained command representation produced
// by the intent parser and the whitelist validator that gates execution.
package command

import "time"

// Kind enumerates the only administrative actions the agent will ever
// perform. Anything else the LLM proposes is rejected before execution.
type Kind string

const (
	KindListTopics     Kind = "list_topics"
	KindCreateTopic    Kind = "create_topic"
	KindDescribeTopic  Kind = "describe_topic"
	KindExplainConcept Kind = "explain_concept"
)

// Command is a tagged variant over the four allowed operations. Exactly one
// of the parameter fields matching Kind is populated.
type Command struct {
	Kind Kind

	CreateTopic   *CreateTopicParams
	DescribeTopic *DescribeTopicParams
	Explain       *ExplainParams
}

// CreateTopicParams carries the parameters of a create-topic request.
type CreateTopicParams struct {
	Name       string
	Partitions int32
	Retention  time.Duration
}

// DescribeTopicParams carries the parameters of a describe-topic request.
type DescribeTopicParams struct {
	Name string
}

// ExplainParams carries a conceptual question plus the answer the language
// model composed for it. The answer is treated as display text only; it is
// never interpreted or executed.
type ExplainParams struct {
	Concept string
	Answer  string
}

// Topic returns the topic name the command operates on, or "" for commands
// without a topic scope.
func (c Command) Topic() string {
	switch c.Kind {
	case KindCreateTopic:
		if c.CreateTopic != nil {
			return c.CreateTopic.Name
		}
	case KindDescribeTopic:
		if c.DescribeTopic != nil {
			return c.DescribeTopic.Name
		}
	}
	return ""
}
