package kafka

import (
	"context"
)

// AdminClient defines the interface for the whitelisted cluster admin
// operations. It exists so the execution engine and tests can substitute
// mock implementations.
type AdminClient interface {
	// ListTopics retrieves a sorted list of topic names from the cluster.
	ListTopics(ctx context.Context) ([]string, error)

	// DescribeTopic retrieves partition metadata for a specific topic.
	DescribeTopic(ctx context.Context, topicName string) (*TopicMetadata, error)

	// DescribeTopicConfigs retrieves configuration entries for a topic.
	DescribeTopicConfigs(ctx context.Context, topicName string) (*TopicConfigs, error)

	// CreateTopic creates a topic with the given partitions and retention.
	CreateTopic(ctx context.Context, topicName string, partitions int32, retentionMs int64) (*CreateTopicResult, error)

	// ClusterMetadata takes a fresh read-only snapshot of the cluster.
	ClusterMetadata(ctx context.Context) (*ClusterMetadata, error)

	// Close gracefully shuts down the client.
	Close()
}

// Ensure Client implements AdminClient
var _ AdminClient = (*Client)(nil)
