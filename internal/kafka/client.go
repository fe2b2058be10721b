// Package kafka provides the administrative Kafka client for the agent.
//
// Only the whitelisted control-plane operations are implemented: list
// topics, describe a topic, describe topic configuration, and create a
// topic. No data-plane produce/consume path and no destructive admin
// operations exist in this package.
package kafka

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
	"github.com/twmb/franz-go/pkg/sasl"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"github.com/twmb/franz-go/pkg/sasl/scram"

	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/config"
)

// Client wraps the franz-go Kafka client for admin operations.
type Client struct {
	kgoClient *kgo.Client
}

// NewClient creates and initializes a new Kafka client based on the provided configuration.
func NewClient(cfg config.Config) (*Client, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.KafkaBrokers...),
		kgo.ClientID(cfg.KafkaClientID),
		kgo.WithLogger(kgo.BasicLogger(os.Stderr, kgo.LogLevelInfo, nil)),
	}

	// --- TLS Configuration ---
	if cfg.TLSEnable {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: cfg.TLSInsecureSkipVerify,
		}
		opts = append(opts, kgo.DialTLSConfig(tlsConfig))
		slog.Info("TLS enabled for Kafka client", "insecureSkipVerify", cfg.TLSInsecureSkipVerify)
	}

	// --- SASL Configuration ---
	var saslMethod sasl.Mechanism
	switch cfg.SASLMechanism {
	case "plain":
		if cfg.SASLUser == "" || cfg.SASLPassword == "" {
			return nil, fmt.Errorf("SASL PLAIN requires KAFKA_SASL_USER and KAFKA_SASL_PASSWORD")
		}
		saslMethod = plain.Auth{
			User: cfg.SASLUser,
			Pass: cfg.SASLPassword,
		}.AsMechanism()
		slog.Info("SASL PLAIN mechanism configured")
	case "scram-sha-256", "scram-sha-512":
		if cfg.SASLUser == "" || cfg.SASLPassword == "" {
			return nil, fmt.Errorf("SASL SCRAM requires KAFKA_SASL_USER and KAFKA_SASL_PASSWORD")
		}
		auth := scram.Auth{
			User: cfg.SASLUser,
			Pass: cfg.SASLPassword,
		}
		if cfg.SASLMechanism == "scram-sha-256" {
			saslMethod = auth.AsSha256Mechanism()
		} else {
			saslMethod = auth.AsSha512Mechanism()
		}
		slog.Info("SASL SCRAM mechanism configured", "type", cfg.SASLMechanism)
	case "":
		slog.Info("SASL disabled")
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
	}

	if saslMethod != nil {
		opts = append(opts, kgo.SASL(saslMethod))
	}

	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka client: %w", err)
	}

	// Test connectivity on startup so configuration errors surface early.
	if err := cl.Ping(context.Background()); err != nil {
		cl.Close()
		return nil, fmt.Errorf("failed to ping Kafka brokers: %w", err)
	}
	slog.Info("Successfully pinged Kafka brokers")

	return &Client{kgoClient: cl}, nil
}

// ListTopics retrieves a sorted list of topic names from the Kafka cluster.
func (c *Client) ListTopics(ctx context.Context) ([]string, error) {
	req := kmsg.NewMetadataRequest()
	req.Topics = nil // all topics

	shardedResp := c.kgoClient.RequestSharded(ctx, &req)

	topicSet := make(map[string]struct{})
	for _, shard := range shardedResp {
		if shard.Err != nil {
			return nil, fmt.Errorf("%w: metadata request failed for broker %d: %v", ErrUnreachable, shard.Meta.NodeID, shard.Err)
		}
		resp, ok := shard.Resp.(*kmsg.MetadataResponse)
		if !ok {
			return nil, fmt.Errorf("unexpected response type for metadata request from broker %d", shard.Meta.NodeID)
		}
		for _, topic := range resp.Topics {
			if topic.ErrorCode != 0 {
				topicName := "unknown"
				if topic.Topic != nil {
					topicName = *topic.Topic
				}
				slog.WarnContext(ctx, "Error fetching metadata for topic", "topic", topicName, "broker", shard.Meta.NodeID, "error_code", topic.ErrorCode)
				continue
			}
			if topic.Topic != nil && !topic.IsInternal {
				topicSet[*topic.Topic] = struct{}{}
			}
		}
	}

	topics := make([]string, 0, len(topicSet))
	for topic := range topicSet {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	return topics, nil
}

// DescribeTopic retrieves partition metadata for a single topic.
// Returns ErrTopicNotFound when the cluster does not know the topic.
func (c *Client) DescribeTopic(ctx context.Context, topicName string) (*TopicMetadata, error) {
	req := kmsg.NewMetadataRequest()
	reqTopic := kmsg.NewMetadataRequestTopic()
	reqTopic.Topic = kmsg.StringPtr(topicName)
	req.Topics = append(req.Topics, reqTopic)

	resp, err := req.RequestWith(ctx, c.kgoClient)
	if err != nil {
		return nil, fmt.Errorf("metadata request for topic %q: %w", topicName, err)
	}

	if len(resp.Topics) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, topicName)
	}
	topic := resp.Topics[0]
	if err := kerrToTyped(topic.ErrorCode); err != nil {
		return nil, fmt.Errorf("describe topic %q: %w", topicName, err)
	}

	meta := &TopicMetadata{
		Name:     topicName,
		Internal: topic.IsInternal,
	}
	for _, p := range topic.Partitions {
		meta.Partitions = append(meta.Partitions, PartitionMetadata{
			PartitionID: p.Partition,
			Leader:      p.Leader,
			Replicas:    p.Replicas,
			ISR:         p.ISR,
		})
	}
	sort.Slice(meta.Partitions, func(i, j int) bool {
		return meta.Partitions[i].PartitionID < meta.Partitions[j].PartitionID
	})

	return meta, nil
}

// DescribeTopicConfigs fetches the configuration entries of a topic
// (retention.ms among them). Returns ErrTopicNotFound for unknown topics.
func (c *Client) DescribeTopicConfigs(ctx context.Context, topicName string) (*TopicConfigs, error) {
	req := kmsg.NewDescribeConfigsRequest()
	res := kmsg.NewDescribeConfigsRequestResource()
	res.ResourceType = kmsg.ConfigResourceTypeTopic
	res.ResourceName = topicName
	res.ConfigNames = nil // all configs
	req.Resources = append(req.Resources, res)

	resp, err := req.RequestWith(ctx, c.kgoClient)
	if err != nil {
		return nil, fmt.Errorf("describe configs request for topic %q: %w", topicName, err)
	}
	if len(resp.Resources) == 0 {
		return nil, fmt.Errorf("describe configs for topic %q: empty response", topicName)
	}

	resource := resp.Resources[0]
	if err := kerrToTyped(resource.ErrorCode); err != nil {
		return nil, fmt.Errorf("describe configs for topic %q: %w", topicName, err)
	}

	configs := &TopicConfigs{Topic: topicName}
	for _, entry := range resource.Configs {
		configs.Entries = append(configs.Entries, ConfigEntry{
			Name:      entry.Name,
			Value:     entry.Value,
			IsDefault: entry.IsDefault,
			ReadOnly:  entry.ReadOnly,
			Sensitive: entry.IsSensitive,
		})
	}
	sort.Slice(configs.Entries, func(i, j int) bool {
		return configs.Entries[i].Name < configs.Entries[j].Name
	})

	return configs, nil
}

// CreateTopic creates a topic with the given partition count and retention.
// replicationFactor -1 uses the broker default. Returns ErrTopicExists when
// the topic is already present.
func (c *Client) CreateTopic(ctx context.Context, topicName string, partitions int32, retentionMs int64) (*CreateTopicResult, error) {
	req := kmsg.NewCreateTopicsRequest()

	topic := kmsg.NewCreateTopicsRequestTopic()
	topic.Topic = topicName
	topic.NumPartitions = partitions
	topic.ReplicationFactor = -1 // broker default

	retentionConfig := kmsg.NewCreateTopicsRequestTopicConfig()
	retentionConfig.Name = "retention.ms"
	retentionConfig.Value = kmsg.StringPtr(strconv.FormatInt(retentionMs, 10))
	topic.Configs = append(topic.Configs, retentionConfig)

	req.Topics = append(req.Topics, topic)

	resp, err := req.RequestWith(ctx, c.kgoClient)
	if err != nil {
		return nil, fmt.Errorf("create topics request for %q: %w", topicName, err)
	}
	if len(resp.Topics) == 0 {
		return nil, fmt.Errorf("create topic %q: empty response", topicName)
	}

	result := resp.Topics[0]
	if err := kerrToTyped(result.ErrorCode); err != nil {
		return nil, fmt.Errorf("create topic %q: %w", topicName, err)
	}

	slog.InfoContext(ctx, "Topic created", "topic", topicName, "partitions", partitions, "retention_ms", retentionMs)

	return &CreateTopicResult{
		Topic:             topicName,
		Partitions:        partitions,
		ReplicationFactor: -1,
		RetentionMs:       retentionMs,
	}, nil
}

// ClusterMetadata takes a fresh read-only snapshot of brokers, controller,
// and topic names. Callers refresh it per request; nothing is cached here.
func (c *Client) ClusterMetadata(ctx context.Context) (*ClusterMetadata, error) {
	req := kmsg.NewMetadataRequest()
	req.Topics = nil

	resp, err := req.RequestWith(ctx, c.kgoClient)
	if err != nil {
		return nil, fmt.Errorf("%w: cluster metadata request: %v", ErrUnreachable, err)
	}

	meta := &ClusterMetadata{ControllerID: resp.ControllerID}
	for _, b := range resp.Brokers {
		meta.Brokers = append(meta.Brokers, BrokerInfo{
			NodeID: b.NodeID,
			Host:   b.Host,
			Port:   b.Port,
		})
	}
	for _, t := range resp.Topics {
		if t.Topic != nil && t.ErrorCode == 0 && !t.IsInternal {
			meta.Topics = append(meta.Topics, *t.Topic)
		}
	}
	sort.Strings(meta.Topics)
	sort.Slice(meta.Brokers, func(i, j int) bool { return meta.Brokers[i].NodeID < meta.Brokers[j].NodeID })

	return meta, nil
}

// Close gracefully shuts down the Kafka client.
func (c *Client) Close() {
	if c.kgoClient != nil {
		c.kgoClient.Close()
	}
}
