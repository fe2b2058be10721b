package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/command"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/engine"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/kafka"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/nlp"
)

// fakeCluster is an in-memory AdminClient holding topics with retention.
type fakeCluster struct {
	mu          sync.Mutex
	topics      map[string]*fakeTopic
	createCalls int
}

type fakeTopic struct {
	partitions  int32
	retentionMs int64
}

func newFakeCluster(topics ...string) *fakeCluster {
	fc := &fakeCluster{topics: make(map[string]*fakeTopic)}
	for _, t := range topics {
		fc.topics[t] = &fakeTopic{partitions: 1, retentionMs: 604800000}
	}
	return fc
}

func (f *fakeCluster) ListTopics(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.topics))
	for name := range f.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeCluster) DescribeTopic(ctx context.Context, topicName string) (*kafka.TopicMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	topic, ok := f.topics[topicName]
	if !ok {
		return nil, kafka.ErrTopicNotFound
	}
	meta := &kafka.TopicMetadata{Name: topicName}
	for i := int32(0); i < topic.partitions; i++ {
		meta.Partitions = append(meta.Partitions, kafka.PartitionMetadata{
			PartitionID: i, Leader: 1, Replicas: []int32{1}, ISR: []int32{1},
		})
	}
	return meta, nil
}

func (f *fakeCluster) DescribeTopicConfigs(ctx context.Context, topicName string) (*kafka.TopicConfigs, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	topic, ok := f.topics[topicName]
	if !ok {
		return nil, kafka.ErrTopicNotFound
	}
	value := fmt.Sprintf("%d", topic.retentionMs)
	return &kafka.TopicConfigs{
		Topic:   topicName,
		Entries: []kafka.ConfigEntry{{Name: "retention.ms", Value: &value}},
	}, nil
}

func (f *fakeCluster) CreateTopic(ctx context.Context, topicName string, partitions int32, retentionMs int64) (*kafka.CreateTopicResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if _, ok := f.topics[topicName]; ok {
		return nil, kafka.ErrTopicExists
	}
	f.topics[topicName] = &fakeTopic{partitions: partitions, retentionMs: retentionMs}
	return &kafka.CreateTopicResult{
		Topic: topicName, Partitions: partitions, RetentionMs: retentionMs,
	}, nil
}

func (f *fakeCluster) ClusterMetadata(ctx context.Context) (*kafka.ClusterMetadata, error) {
	names, _ := f.ListTopics(ctx)
	return &kafka.ClusterMetadata{ControllerID: 1, Topics: names}, nil
}

func (f *fakeCluster) Close() {}

// scriptedProvider returns translations keyed by prompt.
type scriptedProvider struct {
	byPrompt map[string]*nlp.Translation
	lastReq  nlp.TranslateRequest
}

func (s *scriptedProvider) Translate(ctx context.Context, req nlp.TranslateRequest) (*nlp.Translation, error) {
	s.lastReq = req
	if t, ok := s.byPrompt[req.Prompt]; ok {
		return t, nil
	}
	return &nlp.Translation{Intent: nlp.IntentUnknown, Answer: "I don't understand the request."}, nil
}

func newTestAgent(cluster *fakeCluster, provider nlp.Provider) *Agent {
	eng := engine.New(cluster, time.Second, engine.RetryConfig{
		MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond,
	})
	return New(nlp.NewParser(provider), eng, cluster, command.DefaultBounds, nil)
}

func TestAsk_ListTopics(t *testing.T) {
	cluster := newFakeCluster("orders", "payments")
	provider := &scriptedProvider{byPrompt: map[string]*nlp.Translation{
		"what topics exist?": {Intent: nlp.IntentListTopics},
	}}
	a := newTestAgent(cluster, provider)

	reply := a.Ask(context.Background(), "alice", "what topics exist?")
	assert.Contains(t, reply, "2 topic(s)")
	assert.Contains(t, reply, "orders")
	assert.Contains(t, reply, "payments")
}

func TestAsk_UnsupportedRequestIsRefused(t *testing.T) {
	cluster := newFakeCluster("orders")
	provider := &scriptedProvider{byPrompt: map[string]*nlp.Translation{}}
	a := newTestAgent(cluster, provider)

	before := len(cluster.topics)
	reply := a.Ask(context.Background(), "alice", "delete all topics right now")
	assert.Contains(t, reply, "I can only list topics, describe a topic, create a topic")
	assert.Equal(t, before, len(cluster.topics), "refused requests must not change the cluster")
}

func TestAsk_OutOfBoundsPartitionsRejectedBeforeCluster(t *testing.T) {
	cluster := newFakeCluster()
	provider := &scriptedProvider{byPrompt: map[string]*nlp.Translation{
		"create huge topic": {
			Intent: nlp.IntentCreateTopic, Topic: "huge",
			Partitions: 500, Retention: "1 day",
		},
	}}
	a := newTestAgent(cluster, provider)

	reply := a.Ask(context.Background(), "alice", "create huge topic")
	assert.Contains(t, reply, "out of bounds")
	assert.Zero(t, cluster.createCalls, "a rejected command must never reach the cluster")
}

func TestAsk_OutOfBoundsRetentionRejected(t *testing.T) {
	cluster := newFakeCluster()
	provider := &scriptedProvider{byPrompt: map[string]*nlp.Translation{
		"create brief topic": {
			Intent: nlp.IntentCreateTopic, Topic: "brief",
			Partitions: 1, Retention: "10 seconds",
		},
	}}
	a := newTestAgent(cluster, provider)

	reply := a.Ask(context.Background(), "alice", "create brief topic")
	assert.Contains(t, reply, "out of bounds")
	assert.Zero(t, cluster.createCalls)
}

func TestAsk_CreateThenDescribeRendersRetention(t *testing.T) {
	cluster := newFakeCluster()
	provider := &scriptedProvider{byPrompt: map[string]*nlp.Translation{
		"create test-topic with one day retention": {
			Intent: nlp.IntentCreateTopic, Topic: "test-topic",
			Partitions: 1, Retention: "one day",
		},
		"describe test-topic": {Intent: nlp.IntentDescribeTopic, Topic: "test-topic"},
	}}
	a := newTestAgent(cluster, provider)

	reply := a.Ask(context.Background(), "alice", "create test-topic with one day retention")
	assert.Contains(t, reply, `Created topic "test-topic"`)
	assert.Contains(t, reply, "1.00 days (24.00 hours)")

	reply = a.Ask(context.Background(), "alice", "describe test-topic")
	assert.Contains(t, reply, "Retention for test-topic: 1.00 days (24.00 hours)")
}

func TestAsk_DescribeIsIdempotent(t *testing.T) {
	cluster := newFakeCluster("orders")
	provider := &scriptedProvider{byPrompt: map[string]*nlp.Translation{
		"describe orders": {Intent: nlp.IntentDescribeTopic, Topic: "orders"},
	}}
	a := newTestAgent(cluster, provider)

	first := a.Ask(context.Background(), "alice", "describe orders")
	second := a.Ask(context.Background(), "alice", "describe orders")
	assert.Equal(t, first, second)
}

func TestAsk_DuplicateCreateLeavesClusterUnchanged(t *testing.T) {
	cluster := newFakeCluster("orders")
	provider := &scriptedProvider{byPrompt: map[string]*nlp.Translation{
		"create orders": {
			Intent: nlp.IntentCreateTopic, Topic: "orders",
			Partitions: 3, Retention: "1 day",
		},
	}}
	a := newTestAgent(cluster, provider)

	reply := a.Ask(context.Background(), "alice", "create orders")
	assert.Contains(t, reply, "already exists")
	assert.Equal(t, int32(1), cluster.topics["orders"].partitions, "existing topic must not be altered")
}

func TestAsk_RememberedTopicFlowsToFollowUp(t *testing.T) {
	cluster := newFakeCluster("orders")
	provider := &scriptedProvider{byPrompt: map[string]*nlp.Translation{
		"describe orders":     {Intent: nlp.IntentDescribeTopic, Topic: "orders"},
		"describe that again": {Intent: nlp.IntentDescribeTopic},
	}}
	a := newTestAgent(cluster, provider)

	a.Ask(context.Background(), "alice", "describe orders")
	reply := a.Ask(context.Background(), "alice", "describe that again")
	assert.Contains(t, reply, `Topic "orders"`)
	assert.Equal(t, "orders", provider.lastReq.RememberedTopic)
}

func TestAsk_RateLimitedSenderGetsStandardMessage(t *testing.T) {
	cluster := newFakeCluster("orders")
	provider := &scriptedProvider{byPrompt: map[string]*nlp.Translation{
		"what topics exist?": {Intent: nlp.IntentListTopics},
	}}
	eng := engine.New(cluster, time.Second, engine.RetryConfig{MaxAttempts: 1})
	a := New(nlp.NewParser(provider), eng, cluster, command.DefaultBounds, nlp.NewRateLimiter(1, time.Minute))

	first := a.Ask(context.Background(), "alice", "what topics exist?")
	assert.Contains(t, first, "topic(s)")

	second := a.Ask(context.Background(), "alice", "what topics exist?")
	assert.Contains(t, second, "too many requests")
}

func TestAsk_ExplainAnswersWithoutClusterWrite(t *testing.T) {
	cluster := newFakeCluster()
	provider := &scriptedProvider{byPrompt: map[string]*nlp.Translation{
		"what is a consumer group?": {
			Intent:  nlp.IntentExplain,
			Concept: "consumer group",
			Answer:  "A consumer group shares partition consumption across members.",
		},
	}}
	a := newTestAgent(cluster, provider)

	reply := a.Ask(context.Background(), "alice", "what is a consumer group?")
	assert.Equal(t, "A consumer group shares partition consumption across members.", reply)
	assert.Zero(t, cluster.createCalls)
}

func TestAsk_KnownTopicsPassedToProvider(t *testing.T) {
	cluster := newFakeCluster("orders", "payments")
	provider := &scriptedProvider{byPrompt: map[string]*nlp.Translation{
		"what topics exist?": {Intent: nlp.IntentListTopics},
	}}
	a := newTestAgent(cluster, provider)

	a.Ask(context.Background(), "alice", "what topics exist?")
	assert.Equal(t, []string{"orders", "payments"}, provider.lastReq.KnownTopics)
}

func TestRun_StructuredCreateSharesValidation(t *testing.T) {
	cluster := newFakeCluster()
	a := newTestAgent(cluster, &scriptedProvider{})

	reply := a.Run(context.Background(), command.Command{
		Kind: command.KindCreateTopic,
		CreateTopic: &command.CreateTopicParams{
			Name: "events", Partitions: 500, Retention: 24 * time.Hour,
		},
	})
	assert.Contains(t, reply, "out of bounds")
	assert.Zero(t, cluster.createCalls)

	reply = a.Run(context.Background(), command.Command{
		Kind: command.KindCreateTopic,
		CreateTopic: &command.CreateTopicParams{
			Name: "events", Partitions: 3, Retention: 24 * time.Hour,
		},
	})
	require.Contains(t, reply, `Created topic "events"`)
	assert.Equal(t, 1, cluster.createCalls)
}
