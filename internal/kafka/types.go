package kafka

// PartitionMetadata describes a single partition of a topic.
type PartitionMetadata struct {
	PartitionID int32   `json:"partition_id"`
	Leader      int32   `json:"leader"`
	Replicas    []int32 `json:"replicas"`
	ISR         []int32 `json:"isr"`
}

// TopicMetadata describes a topic and its partitions.
type TopicMetadata struct {
	Name       string              `json:"name"`
	Internal   bool                `json:"internal"`
	Partitions []PartitionMetadata `json:"partitions"`
}

// ConfigEntry is a single configuration key/value for a topic.
// Value is nil when the broker reports the entry as unset.
type ConfigEntry struct {
	Name      string  `json:"name"`
	Value     *string `json:"value"`
	IsDefault bool    `json:"is_default"`
	ReadOnly  bool    `json:"read_only"`
	Sensitive bool    `json:"sensitive"`
}

// TopicConfigs holds the configuration entries of one topic.
type TopicConfigs struct {
	Topic   string        `json:"topic"`
	Entries []ConfigEntry `json:"entries"`
}

// RetentionMs returns the retention.ms entry as milliseconds.
// The second return is false when the entry is absent or unparseable.
func (tc *TopicConfigs) RetentionMs() (int64, bool) {
	for _, e := range tc.Entries {
		if e.Name == "retention.ms" && e.Value != nil {
			ms, err := parseInt64(*e.Value)
			if err != nil {
				return 0, false
			}
			return ms, true
		}
	}
	return 0, false
}

// CreateTopicResult confirms a successful topic creation.
type CreateTopicResult struct {
	Topic             string `json:"topic"`
	Partitions        int32  `json:"partitions"`
	ReplicationFactor int16  `json:"replication_factor"`
	RetentionMs       int64  `json:"retention_ms"`
}

// BrokerInfo identifies a broker in the cluster.
type BrokerInfo struct {
	NodeID int32  `json:"node_id"`
	Host   string `json:"host"`
	Port   int32  `json:"port"`
}

// ClusterMetadata is a read-only snapshot of the cluster taken at request
// time. It is refreshed per request; no cross-request caching.
type ClusterMetadata struct {
	ControllerID int32        `json:"controller_id"`
	Brokers      []BrokerInfo `json:"brokers"`
	Topics       []string     `json:"topics"`
}
