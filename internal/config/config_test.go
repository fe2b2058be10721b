package config

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "test-broker1:9092,test-broker2:9092")
	t.Setenv("KAFKA_CLIENT_ID", "test-client")
	t.Setenv("MCP_TRANSPORT", "stdio")
	t.Setenv("KAFKA_SASL_MECHANISM", "plain")
	t.Setenv("KAFKA_SASL_USER", "testuser")
	t.Setenv("KAFKA_SASL_PASSWORD", "testpass")
	t.Setenv("KAFKA_TLS_ENABLE", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("AGENT_MAX_PARTITIONS", "42")
	t.Setenv("AGENT_MAX_RETENTION", "720h")
	t.Setenv("ADMIN_MAX_ATTEMPTS", "5")

	cfg := LoadConfig()

	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "test-broker1:9092" || cfg.KafkaBrokers[1] != "test-broker2:9092" {
		t.Errorf("Expected KafkaBrokers [test-broker1:9092 test-broker2:9092], got %v", cfg.KafkaBrokers)
	}
	if cfg.KafkaClientID != "test-client" {
		t.Errorf("Expected KafkaClientID test-client, got %s", cfg.KafkaClientID)
	}
	if cfg.MCPTransport != "stdio" {
		t.Errorf("Expected MCPTransport stdio, got %s", cfg.MCPTransport)
	}
	if cfg.SASLMechanism != "plain" || cfg.SASLUser != "testuser" || cfg.SASLPassword != "testpass" {
		t.Errorf("Unexpected SASL config: %s/%s/%s", cfg.SASLMechanism, cfg.SASLUser, cfg.SASLPassword)
	}
	if !cfg.TLSEnable {
		t.Error("Expected TLSEnable true")
	}
	if cfg.OpenAIAPIKey != "sk-test" || cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("Unexpected OpenAI config: %s/%s", cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	if cfg.MaxPartitions != 42 {
		t.Errorf("Expected MaxPartitions 42, got %d", cfg.MaxPartitions)
	}
	if cfg.MaxRetention != 720*time.Hour {
		t.Errorf("Expected MaxRetention 720h, got %s", cfg.MaxRetention)
	}
	if cfg.AdminMaxAttempts != 5 {
		t.Errorf("Expected AdminMaxAttempts 5, got %d", cfg.AdminMaxAttempts)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Errorf("Expected default brokers [localhost:9092], got %v", cfg.KafkaBrokers)
	}
	if cfg.MCPTransport != "stdio" {
		t.Errorf("Expected default transport stdio, got %s", cfg.MCPTransport)
	}
	if cfg.MaxPartitions != 100 {
		t.Errorf("Expected default MaxPartitions 100, got %d", cfg.MaxPartitions)
	}
	if cfg.MinRetention != time.Minute {
		t.Errorf("Expected default MinRetention 1m, got %s", cfg.MinRetention)
	}
	if cfg.AdminMaxAttempts != 3 {
		t.Errorf("Expected default AdminMaxAttempts 3, got %d", cfg.AdminMaxAttempts)
	}
	if cfg.NLPRateLimit != 20 {
		t.Errorf("Expected default NLPRateLimit 20, got %d", cfg.NLPRateLimit)
	}
}

func TestLoadConfig_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MCP_HTTP_PORT", "not-a-number")
	t.Setenv("AGENT_MAX_PARTITIONS", "many")
	t.Setenv("ADMIN_TIMEOUT", "soon")

	cfg := LoadConfig()

	if cfg.HTTPPort != 8080 {
		t.Errorf("Expected fallback HTTPPort 8080, got %d", cfg.HTTPPort)
	}
	if cfg.MaxPartitions != 100 {
		t.Errorf("Expected fallback MaxPartitions 100, got %d", cfg.MaxPartitions)
	}
	if cfg.AdminTimeout != 10*time.Second {
		t.Errorf("Expected fallback AdminTimeout 10s, got %s", cfg.AdminTimeout)
	}
}
