package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	KafkaBrokers  []string // List of Kafka broker addresses
	KafkaClientID string   // Kafka client ID
	MCPTransport  string   // MCP transport method ("stdio" or "http")

	// SASL Configuration
	SASLMechanism string // "plain", "scram-sha-256", "scram-sha-512", or "" (disabled)
	SASLUser      string
	SASLPassword  string

	// TLS Configuration
	TLSEnable             bool // Whether to enable TLS
	TLSInsecureSkipVerify bool // Whether to skip TLS certificate verification (use with caution!)

	// HTTP Server Configuration
	HTTPPort int // HTTP server port (default: 8080)

	// OAuth Configuration
	OAuthEnabled   bool
	OAuthMode      string // "native" or "proxy"
	OAuthProvider  string // "hmac", "okta", "google", "azure"
	OAuthServerURL string // Base URL for the MCP server

	// OIDC Configuration
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCAudience     string

	// Proxy Mode Configuration
	OAuthRedirectURIs string // Comma-separated redirect URIs
	JWTSecret         string // Will be converted to []byte for oauth library

	// LLM collaborator (OpenAI-compatible chat completions API)
	OpenAIAPIKey  string
	OpenAIBaseURL string // override for Azure OpenAI, Ollama, etc.
	OpenAIModel   string
	OpenAITimeout time.Duration

	// Command validation bounds
	MaxPartitions int           // upper bound for create-topic partition counts
	MinRetention  time.Duration // lower bound for create-topic retention
	MaxRetention  time.Duration // upper bound for create-topic retention

	// Execution engine
	AdminTimeout      time.Duration // per-attempt timeout for cluster admin calls
	AdminMaxAttempts  int           // total attempts including the first
	RetryInitialDelay time.Duration
	RetryMaxDelay     time.Duration

	// Per-sender rate limit for LLM translation calls (per minute)
	NLPRateLimit int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() Config {
	brokers := getEnv("KAFKA_BROKERS", "localhost:9092")
	clientID := getEnv("KAFKA_CLIENT_ID", "kafka-insight-agent")
	mcpTransport := getEnv("MCP_TRANSPORT", "stdio")

	// SASL Env Vars
	saslMechanism := strings.ToLower(getEnv("KAFKA_SASL_MECHANISM", ""))
	saslUser := getEnv("KAFKA_SASL_USER", "")
	saslPassword := getEnv("KAFKA_SASL_PASSWORD", "")

	// TLS Env Vars
	tlsEnable, _ := strconv.ParseBool(getEnv("KAFKA_TLS_ENABLE", "false"))
	tlsInsecureSkipVerify, _ := strconv.ParseBool(getEnv("KAFKA_TLS_INSECURE_SKIP_VERIFY", "false"))

	return Config{
		KafkaBrokers:  strings.Split(brokers, ","),
		KafkaClientID: clientID,
		MCPTransport:  mcpTransport,

		SASLMechanism: saslMechanism,
		SASLUser:      saslUser,
		SASLPassword:  saslPassword,

		TLSEnable:             tlsEnable,
		TLSInsecureSkipVerify: tlsInsecureSkipVerify,

		HTTPPort: getEnvInt("MCP_HTTP_PORT", 8080),

		OAuthEnabled:   getEnvBool("OAUTH_ENABLED", false),
		OAuthMode:      getEnv("OAUTH_MODE", "native"),
		OAuthProvider:  getEnv("OAUTH_PROVIDER", "okta"),
		OAuthServerURL: getEnv("OAUTH_SERVER_URL", ""),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCAudience:     getEnv("OIDC_AUDIENCE", ""),

		OAuthRedirectURIs: getEnv("OAUTH_REDIRECT_URIS", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", ""),
		OpenAITimeout: getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),

		MaxPartitions: getEnvInt("AGENT_MAX_PARTITIONS", 100),
		MinRetention:  getEnvDuration("AGENT_MIN_RETENTION", time.Minute),
		MaxRetention:  getEnvDuration("AGENT_MAX_RETENTION", 365*24*time.Hour),

		AdminTimeout:      getEnvDuration("ADMIN_TIMEOUT", 10*time.Second),
		AdminMaxAttempts:  getEnvInt("ADMIN_MAX_ATTEMPTS", 3),
		RetryInitialDelay: getEnvDuration("ADMIN_RETRY_INITIAL_DELAY", 500*time.Millisecond),
		RetryMaxDelay:     getEnvDuration("ADMIN_RETRY_MAX_DELAY", 5*time.Second),

		NLPRateLimit: getEnvInt("NLP_RATE_LIMIT", 20),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable, warning and falling
// back to the default on parse failure.
func getEnvInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("Invalid integer environment value, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return v
}

// getEnvBool retrieves a boolean environment variable, warning and falling
// back to the default on parse failure.
func getEnvBool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("Invalid boolean environment value, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return v
}

// getEnvDuration retrieves a duration environment variable (Go duration
// syntax, e.g. "30s", "24h"), warning and falling back on parse failure.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("Invalid duration environment value, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return v
}
