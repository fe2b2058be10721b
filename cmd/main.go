package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/agent"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/command"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/config"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/engine"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/kafka"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/mcp"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/nlp"
)

// Version is set during build via -X ldflags
var Version = "dev"

func main() {
	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	// Load .env in development; missing file is fine.
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	// Initialize Kafka admin client
	kafkaClient, err := kafka.NewClient(cfg)
	if err != nil {
		slog.Error("Failed to create Kafka client", "error", err)
		os.Exit(1)
	}
	defer kafkaClient.Close()

	// Intent parser over the OpenAI-compatible collaborator
	provider := nlp.NewOpenAI(nlp.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.OpenAITimeout,
	})
	parser := nlp.NewParser(provider)

	// Execution engine with bounded retry
	eng := engine.New(kafkaClient, cfg.AdminTimeout, engine.RetryConfig{
		MaxAttempts:  cfg.AdminMaxAttempts,
		InitialDelay: cfg.RetryInitialDelay,
		MaxDelay:     cfg.RetryMaxDelay,
		ShouldRetry:  kafka.IsRetryable,
	})

	bounds := command.Bounds{
		MaxPartitions:   int32(cfg.MaxPartitions),
		MinRetention:    cfg.MinRetention,
		MaxRetention:    cfg.MaxRetention,
		MaxTopicNameLen: command.DefaultBounds.MaxTopicNameLen,
	}
	limiter := nlp.NewRateLimiter(cfg.NLPRateLimit, 0)

	insightAgent := agent.New(parser, eng, kafkaClient, bounds, limiter)

	// Create HTTP mux and OAuth option if using HTTP transport
	var mux *http.ServeMux
	var oauthOption server.ServerOption
	if cfg.MCPTransport == "http" {
		mux = http.NewServeMux()
		var oauthErr error
		oauthOption, _, oauthErr = mcp.CreateOAuthOption(cfg, mux)
		if oauthErr != nil {
			slog.Error("Failed to create OAuth option", "error", oauthErr)
			os.Exit(1)
		}
	}

	var s *server.MCPServer
	if oauthOption != nil {
		s = mcp.NewMCPServer("kafka-insight-poc", Version, oauthOption)
	} else {
		s = mcp.NewMCPServer("kafka-insight-poc", Version)
	}

	// Register MCP resources and tools
	mcp.RegisterResources(s, kafkaClient)
	mcp.RegisterTools(s, insightAgent, kafkaClient)

	slog.Info("Starting Kafka insight agent", "version", Version, "transport", cfg.MCPTransport, "brokers", cfg.KafkaBrokers)
	if err := mcp.Start(ctx, s, cfg, mux); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	slog.Info("Server shutdown complete")
}
