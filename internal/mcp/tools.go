package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	mcpServer "github.com/mark3labs/mcp-go/server"

	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/agent"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/command"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/kafka"
	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/nlp"
)

// RegisterTools defines and registers MCP tools with the server.
//
// ask_kafka is the primary text-in/text-out interface; the remaining tools
// expose the whitelisted admin operations directly for clients that prefer
// structured calls over free text.
func RegisterTools(s *mcpServer.MCPServer, insightAgent *agent.Agent, kafkaClient kafka.AdminClient) {
	// --- ask_kafka tool definition and handler ---
	askTool := mcp.NewTool("ask_kafka",
		mcp.WithDescription("Ask a free-text question about the Kafka cluster, or ask to list, describe, or create a topic. Replies in natural language."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("The question or request, in plain English.")),
		mcp.WithString("sender", mcp.Description("Optional sender identifier used for rate limiting.")),
	)

	s.AddTool(askTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		prompt, _ := args["prompt"].(string)
		sender, _ := args["sender"].(string)
		if prompt == "" {
			return mcp.NewToolResultError("Missing required parameter: prompt (string)"), nil
		}
		if sender == "" {
			sender = "anonymous"
		}

		slog.InfoContext(ctx, "Executing ask_kafka tool", "sender", sender)

		answer := insightAgent.Ask(ctx, sender, prompt)
		return mcp.NewToolResultText(answer), nil
	})

	// --- list_topics tool definition and handler ---
	listTopicsTool := mcp.NewTool("list_topics",
		mcp.WithDescription("Lists the topics on the Kafka cluster."),
	)

	s.AddTool(listTopicsTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		slog.InfoContext(ctx, "Executing list_topics tool")

		topics, err := kafkaClient.ListTopics(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list topics", "error", err)
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list topics: %v", err)), nil
		}

		jsonData, marshalErr := json.Marshal(topics)
		if marshalErr != nil {
			slog.ErrorContext(ctx, "Failed to marshal topic list to JSON", "error", marshalErr)
			return mcp.NewToolResultError("Internal server error: failed to marshal results"), nil
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	})

	// --- describe_topic tool definition and handler ---
	describeTopicTool := mcp.NewTool("describe_topic",
		mcp.WithDescription("Provides partition metadata and configuration for a specific Kafka topic, including leaders, replicas, ISRs, and retention."),
		mcp.WithString("topic_name", mcp.Required(), mcp.Description("The name of the topic to describe.")),
	)

	s.AddTool(describeTopicTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		topicName, ok := req.GetArguments()["topic_name"].(string)
		if !ok || topicName == "" {
			return mcp.NewToolResultError("Missing or invalid required parameter: topic_name (string)"), nil
		}

		slog.InfoContext(ctx, "Executing describe_topic tool", "topic", topicName)

		metadata, err := kafkaClient.DescribeTopic(ctx, topicName)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to describe topic", "topic", topicName, "error", err)
			return mcp.NewToolResultError(fmt.Sprintf("Failed to describe topic '%s': %v", topicName, err)), nil
		}

		configs, err := kafkaClient.DescribeTopicConfigs(ctx, topicName)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to describe topic configs", "topic", topicName, "error", err)
			return mcp.NewToolResultError(fmt.Sprintf("Failed to describe configs for topic '%s': %v", topicName, err)), nil
		}

		jsonData, marshalErr := json.MarshalIndent(map[string]any{
			"metadata": metadata,
			"configs":  configs,
		}, "", "  ")
		if marshalErr != nil {
			slog.ErrorContext(ctx, "Failed to marshal topic details to JSON", "topic", topicName, "error", marshalErr)
			return mcp.NewToolResultError("Internal server error: failed to marshal results"), nil
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	})

	// --- create_topic tool definition and handler ---
	createTopicTool := mcp.NewTool("create_topic",
		mcp.WithDescription("Creates a Kafka topic with the given partition count and retention. Goes through the same validation as free-text requests."),
		mcp.WithString("topic_name", mcp.Required(), mcp.Description("The name of the topic to create.")),
		mcp.WithNumber("partitions", mcp.Description("Partition count (default 1).")),
		mcp.WithString("retention", mcp.Required(), mcp.Description("Retention duration, e.g. \"24h\", \"7 days\".")),
	)

	s.AddTool(createTopicTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		topicName, ok := args["topic_name"].(string)
		if !ok || topicName == "" {
			return mcp.NewToolResultError("Missing or invalid required parameter: topic_name (string)"), nil
		}
		retention, ok := args["retention"].(string)
		if !ok || retention == "" {
			return mcp.NewToolResultError("Missing or invalid required parameter: retention (string)"), nil
		}

		partitions := int64(1)
		if raw, exists := args["partitions"]; exists {
			v, ok := raw.(float64)
			// Reject anything outside the int32 range before conversion so an
			// oversized count cannot wrap into one the validator accepts.
			if !ok || v != math.Trunc(v) || v < 0 || v > math.MaxInt32 {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid partitions value: %v", raw)), nil
			}
			partitions = int64(v)
		}

		retentionDur, err := nlp.ParseDurationPhrase(retention)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid retention %q: %v", retention, err)), nil
		}

		slog.InfoContext(ctx, "Executing create_topic tool", "topic", topicName, "partitions", partitions, "retention", retention)

		// Route through the agent pipeline so the whitelist validator,
		// bounds, and retry behavior apply exactly as for free-text requests.
		answer := insightAgent.Run(ctx, command.Command{
			Kind: command.KindCreateTopic,
			CreateTopic: &command.CreateTopicParams{
				Name:       topicName,
				Partitions: int32(partitions),
				Retention:  retentionDur,
			},
		})
		return mcp.NewToolResultText(answer), nil
	})
}
