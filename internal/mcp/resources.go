package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/kafka"
)

// ResourceContentsFunc returns the contents of a resource.
type ResourceContentsFunc func(ctx context.Context, uri string) ([]byte, error)

// resourceHandlerFuncWrapper adapts a ResourceContentsFunc to the
// server.ResourceHandlerFunc signature.
func resourceHandlerFuncWrapper(contentsFunc ResourceContentsFunc) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := contentsFunc(ctx, req.Params.URI)
		if err != nil {
			return nil, err
		}

		textContent := mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}
		return []mcp.ResourceContents{textContent}, nil
	}
}

// RegisterResources registers MCP resources with the server.
func RegisterResources(s *server.MCPServer, kafkaClient kafka.AdminClient) {
	s.AddResource(mcp.Resource{
		URI:         "kafka-insight://overview",
		Name:        "Kafka Cluster Overview",
		Description: "A fresh snapshot of cluster metadata: brokers, controller, and topic names. Refreshed on every read; nothing is cached.",
		MIMEType:    "application/json",
	}, resourceHandlerFuncWrapper(clusterOverviewResource(kafkaClient)))
}

// clusterOverviewResource returns a resource for the cluster metadata snapshot.
func clusterOverviewResource(kafkaClient kafka.AdminClient) ResourceContentsFunc {
	return func(ctx context.Context, uri string) ([]byte, error) {
		slog.InfoContext(ctx, "Fetching cluster overview resource", "uri", uri)

		meta, err := kafkaClient.ClusterMetadata(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get cluster metadata", "error", err)
			return nil, fmt.Errorf("failed to get cluster metadata: %w", err)
		}

		response := map[string]any{
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
			"controller_id": meta.ControllerID,
			"broker_count":  len(meta.Brokers),
			"brokers":       meta.Brokers,
			"topic_count":   len(meta.Topics),
			"topics":        meta.Topics,
		}

		return json.Marshal(response)
	}
}
