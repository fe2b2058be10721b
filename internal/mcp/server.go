// Package mcp exposes the agent over the Model Context Protocol so any
// MCP-capable chat client can act as the UI.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	oauth "github.com/tuannvm/oauth-mcp-proxy"
	"github.com/tuannvm/oauth-mcp-proxy/mark3labs"

	"github.com/AyodhyaDayananda/kafka-insight-poc/internal/config"
)

// NewMCPServer creates a new MCP server instance.
func NewMCPServer(name, version string, opts ...server.ServerOption) *server.MCPServer {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	return server.NewMCPServer(name, version, opts...)
}

// CreateOAuthOption creates the OAuth server option when OAuth is enabled.
// It must be called before creating the MCPServer instance. The mux must be
// a pre-created http.ServeMux where OAuth routes will be registered.
func CreateOAuthOption(cfg config.Config, mux *http.ServeMux) (server.ServerOption, *oauth.Server, error) {
	if !cfg.OAuthEnabled {
		return nil, nil, nil
	}

	if mux == nil {
		return nil, nil, fmt.Errorf("mux is required when OAuth is enabled")
	}

	oauthConfig := &oauth.Config{
		Provider:  cfg.OAuthProvider,
		Mode:      cfg.OAuthMode,
		Issuer:    cfg.OIDCIssuer,
		Audience:  cfg.OIDCAudience,
		ServerURL: cfg.OAuthServerURL,
	}

	if cfg.OAuthProvider == "hmac" {
		oauthConfig.JWTSecret = []byte(cfg.JWTSecret)
	}

	if cfg.OAuthMode == "proxy" {
		oauthConfig.ClientID = cfg.OIDCClientID
		oauthConfig.ClientSecret = cfg.OIDCClientSecret
		oauthConfig.RedirectURIs = cfg.OAuthRedirectURIs
		if cfg.OAuthProvider != "hmac" {
			oauthConfig.JWTSecret = []byte(cfg.JWTSecret)
		}
	}

	oauthServer, oauthOption, err := mark3labs.WithOAuth(mux, oauthConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup OAuth: %w", err)
	}

	slog.Info("OAuth configured",
		"mode", cfg.OAuthMode,
		"provider", cfg.OAuthProvider,
		"issuer", cfg.OIDCIssuer)

	return oauthOption, oauthServer, nil
}

// Start runs the MCP server based on the configured transport.
// For HTTP transport, mux must be provided (can be nil for stdio).
func Start(ctx context.Context, s *server.MCPServer, cfg config.Config, mux *http.ServeMux) error {
	slog.Info("Starting MCP server", "transport", cfg.MCPTransport)

	switch cfg.MCPTransport {
	case "stdio":
		return server.ServeStdio(s)
	case "http":
		return startHTTPServer(ctx, s, cfg, mux)
	default:
		return fmt.Errorf("unsupported MCP transport: %s", cfg.MCPTransport)
	}
}

func startHTTPServer(ctx context.Context, s *server.MCPServer, cfg config.Config, mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("mux is required for HTTP transport")
	}

	// CreateHTTPContextFunc extracts Bearer tokens from the Authorization
	// header so OAuth-protected deployments work out of the box.
	streamable := server.NewStreamableHTTPServer(
		s,
		server.WithHTTPContextFunc(oauth.CreateHTTPContextFunc()),
	)
	mux.Handle("/mcp", streamable)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		slog.Info("HTTP server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}()

	slog.Info("Starting HTTP server",
		"address", addr,
		"oauth_enabled", cfg.OAuthEnabled,
		"mcp_endpoint", "/mcp")

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	return nil
}
