package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultUser is the identity attributed to requests when auth is disabled.
const DefaultUser = "local"

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      UserResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	// DefaultUser overrides DefaultUser when auth is disabled.
	DefaultUser string
	Version     string
	Logger      *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "tally",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	defaultUser := cfg.DefaultUser
	if defaultUser == "" {
		defaultUser = DefaultUser
	}

	// Stdio is a local, single-user transport and never authenticates.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(defaultUser))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Services))

	return server
}
