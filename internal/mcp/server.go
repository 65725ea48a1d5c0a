// ABOUTME: MCP server setup for the vitals dashboard.
// ABOUTME: Wraps the MCP server around a dashboard service and optional sample store.
package mcp

import (
	"context"

	"github.com/harperreed/vitals/internal/dashboard"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// Server wraps the MCP server with dashboard access.
type Server struct {
	mcpServer    *mcp.Server
	svc          *dashboard.Service
	store        storage.Store
	providerName string
	log          zerolog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStore exposes raw samples through list_samples.
func WithStore(store storage.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithProviderName sets the provider kind reported by provider_status.
func WithProviderName(name string) Option {
	return func(s *Server) { s.providerName = name }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log.With().Str("component", "mcp").Logger() }
}

// NewServer creates a new MCP server over the given dashboard service.
func NewServer(svc *dashboard.Service, opts ...Option) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "vitals",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info().Str("provider", s.providerName).Msg("serving MCP over stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
