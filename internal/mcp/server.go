// ABOUTME: MCP server setup for the readiness engine.
// ABOUTME: Wraps the MCP server with storage, scoring engine, and anomaly detector.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/readiness/internal/anomaly"
	"github.com/harperreed/readiness/internal/score"
	"github.com/harperreed/readiness/internal/storage"
)

// Server wraps the MCP server with engine access.
type Server struct {
	mcpServer   *mcp.Server
	repo        storage.Repository
	engine      *score.Engine
	detector    *anomaly.Detector
	defaultUser string
}

// NewServer creates a new MCP server over the given repository and engine.
// Tool calls that omit a user fall back to defaultUser.
func NewServer(repo storage.Repository, engine *score.Engine, defaultUser string) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "readiness",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer:   mcpServer,
		repo:        repo,
		engine:      engine,
		detector:    anomaly.NewDetector(repo),
		defaultUser: defaultUser,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) user(requested string) string {
	if requested != "" {
		return requested
	}
	return s.defaultUser
}
