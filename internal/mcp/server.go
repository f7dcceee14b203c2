// ABOUTME: MCP server implementation for podfeed
// ABOUTME: Provides tools, resources, and prompts for AI agents to manage podcast subscriptions

package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/harper/podfeed/internal/storage"
	"github.com/harper/podfeed/internal/subscribe"
)

// Server wraps the MCP server with podfeed-specific context
type Server struct {
	mcpServer         *server.MCPServer
	store             storage.Store
	svc               *subscribe.Service
	importConcurrency int
}

// NewServer creates a new MCP server instance
func NewServer(store storage.Store, svc *subscribe.Service, importConcurrency int) *Server {
	s := &Server{
		store:             store,
		svc:               svc,
		importConcurrency: importConcurrency,
	}

	s.mcpServer = server.NewMCPServer(
		"podfeed",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
