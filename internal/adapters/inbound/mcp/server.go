package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/config"
)

// NewAgentPMMCPServer creates an MCP server with the agentpm lint tools and
// resources registered. projectPath is the directory relative paths and
// .agentpm.yaml are resolved against.
func NewAgentPMMCPServer(projectPath, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"agentpm",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	configs := config.New()
	registerTools(s, projectPath, configs)
	registerResources(s, projectPath, configs)

	return s
}
