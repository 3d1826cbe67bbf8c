package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/schema"
	"github.com/agentpm-dev/agentpm/internal/domain"
)

// registerResources registers the agentpm MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string, configs domain.ConfigLoader) {
	s.AddResource(
		mcplib.NewResource(
			"agentpm://schema",
			"Manifest Schema",
			mcplib.WithResourceDescription("The JSON Schema agent.json manifests are validated against"),
			mcplib.WithMIMEType("application/schema+json"),
		),
		handleSchemaResource(projectPath, configs),
	)

	s.AddResource(
		mcplib.NewResource(
			"agentpm://rules",
			"Lint Rules",
			mcplib.WithResourceDescription("Semantic lint rules with their default and fixable status"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulesResource(),
	)
}

func handleSchemaResource(projectPath string, configs domain.ConfigLoader) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := configs.Load(projectPath)
		if err != nil {
			return nil, err
		}

		source, _ := schema.Resolve(schema.ChainIn(projectPath, "", resolveSource(projectPath, cfg.Lint.Schema)))
		data, err := schema.NewFetcher().Fetch(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("fetching schema: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "agentpm://schema",
				MIMEType: "application/schema+json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleRulesResource() server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(listRules(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling rules: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "agentpm://rules",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
