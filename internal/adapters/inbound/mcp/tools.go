package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/discovery"
	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/gitinfo"
	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/manifest"
	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/schema"
	"github.com/agentpm-dev/agentpm/internal/application"
	"github.com/agentpm-dev/agentpm/internal/domain"
	"github.com/agentpm-dev/agentpm/internal/domain/rules"
)

// lintResult is the JSON payload of agentpm_lint.
type lintResult struct {
	OK    bool                `json:"ok"`
	Files []domain.FileReport `json:"files"`
}

// ruleInfo is one entry of agentpm_list_rules.
type ruleInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
	Fixable     bool   `json:"fixable"`
}

// registerTools registers the agentpm MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string, configs domain.ConfigLoader) {
	s.AddTool(
		mcplib.NewTool("agentpm_lint",
			mcplib.WithDescription("Lint agent.json manifests against the AgentPM schema and semantic rules. Returns per-file issues and an overall ok flag as JSON."),
			mcplib.WithString("paths", mcplib.Description("Comma-separated files, directories or glob patterns relative to the project root (default: ./agent.json)")),
			mcplib.WithString("schema", mcplib.Description("Schema file path or http(s) URL overriding the configured schema")),
			mcplib.WithBoolean("strict", mcplib.Description("Treat warnings as failures")),
			mcplib.WithBoolean("fix", mcplib.Description("Apply safe fixes and rewrite manifests")),
		),
		handleLint(projectPath, configs),
	)

	s.AddTool(
		mcplib.NewTool("agentpm_list_rules",
			mcplib.WithDescription("Returns the semantic lint rules with their default and fixable status"),
		),
		handleListRules(),
	)
}

func handleLint(projectPath string, configs domain.ConfigLoader) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, err := configs.Load(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		opts := domain.LintOptions{
			Paths:  resolvePaths(projectPath, splitAndTrim(request.GetString("paths", ""))),
			Schema: resolveSource(projectPath, request.GetString("schema", "")),
			Strict: request.GetBool("strict", cfg.Lint.Strict),
			Fix:    request.GetBool("fix", cfg.Lint.Fix),
			Rules:  cfg.Lint.Rules.ActiveRules(),
		}

		svc := application.NewLintService(
			schema.NewInDir(schema.NewFetcher(), resolveSource(projectPath, cfg.Lint.Schema), projectPath),
			discovery.New(cfg.Lint.Exclude...),
			manifest.New(),
			gitinfo.New(),
		)
		agg, err := svc.Lint(ctx, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("lint failed: %v", err)), nil
		}
		return jsonResult(lintResult{OK: agg.OK(), Files: files(agg)})
	}
}

func handleListRules() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(listRules())
	}
}

func listRules() []ruleInfo {
	var out []ruleInfo
	for _, r := range rules.All() {
		out = append(out, ruleInfo{
			Name:        r.Name(),
			Description: r.Description(),
			Default:     slices.Contains(domain.DefaultRules, r.Name()),
			Fixable:     rules.Fixable(r),
		})
	}
	return out
}

// resolvePaths anchors relative lint arguments at projectPath. With no
// arguments the project directory itself is linted.
func resolvePaths(projectPath string, paths []string) []string {
	if len(paths) == 0 {
		return []string{projectPath}
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, resolveSource(projectPath, p))
	}
	return out
}

func resolveSource(projectPath, source string) string {
	if source == "" || schema.IsRemote(source) || filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(projectPath, source)
}

func files(agg domain.AggregateReport) []domain.FileReport {
	if agg.Files == nil {
		return []domain.FileReport{}
	}
	return agg.Files
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
