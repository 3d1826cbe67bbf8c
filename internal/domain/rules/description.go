package rules

import (
	"strings"

	"github.com/agentpm-dev/agentpm/internal/domain"
)

// DescriptionNotEmpty warns when description is present but blank.
type DescriptionNotEmpty struct{}

func (DescriptionNotEmpty) Name() string { return domain.RuleDescriptionNotEmpty }

func (DescriptionNotEmpty) Description() string {
	return "description, when present, must not be blank"
}

func (DescriptionNotEmpty) Check(doc any, ctx Context) []domain.Issue {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	desc, ok := obj["description"].(string)
	if !ok || strings.TrimSpace(desc) != "" {
		return nil
	}
	issue := domain.NewWarning(ctx.File, "`description` should not be empty")
	issue.InstancePath = "/description"
	return []domain.Issue{issue}
}
