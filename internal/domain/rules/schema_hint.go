package rules

import (
	"maps"

	"github.com/agentpm-dev/agentpm/internal/domain"
)

const schemaKey = "$schema"

// SchemaHint warns when a manifest has no $schema reference. Its fix points
// $schema at the schema used for validation.
type SchemaHint struct{}

func (SchemaHint) Name() string { return domain.RuleSchemaHint }

func (SchemaHint) Description() string {
	return "manifest should declare $schema so editors can offer completion"
}

func (SchemaHint) Check(doc any, ctx Context) []domain.Issue {
	if obj, ok := doc.(map[string]any); ok {
		if _, has := obj[schemaKey]; has {
			return nil
		}
	}
	return []domain.Issue{domain.NewWarning(ctx.File, "Missing $schema; editors may lack IntelliSense.")}
}

// Fix only applies to JSON objects.
func (SchemaHint) Fix(doc any, ctx Context) (any, string, bool) {
	obj, ok := doc.(map[string]any)
	if !ok || ctx.SchemaSource == "" {
		return doc, "", false
	}
	if _, has := obj[schemaKey]; has {
		return doc, "", false
	}
	out := make(map[string]any, len(obj)+1)
	maps.Copy(out, obj)
	out[schemaKey] = ctx.SchemaSource
	return out, "set $schema to " + ctx.SchemaSource, true
}
