package rules

import "github.com/agentpm-dev/agentpm/internal/domain"

// Result is the outcome of running the engine over one manifest.
type Result struct {
	Issues []domain.Issue
	// Value is the manifest after fixes. It is the input value when nothing was fixed.
	Value any
	Fixes []domain.AppliedFix
}

// Dirty reports whether any fix changed the manifest.
func (r Result) Dirty() bool { return len(r.Fixes) > 0 }

// Engine validates a manifest against a schema, then runs rules in order.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine running rules in the given order.
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// Run lints m. Schema violations come first, in pointer order, followed by
// rule issues in rule order. With fix set, each fixable rule that fired
// transforms the value seen by later rules.
func (e *Engine) Run(schema domain.Schema, m domain.Manifest, fix bool) Result {
	res := Result{Value: m.Value}

	for _, v := range schema.Validate(m.Value) {
		res.Issues = append(res.Issues, domain.Issue{
			File:         m.Path,
			Level:        domain.SeverityError,
			Message:      v.Message,
			InstancePath: v.InstancePath,
			SchemaPath:   v.SchemaPath,
		})
	}

	ctx := Context{File: m.Path, SchemaSource: schema.Source()}
	for _, r := range e.rules {
		found := r.Check(res.Value, ctx)
		res.Issues = append(res.Issues, found...)
		if !fix || len(found) == 0 {
			continue
		}
		f, ok := r.(Fixer)
		if !ok {
			continue
		}
		if fixed, desc, ok := f.Fix(res.Value, ctx); ok {
			res.Value = fixed
			res.Fixes = append(res.Fixes, domain.AppliedFix{Rule: r.Name(), Path: m.Path, Description: desc})
		}
	}

	return res
}
