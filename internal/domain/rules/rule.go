// Package rules holds the semantic manifest rules and the engine that runs
// them after schema validation.
package rules

import (
	"fmt"

	"github.com/agentpm-dev/agentpm/internal/domain"
)

// Context carries per-file facts a rule may need.
type Context struct {
	File string
	// SchemaSource is the identifier the schema was actually loaded from.
	SchemaSource string
}

// Rule is a read-only check over a manifest value.
type Rule interface {
	Name() string
	Description() string
	Check(doc any, ctx Context) []domain.Issue
}

// Fixer is implemented by rules that can correct their own findings.
// Fix must not modify doc; it returns a new value.
type Fixer interface {
	Fix(doc any, ctx Context) (fixed any, description string, ok bool)
}

var registry = []Rule{
	SchemaHint{},
	DescriptionNotEmpty{},
	NameKebabCase{},
}

// All returns every registered rule in registry order.
func All() []Rule {
	out := make([]Rule, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the registered rule with the given name.
func Lookup(name string) (Rule, bool) {
	for _, r := range registry {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// Select returns the named rules in the given order.
func Select(names []string) ([]Rule, error) {
	out := make([]Rule, 0, len(names))
	for _, name := range names {
		r, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown rule %q", name)
		}
		out = append(out, r)
	}
	return out, nil
}

// Fixable reports whether r defines a fix.
func Fixable(r Rule) bool {
	_, ok := r.(Fixer)
	return ok
}
