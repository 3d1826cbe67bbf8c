package domain

// LintOptions configures one lint invocation.
type LintOptions struct {
	Paths  []string `json:"paths"`
	Schema string   `json:"schema,omitempty"`
	Strict bool     `json:"strict"`
	Fix    bool     `json:"fix"`
	// Rules are rule names to run, in order. Nil means DefaultRules.
	Rules []string `json:"rules,omitempty"`
	// Changed limits linting to manifests changed in the git worktree.
	Changed bool `json:"changed"`
	// Jobs bounds concurrent per-file processing. Zero means GOMAXPROCS.
	Jobs int `json:"jobs,omitempty"`
}

// Policy returns the pass/fail policy for these options.
func (o LintOptions) Policy() Policy {
	return Policy{Strict: o.Strict}
}
