package domain

import "fmt"

// Format selects how a lint report is rendered.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
)

// ValidFormats enumerates all output formats.
var ValidFormats = []Format{FormatPretty, FormatJSON, FormatNDJSON}

// ParseFormat maps a flag or config value to a Format. Empty means pretty.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatPretty, nil
	}
	for _, f := range ValidFormats {
		if Format(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (valid: pretty, json, ndjson)", ErrUnknownFormat, s)
}

// Rule names.
const (
	RuleSchemaHint          = "schema-hint"
	RuleDescriptionNotEmpty = "description-not-empty"
	RuleNameKebabCase       = "name-kebab-case"
)

// DefaultRules run unless disabled, in this order.
var DefaultRules = []string{RuleSchemaHint, RuleDescriptionNotEmpty}

// OptionalRules run only when enabled, after the defaults.
var OptionalRules = []string{RuleNameKebabCase}

// ProjectConfig holds project-level configuration loaded from .agentpm.yaml.
type ProjectConfig struct {
	Lint LintConfig `yaml:"lint" json:"lint"`
}

// LintConfig holds defaults for the lint command. Command-line flags win.
type LintConfig struct {
	Schema  string      `yaml:"schema"  json:"schema,omitempty"`
	Strict  bool        `yaml:"strict"  json:"strict,omitempty"`
	Format  string      `yaml:"format"  json:"format,omitempty"`
	Fix     bool        `yaml:"fix"     json:"fix,omitempty"`
	Exclude []string    `yaml:"exclude" json:"exclude,omitempty"`
	Rules   RulesConfig `yaml:"rules"   json:"rules,omitempty"`
}

// RulesConfig switches semantic rules on and off.
type RulesConfig struct {
	Enable  []string `yaml:"enable"  json:"enable,omitempty"`
	Disable []string `yaml:"disable" json:"disable,omitempty"`
}

// DefaultConfig returns a zero-value config that changes nothing.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	if _, err := ParseFormat(c.Lint.Format); err != nil {
		return fmt.Errorf("lint.format: %w", err)
	}
	for _, name := range c.Lint.Rules.Enable {
		if !isKnownRule(name) {
			return fmt.Errorf("unknown rule %q in lint.rules.enable", name)
		}
	}
	for _, name := range c.Lint.Rules.Disable {
		if !isKnownRule(name) {
			return fmt.Errorf("unknown rule %q in lint.rules.disable", name)
		}
	}
	return nil
}

// ActiveRules returns the rule names to run, in execution order.
func (c RulesConfig) ActiveRules() []string {
	var out []string
	for _, name := range DefaultRules {
		if !contains(c.Disable, name) {
			out = append(out, name)
		}
	}
	for _, name := range OptionalRules {
		if contains(c.Enable, name) && !contains(c.Disable, name) {
			out = append(out, name)
		}
	}
	return out
}

func isKnownRule(name string) bool {
	return contains(DefaultRules, name) || contains(OptionalRules, name)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
