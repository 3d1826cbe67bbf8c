package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fatih/camelcase"

	"github.com/agentpm-dev/agentpm/internal/domain"
)

var kebabCase = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// NameKebabCase warns when name is not lower kebab-case.
type NameKebabCase struct{}

func (NameKebabCase) Name() string { return domain.RuleNameKebabCase }

func (NameKebabCase) Description() string {
	return "name should be lower kebab-case, e.g. my-agent"
}

func (NameKebabCase) Check(doc any, ctx Context) []domain.Issue {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	name, ok := obj["name"].(string)
	if !ok || name == "" || kebabCase.MatchString(name) {
		return nil
	}

	msg := "`name` should be kebab-case"
	if s := KebabCase(name); s != "" {
		msg = fmt.Sprintf("`name` should be kebab-case (e.g. %q)", s)
	}
	issue := domain.NewWarning(ctx.File, msg)
	issue.InstancePath = "/name"
	return []domain.Issue{issue}
}

// KebabCase converts an identifier such as "myAgent_v2" to "my-agent-v2".
func KebabCase(name string) string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' ' || r == '/'
	})

	var words []string
	for _, f := range fields {
		for _, w := range camelcase.Split(f) {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				words = append(words, w)
			}
		}
	}
	return strings.Join(words, "-")
}
