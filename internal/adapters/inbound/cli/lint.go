package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/discovery"
	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/gitinfo"
	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/manifest"
	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/report"
	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/schema"
	"github.com/agentpm-dev/agentpm/internal/application"
	"github.com/agentpm-dev/agentpm/internal/domain"
	"github.com/agentpm-dev/agentpm/internal/domain/rules"
)

func newLintCmd(configs domain.ConfigLoader) *cobra.Command {
	var (
		schemaOverride string
		strict         bool
		format         string
		fix            bool
		changed        bool
		watch          bool
		jobs           int
		listRules      bool
	)

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Validate agent.json manifests",
		Long: `Validate agent.json manifests against the AgentPM JSON Schema and semantic rules.

Paths may be files, directories (their agent.json is used) or glob patterns such
as "tools/**/agent.json". With no paths, ./agent.json is linted if present.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listRules {
				writeRuleList(cmd.OutOrStdout())
				return nil
			}

			cfg, err := configs.Load(".")
			if err != nil {
				return err
			}

			opts := domain.LintOptions{
				Paths:   args,
				Schema:  schemaOverride,
				Strict:  cfg.Lint.Strict,
				Fix:     cfg.Lint.Fix,
				Rules:   cfg.Lint.Rules.ActiveRules(),
				Changed: changed,
				Jobs:    jobs,
			}
			if cmd.Flags().Changed("strict") {
				opts.Strict = strict
			}
			if cmd.Flags().Changed("fix") {
				opts.Fix = fix
			}

			if changed && !gitinfo.New().IsGitRepo(".") {
				return fmt.Errorf("--changed requires a git repository")
			}

			formatName := cfg.Lint.Format
			if cmd.Flags().Changed("format") {
				formatName = format
			}
			f, err := domain.ParseFormat(formatName)
			if err != nil {
				return err
			}

			svc := newLintService(cfg)
			if watch {
				return watchLint(cmd.Context(), cmd, svc, opts, f, cfg.Lint.Schema)
			}
			return lintOnce(cmd.Context(), cmd.OutOrStdout(), svc, opts, f)
		},
	}

	cmd.Flags().StringVar(&schemaOverride, "schema", "", "Schema file path or http(s) URL")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as failures")
	cmd.Flags().StringVar(&format, "format", "pretty", "Output format (pretty, json, ndjson)")
	cmd.Flags().BoolVar(&fix, "fix", false, "Apply safe fixes and rewrite manifests")
	cmd.Flags().BoolVar(&changed, "changed", false, "Only lint manifests changed in the git worktree")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-lint when manifests or the schema change")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Manifests processed in parallel (default: number of CPUs)")
	cmd.Flags().BoolVar(&listRules, "list-rules", false, "List semantic rules and exit")

	return cmd
}

func newLintService(cfg domain.ProjectConfig) *application.LintService {
	return application.NewLintService(
		schema.New(schema.NewFetcher(), cfg.Lint.Schema),
		discovery.New(cfg.Lint.Exclude...),
		manifest.New(),
		gitinfo.New(),
	)
}

// lintOnce runs a single lint pass and returns ErrLintFailed when any file failed.
func lintOnce(ctx context.Context, out io.Writer, svc *application.LintService, opts domain.LintOptions, f domain.Format) error {
	agg, err := svc.Lint(ctx, opts)
	if err != nil {
		return err
	}
	if err := report.Write(out, agg, f); err != nil {
		return err
	}
	return report.Gate(agg)
}

func writeRuleList(w io.Writer) {
	for _, r := range rules.All() {
		var tags []string
		if slices.Contains(domain.DefaultRules, r.Name()) {
			tags = append(tags, "default")
		} else {
			tags = append(tags, "opt-in")
		}
		if rules.Fixable(r) {
			tags = append(tags, "fixable")
		}
		fmt.Fprintf(w, "%-22s %-17s %s\n", r.Name(), strings.Join(tags, ","), r.Description())
	}
}
