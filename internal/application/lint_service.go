package application

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/agentpm-dev/agentpm/internal/domain"
	"github.com/agentpm-dev/agentpm/internal/domain/rules"
)

// LintService runs the lint pipeline:
// schema → discovery → per-file load, validate, rules, fix → aggregate.
type LintService struct {
	schemas    domain.SchemaLoader
	discoverer domain.ManifestDiscoverer
	store      domain.ManifestStore
	changes    domain.ChangeDetector
}

// NewLintService creates a LintService. changes may be nil when --changed is never used.
func NewLintService(
	schemas domain.SchemaLoader,
	discoverer domain.ManifestDiscoverer,
	store domain.ManifestStore,
	changes domain.ChangeDetector,
) *LintService {
	return &LintService{schemas: schemas, discoverer: discoverer, store: store, changes: changes}
}

// Lint runs one invocation. Errors returned here are fatal: the schema could
// not be loaded, discovery failed, or ctx was cancelled. Per-file problems
// are reported as issues instead.
func (s *LintService) Lint(ctx context.Context, opts domain.LintOptions) (domain.AggregateReport, error) {
	names := opts.Rules
	if names == nil {
		names = domain.DefaultRules
	}
	rs, err := rules.Select(names)
	if err != nil {
		return domain.AggregateReport{}, err
	}
	engine := rules.NewEngine(rs...)

	schema, err := s.schemas.Load(ctx, opts.Schema)
	if err != nil {
		return domain.AggregateReport{}, err
	}

	files, err := s.discoverer.Discover(opts.Paths)
	if err != nil {
		return domain.AggregateReport{}, fmt.Errorf("discovering manifests: %w", err)
	}
	if opts.Changed {
		if files, err = s.onlyChanged(files); err != nil {
			return domain.AggregateReport{}, err
		}
	}
	slog.Debug("discovered manifests", "count", len(files), "schema", schema.Source())

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Reports are indexed by discovery position, which is already sorted.
	reports := make([]domain.FileReport, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = s.lintFile(engine, schema, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.AggregateReport{}, err
	}

	return domain.AggregateReport{Files: reports}, nil
}

// lintFile never fails: load and write errors become error issues.
func (s *LintService) lintFile(engine *rules.Engine, schema domain.Schema, path string, opts domain.LintOptions) domain.FileReport {
	policy := opts.Policy()

	m, err := s.store.Load(path)
	if err != nil {
		slog.Debug("manifest unreadable", "file", path, "error", err)
		return domain.NewFileReport(path, []domain.Issue{
			domain.NewError(path, fmt.Sprintf("Failed to parse JSON: %v", err)),
		}, policy)
	}

	res := engine.Run(schema, m, opts.Fix)
	issues := res.Issues

	if opts.Fix && res.Dirty() {
		if err := s.store.Write(path, res.Value); err != nil {
			issues = append(issues, domain.NewError(path, fmt.Sprintf("Failed to write fixed file %s: %v", path, err)))
		} else {
			for _, f := range res.Fixes {
				slog.Debug("applied fix", "file", path, "rule", f.Rule, "fix", f.Description)
			}
		}
	}

	slog.Debug("linted manifest", "file", path, "issues", len(issues))
	return domain.NewFileReport(path, issues, policy)
}

func (s *LintService) onlyChanged(files []string) ([]string, error) {
	if s.changes == nil {
		return nil, fmt.Errorf("change detection is not available")
	}
	changed, err := s.changes.ChangedFiles(".")
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}

	set := make(map[string]bool, len(changed))
	for _, c := range changed {
		set[canonical(c)] = true
	}

	out := []string{}
	for _, f := range files {
		if set[canonical(f)] {
			out = append(out, f)
		}
	}
	return out, nil
}

// canonical returns an absolute, symlink-free form of path for comparison.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
