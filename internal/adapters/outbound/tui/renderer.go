package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agentpm-dev/agentpm/internal/domain"
)

// NoManifestsMessage is printed when discovery finds nothing to lint.
const NoManifestsMessage = "No agent.json found. (Looked at ./agent.json or provided paths)"

// ── Warm palette ──
var (
	dim     = lipgloss.Color("#6B7280") // muted gray
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	passStyle     = lipgloss.NewStyle().Foreground(success).Bold(true)
	failStyle     = lipgloss.NewStyle().Foreground(danger).Bold(true)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	fileStyle     = lipgloss.NewStyle().Bold(true)
)

// RenderLintReport renders one line per file followed by its issues.
//
//	✗ tools/agent.json
//	  [ERROR] missing properties: 'name'
//	        vs schema  /required
//	  [WARN ] `description` should not be empty
//	        at instance /description
func RenderLintReport(report domain.AggregateReport) string {
	if len(report.Files) == 0 {
		return NoManifestsMessage + "\n"
	}

	var b strings.Builder
	for _, f := range report.Files {
		mark := passStyle.Render("✓")
		if !f.OK {
			mark = failStyle.Render("✗")
		}
		fmt.Fprintf(&b, "%s %s\n", mark, fileStyle.Render(f.File))

		for _, i := range f.Issues {
			fmt.Fprintf(&b, "  %s %s\n", badge(i.Level), i.Message)
			if i.InstancePath != "" {
				fmt.Fprintf(&b, "        %s %s\n", dimStyle.Render("at instance"), i.InstancePath)
			}
			if i.SchemaPath != "" {
				fmt.Fprintf(&b, "        %s %s\n", dimStyle.Render("vs schema "), i.SchemaPath)
			}
		}
	}
	return b.String()
}

// RenderSummary renders a one-line tally, used between watch runs.
func RenderSummary(report domain.AggregateReport) string {
	failed := report.Failed()
	line := fmt.Sprintf("%d file(s) linted, %d failed", len(report.Files), failed)
	if failed > 0 {
		return failStyle.Render(line)
	}
	return passStyle.Render(line)
}

func badge(level domain.Severity) string {
	if level == domain.SeverityError {
		return errorTagStyle.Render("[ERROR]")
	}
	return warnTagStyle.Render("[WARN ]")
}
