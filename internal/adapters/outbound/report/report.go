// Package report writes an aggregate lint report in the selected format.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/tui"
	"github.com/agentpm-dev/agentpm/internal/domain"
)

// Write renders report to w.
//
// pretty is human-readable text, json is one indented array of file reports,
// ndjson is one compact file report per line.
func Write(w io.Writer, report domain.AggregateReport, format domain.Format) error {
	switch format {
	case domain.FormatPretty, "":
		_, err := io.WriteString(w, tui.RenderLintReport(report))
		return err
	case domain.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(files(report))
	case domain.FormatNDJSON:
		enc := json.NewEncoder(w)
		for _, f := range report.Files {
			if err := enc.Encode(f); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w %q", domain.ErrUnknownFormat, format)
	}
}

// Gate returns domain.ErrLintFailed when any file failed.
func Gate(report domain.AggregateReport) error {
	if report.OK() {
		return nil
	}
	return fmt.Errorf("%w: %d of %d file(s) failed", domain.ErrLintFailed, report.Failed(), len(report.Files))
}

func files(report domain.AggregateReport) []domain.FileReport {
	if report.Files == nil {
		return []domain.FileReport{}
	}
	return report.Files
}
