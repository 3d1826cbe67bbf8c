package domain

// ManifestFileName is the conventional manifest file name.
const ManifestFileName = "agent.json"

// Severity classifies an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding against a manifest. Issues are never mutated after creation.
type Issue struct {
	File         string   `json:"file"`
	Level        Severity `json:"level"`
	Message      string   `json:"message"`
	InstancePath string   `json:"instance_path"`
	SchemaPath   string   `json:"schema_path"`
}

// NewError returns an error-severity issue for file.
func NewError(file, message string) Issue {
	return Issue{File: file, Level: SeverityError, Message: message}
}

// NewWarning returns a warning-severity issue for file.
func NewWarning(file, message string) Issue {
	return Issue{File: file, Level: SeverityWarning, Message: message}
}

// FileReport is the outcome of linting one manifest.
type FileReport struct {
	File   string  `json:"file"`
	OK     bool    `json:"ok"`
	Issues []Issue `json:"issues"`
}

// AggregateReport holds every FileReport of one invocation, in discovery order.
type AggregateReport struct {
	Files []FileReport
}

// OK reports whether every file passed. An empty report passes.
func (r AggregateReport) OK() bool {
	for _, f := range r.Files {
		if !f.OK {
			return false
		}
	}
	return true
}

// Failed returns the number of files that did not pass.
func (r AggregateReport) Failed() int {
	n := 0
	for _, f := range r.Files {
		if !f.OK {
			n++
		}
	}
	return n
}

// Policy decides pass/fail for a file from its issues.
type Policy struct {
	Strict bool
}

// Passes reports whether issues are acceptable under the policy.
// Lenient fails only on errors; strict fails on any issue.
func (p Policy) Passes(issues []Issue) bool {
	for _, i := range issues {
		if p.Strict || i.Level == SeverityError {
			return false
		}
	}
	return true
}

// NewFileReport builds the report for one file under policy p.
func NewFileReport(file string, issues []Issue, p Policy) FileReport {
	if issues == nil {
		issues = []Issue{}
	}
	return FileReport{File: file, OK: p.Passes(issues), Issues: issues}
}
