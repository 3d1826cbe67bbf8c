package domain

import "context"

// SchemaFetcher returns the bytes of a schema document from a filesystem path or http(s) URL.
type SchemaFetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Violation is one schema validation failure.
type Violation struct {
	Message      string
	InstancePath string
	SchemaPath   string
}

// Schema is a compiled schema document. Implementations must be safe for concurrent use.
type Schema interface {
	// Source is the identifier the schema was loaded from.
	Source() string
	// Validate returns violations sorted by instance pointer, then schema pointer.
	Validate(instance any) []Violation
}

// SchemaLoader resolves and compiles the schema for one run.
type SchemaLoader interface {
	Load(ctx context.Context, override string) (Schema, error)
}

// ManifestDiscoverer expands path/glob arguments into sorted manifest paths.
type ManifestDiscoverer interface {
	Discover(args []string) ([]string, error)
}

// ManifestStore reads manifests and writes fixed ones back.
type ManifestStore interface {
	Load(path string) (Manifest, error)
	Write(path string, value any) error
}

// ConfigLoader reads project configuration from a directory.
type ConfigLoader interface {
	Load(dir string) (ProjectConfig, error)
}

// ChangeDetector lists files changed in the git worktree containing dir.
type ChangeDetector interface {
	ChangedFiles(dir string) ([]string, error)
}
