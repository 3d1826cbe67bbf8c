package schema

import (
	"os"
	"path/filepath"
)

const (
	// DefaultLocalPath is the conventional schema location inside a project.
	DefaultLocalPath = "schemas/agentpm.manifest.schema.json"
	// DefaultRemoteURL is used when nothing else resolves.
	DefaultRemoteURL = "https://raw.githubusercontent.com/agentpm-dev/cli/refs/heads/main/schemas/agentpm.manifest.schema.json"
)

// Strategy proposes a schema source. ok=false defers to the next strategy.
type Strategy func() (source string, ok bool)

// Explicit proposes source when it is non-empty.
func Explicit(source string) Strategy {
	return func() (string, bool) {
		return source, source != ""
	}
}

// LocalFile proposes path when it exists on disk.
func LocalFile(path string) Strategy {
	return func() (string, bool) {
		if _, err := os.Stat(path); err != nil {
			return "", false
		}
		return path, true
	}
}

// Remote always proposes url.
func Remote(url string) Strategy {
	return func() (string, bool) {
		return url, true
	}
}

// Resolve returns the first source proposed by chain.
func Resolve(chain []Strategy) (string, bool) {
	for _, s := range chain {
		if src, ok := s(); ok {
			return src, true
		}
	}
	return "", false
}

// DefaultChain is: command-line override, configured schema, the
// conventional local file, then the remote default.
func DefaultChain(override, configured string) []Strategy {
	return ChainIn(".", override, configured)
}

// ChainIn is DefaultChain with the conventional local file looked up under baseDir.
func ChainIn(baseDir, override, configured string) []Strategy {
	return []Strategy{
		Explicit(override),
		Explicit(configured),
		LocalFile(filepath.Join(baseDir, DefaultLocalPath)),
		Remote(DefaultRemoteURL),
	}
}
