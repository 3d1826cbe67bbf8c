// Package discovery expands command-line path and glob arguments into
// manifest paths.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agentpm-dev/agentpm/internal/domain"
)

// MaxDepth bounds glob expansion below the pattern's literal base directory.
const MaxDepth = 20

// Discoverer implements domain.ManifestDiscoverer.
type Discoverer struct {
	exclude []string
}

// New creates a Discoverer. exclude holds doublestar patterns removed from glob expansions.
func New(exclude ...string) *Discoverer {
	return &Discoverer{exclude: exclude}
}

// Discover returns a sorted, deduplicated list of manifest paths.
//
// With no arguments it returns ./agent.json when present. A directory argument
// contributes <dir>/agent.json when present, a file argument is kept only when
// it is named agent.json, a glob argument contributes every matching file, and
// nonexistent paths are ignored.
func (d *Discoverer) Discover(args []string) ([]string, error) {
	if len(args) == 0 {
		if isFile(domain.ManifestFileName) {
			return []string{domain.ManifestFileName}, nil
		}
		return []string{}, nil
	}

	out := []string{}
	for _, a := range args {
		if IsGlob(a) {
			matches, err := d.expand(a)
			if err != nil {
				return nil, err
			}
			out = append(out, matches...)
			continue
		}

		info, err := os.Stat(a)
		switch {
		case err != nil:
			// Nonexistent paths are not an error.
		case info.IsDir():
			candidate := filepath.Join(a, domain.ManifestFileName)
			if isFile(candidate) {
				out = append(out, candidate)
			}
		case filepath.Base(a) == domain.ManifestFileName:
			out = append(out, filepath.Clean(a))
		}
	}

	slices.Sort(out)
	return slices.Compact(out), nil
}

// IsGlob reports whether arg contains glob metacharacters.
func IsGlob(arg string) bool {
	return strings.ContainsAny(arg, "*?[")
}

// expand walks the literal base of pattern and returns matching files.
// Matching is case-insensitive.
func (d *Discoverer) expand(pattern string) ([]string, error) {
	slashed := filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(slashed) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	base, rest := doublestar.SplitPattern(slashed)
	lowerRest := strings.ToLower(rest)
	root := filepath.FromSlash(base)

	var out []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fs.SkipAll
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if strings.Count(rel, "/")+1 >= MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		ok, _ := doublestar.Match(lowerRest, strings.ToLower(rel))
		if !ok {
			return nil
		}
		candidate := filepath.Join(root, filepath.FromSlash(rel))
		if d.excluded(candidate) {
			return nil
		}
		out = append(out, candidate)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Discoverer) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, p := range d.exclude {
		if ok, _ := doublestar.Match(p, slashed); ok {
			return true
		}
	}
	return false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
