// Package manifest reads manifest files and writes fixed ones back.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agentpm-dev/agentpm/internal/domain"
)

// Store implements domain.ManifestStore on the local filesystem.
type Store struct{}

// New creates a Store.
func New() *Store { return &Store{} }

// Load reads and parses path. Numbers keep their literal text.
func (s *Store) Load(path string) (domain.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	value, err := Decode(raw)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return domain.Manifest{Path: path, Raw: string(raw), Value: value}, nil
}

// Decode parses exactly one JSON value from data.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

// Encode renders value as two-space indented JSON with a trailing newline.
// Object keys are sorted, so the output does not depend on the input's formatting.
func Encode(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write replaces path with the encoded value. The content goes to a temporary
// file in the same directory first and is renamed over path.
func (s *Store) Write(path string, value any) error {
	data, err := Encode(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming %s -> %s: %w", tmpName, path, err)
	}
	return nil
}
