package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentpm-dev/agentpm/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file.
const FileName = ".agentpm.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .agentpm.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .agentpm.yaml from dir. A missing or empty file yields
// DefaultConfig. Unknown keys are an error.
func (l *YAMLLoader) Load(dir string) (domain.ProjectConfig, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.DefaultConfig(), nil
	}
	if err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("opening %s: %w", FileName, err)
	}
	defer f.Close()

	cfg := domain.DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	switch err := dec.Decode(&cfg); {
	case errors.Is(err, io.EOF):
		return domain.DefaultConfig(), nil
	case err != nil:
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return cfg, nil
}

// Render returns a commented .agentpm.yaml equivalent to cfg.
func Render(cfg domain.ProjectConfig) (string, error) {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	header := "# agentpm project configuration\n" +
		"# Command-line flags override these values.\n" +
		"#\n" +
		"# lint.format: pretty | json | ndjson\n" +
		"# lint.rules.enable: opt-in rules (name-kebab-case)\n" +
		"# lint.rules.disable: default rules to skip (schema-hint, description-not-empty)\n\n"
	return header + string(body), nil
}
