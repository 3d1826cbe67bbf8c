package e2e_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentpm-dev/agentpm/internal/domain"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "agentpm-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "agentpm")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/agentpm")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func fixtureRoot() string {
	abs, _ := filepath.Abs("../../testdata/manifests")
	return abs
}

// run executes the binary in dir and returns stdout, stderr and the exit code.
func run(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// copyFixture copies the fixture tree into a temp dir so tests may modify it.
func copyFixture(t *testing.T) string {
	t.Helper()
	dst := t.TempDir()
	require.NoError(t, os.CopyFS(dst, os.DirFS(fixtureRoot())))
	return dst
}

// --- Lint Tests ---

func TestE2E_LintValid(t *testing.T) {
	out, _, code := run(t, fixtureRoot(), "lint", "--strict", "valid")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "valid/agent.json")
}

func TestE2E_LintWarningOnly(t *testing.T) {
	_, _, code := run(t, fixtureRoot(), "lint", "nohint")
	assert.Equal(t, 0, code, "warnings pass by default")

	_, stderr, code := run(t, fixtureRoot(), "lint", "--strict", "nohint")
	assert.Equal(t, 1, code, "warnings fail under --strict")
	assert.Contains(t, stderr, "Error: ")
}

func TestE2E_LintAllJSON(t *testing.T) {
	out, _, code := run(t, fixtureRoot(), "lint", "--format", "json", "**/agent.json")
	assert.Equal(t, 1, code)

	var records []domain.FileReport
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 4)

	byDir := map[string]domain.FileReport{}
	for _, r := range records {
		byDir[filepath.Base(filepath.Dir(r.File))] = r
	}
	assert.True(t, byDir["valid"].OK)
	assert.True(t, byDir["nohint"].OK)
	assert.False(t, byDir["invalid"].OK)
	assert.False(t, byDir["broken"].OK)
	require.Len(t, byDir["broken"].Issues, 1)
	assert.Contains(t, byDir["broken"].Issues[0].Message, "Failed to parse JSON")

	var pointers []string
	for _, i := range byDir["invalid"].Issues {
		pointers = append(pointers, i.InstancePath)
	}
	assert.Contains(t, pointers, "/version")
	assert.Contains(t, pointers, "/description")
}

func TestE2E_LintNothingFound(t *testing.T) {
	out, _, code := run(t, t.TempDir(), "lint", "--schema", filepath.Join(fixtureRoot(), "schemas", "agentpm.manifest.schema.json"))
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "No agent.json found.")
}

func TestE2E_LintMissingSchema(t *testing.T) {
	_, stderr, code := run(t, fixtureRoot(), "lint", "--schema", "nope.json", "valid")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "nope.json")
}

func TestE2E_LintFix(t *testing.T) {
	dir := copyFixture(t)

	_, _, code := run(t, dir, "lint", "--fix", "nohint")
	assert.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(dir, "nohint", "agent.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"$schema": "schemas/agentpm.manifest.schema.json"`)

	_, _, code = run(t, dir, "lint", "--strict", "nohint")
	assert.Equal(t, 0, code, "fixed manifest passes strict")
}

func TestE2E_Init(t *testing.T) {
	dir := t.TempDir()
	out, _, code := run(t, dir, "init")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Created .agentpm.yaml")

	_, _, code = run(t, dir, "init")
	assert.Equal(t, 1, code, "refuses to overwrite without --force")
}

func TestE2E_Version(t *testing.T) {
	out, _, code := run(t, fixtureRoot(), "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "agentpm")
}
