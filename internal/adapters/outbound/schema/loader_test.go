package schema_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/schema"
	"github.com/agentpm-dev/agentpm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nameSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "version": {"type": "string"}
  }
}`

func writeSchema(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestLoader_LocalOverride(t *testing.T) {
	path := writeSchema(t, t.TempDir(), nameSchema)

	sch, err := schema.New(schema.NewFetcher(), "").Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, sch.Source())

	assert.Empty(t, sch.Validate(decode(t, `{"name": "tool"}`)))

	violations := sch.Validate(decode(t, `{}`))
	require.Len(t, violations, 1)
	assert.Equal(t, "", violations[0].InstancePath)
	assert.Equal(t, "/required", violations[0].SchemaPath)
	assert.Contains(t, violations[0].Message, "name")
}

func TestLoader_ViolationPointers(t *testing.T) {
	path := writeSchema(t, t.TempDir(), nameSchema)
	sch, err := schema.New(schema.NewFetcher(), "").Load(context.Background(), path)
	require.NoError(t, err)

	violations := sch.Validate(decode(t, `{"name": 1, "version": 2}`))
	require.Len(t, violations, 2)
	assert.Equal(t, "/name", violations[0].InstancePath)
	assert.Equal(t, "/version", violations[1].InstancePath)
}

func TestLoader_ViolationOrderIsStable(t *testing.T) {
	path := writeSchema(t, t.TempDir(), `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["e"],
  "properties": {
    "a": {"type": "string"},
    "b": {"type": "string"},
    "c": {"type": "string"},
    "d": {"type": "string", "minLength": 3}
  }
}`)
	sch, err := schema.New(schema.NewFetcher(), "").Load(context.Background(), path)
	require.NoError(t, err)

	doc := decode(t, `{"d": 4, "c": 3, "b": 2, "a": 1}`)
	want := []string{"", "/a", "/b", "/c", "/d"}
	for range 100 {
		violations := sch.Validate(doc)
		got := make([]string, 0, len(violations))
		for _, v := range violations {
			got = append(got, v.InstancePath)
		}
		require.Equal(t, want, got)
	}
}

func TestLoader_ConfiguredSchemaUsedWithoutOverride(t *testing.T) {
	path := writeSchema(t, t.TempDir(), nameSchema)

	sch, err := schema.New(schema.NewFetcher(), path).Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, path, sch.Source())
}

func TestLoader_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(nameSchema))
	}))
	defer srv.Close()

	url := srv.URL + "/agentpm.manifest.schema.json"
	sch, err := schema.New(schema.NewFetcherWithClient(srv.Client()), "").Load(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, url, sch.Source())
	assert.Len(t, sch.Validate(decode(t, `{}`)), 1)
}

func TestLoader_RemoteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := schema.New(schema.NewFetcherWithClient(srv.Client()), "").Load(context.Background(), srv.URL+"/missing.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaUnreadable)
}

func TestLoader_RemoteInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := schema.New(schema.NewFetcherWithClient(srv.Client()), "").Load(context.Background(), srv.URL)
	assert.ErrorIs(t, err, domain.ErrSchemaUnreadable)
}

func TestLoader_MissingLocalFile(t *testing.T) {
	_, err := schema.New(schema.NewFetcher(), "").Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, domain.ErrSchemaUnreadable)
}

func TestLoader_InvalidLocalJSON(t *testing.T) {
	path := writeSchema(t, t.TempDir(), `{"type": `)
	_, err := schema.New(schema.NewFetcher(), "").Load(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrSchemaUnreadable)
}

func TestLoader_SchemaDoesNotCompile(t *testing.T) {
	path := writeSchema(t, t.TempDir(), `{"type": 12}`)
	_, err := schema.New(schema.NewFetcher(), "").Load(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
	assert.NotErrorIs(t, err, domain.ErrSchemaUnreadable)
}

func TestResolve_PrefersConventionalLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "schemas"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, schema.DefaultLocalPath), []byte(nameSchema), 0644))
	t.Chdir(dir)

	src, ok := schema.Resolve(schema.DefaultChain("", ""))
	require.True(t, ok)
	assert.Equal(t, schema.DefaultLocalPath, src)
}

func TestResolve_FallsBackToRemote(t *testing.T) {
	t.Chdir(t.TempDir())

	src, ok := schema.Resolve(schema.DefaultChain("", ""))
	require.True(t, ok)
	assert.Equal(t, schema.DefaultRemoteURL, src)
}

func TestResolve_OverrideWins(t *testing.T) {
	src, ok := schema.Resolve(schema.DefaultChain("mine.json", "configured.json"))
	require.True(t, ok)
	assert.Equal(t, "mine.json", src)

	src, _ = schema.Resolve(schema.DefaultChain("", "configured.json"))
	assert.Equal(t, "configured.json", src)
}

func TestResolve_ChainInAnchorsLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "schemas"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, schema.DefaultLocalPath), []byte(nameSchema), 0644))
	t.Chdir(t.TempDir())

	src, ok := schema.Resolve(schema.ChainIn(dir, "", ""))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, schema.DefaultLocalPath), src)

	src, _ = schema.Resolve(schema.DefaultChain("", ""))
	assert.Equal(t, schema.DefaultRemoteURL, src, "working directory has no local schema")
}

func TestLoader_NewInDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "schemas"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, schema.DefaultLocalPath), []byte(nameSchema), 0644))
	t.Chdir(t.TempDir())

	sch, err := schema.NewInDir(schema.NewFetcher(), "", dir).Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, schema.DefaultLocalPath), sch.Source())
}

func TestIsRemote(t *testing.T) {
	assert.True(t, schema.IsRemote("https://example.com/s.json"))
	assert.True(t, schema.IsRemote("http://localhost/s.json"))
	assert.False(t, schema.IsRemote("schemas/s.json"))
	assert.False(t, schema.IsRemote("/abs/s.json"))
}
