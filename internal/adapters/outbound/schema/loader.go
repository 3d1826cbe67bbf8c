// Package schema resolves, fetches and compiles the manifest JSON-Schema.
package schema

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/agentpm-dev/agentpm/internal/domain"
)

// Loader implements domain.SchemaLoader.
type Loader struct {
	fetcher    domain.SchemaFetcher
	configured string
	baseDir    string
}

// New creates a Loader. configured is the schema from project config, may be empty.
func New(fetcher domain.SchemaFetcher, configured string) *Loader {
	return NewInDir(fetcher, configured, ".")
}

// NewInDir creates a Loader that looks for the conventional local schema
// under baseDir instead of the working directory.
func NewInDir(fetcher domain.SchemaFetcher, configured, baseDir string) *Loader {
	return &Loader{fetcher: fetcher, configured: configured, baseDir: baseDir}
}

// Load resolves the schema source, fetches it and compiles it under draft 2020-12.
// Every failure is fatal for the run.
func (l *Loader) Load(ctx context.Context, override string) (domain.Schema, error) {
	source, ok := Resolve(ChainIn(l.baseDir, override, l.configured))
	if !ok {
		return nil, fmt.Errorf("%w: no schema source", domain.ErrSchemaUnreadable)
	}
	slog.Debug("resolved schema", "source", source)

	data, err := l.fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaUnreadable, err)
	}
	return Compile(ctx, l.fetcher, source, data)
}

// Compile parses and compiles data as the schema identified by source.
// Remote $refs are fetched through fetcher.
func Compile(ctx context.Context, fetcher domain.SchemaFetcher, source string, data []byte) (*Compiled, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid schema JSON in %s: %w", domain.ErrSchemaUnreadable, source, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.LoadURL = func(s string) (io.ReadCloser, error) {
		if !IsRemote(s) || fetcher == nil {
			return jsonschema.LoadURL(s)
		}
		b, err := fetcher.Fetch(ctx, s)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(b)), nil
	}

	if err := compiler.AddResource(source, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSchemaUnreadable, source, err)
	}
	sch, err := compiler.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSchemaInvalid, source, err)
	}

	return &Compiled{source: source, schema: sch}, nil
}

// Compiled is an immutable compiled schema, safe for concurrent validation.
type Compiled struct {
	source string
	schema *jsonschema.Schema
}

func (c *Compiled) Source() string { return c.source }

// Validate returns the leaf validation errors ordered by instance pointer,
// then schema pointer. The validator visits object properties in map order,
// so its own emission order is not stable between runs.
func (c *Compiled) Validate(instance any) []domain.Violation {
	err := c.schema.Validate(instance)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []domain.Violation{{Message: err.Error()}}
	}

	var out []domain.Violation
	collectLeaves(ve, &out)
	slices.SortStableFunc(out, func(a, b domain.Violation) int {
		if n := cmp.Compare(a.InstancePath, b.InstancePath); n != 0 {
			return n
		}
		return cmp.Compare(a.SchemaPath, b.SchemaPath)
	})
	return out
}

func collectLeaves(ve *jsonschema.ValidationError, out *[]domain.Violation) {
	if len(ve.Causes) == 0 {
		*out = append(*out, domain.Violation{
			Message:      ve.Message,
			InstancePath: ve.InstanceLocation,
			SchemaPath:   ve.KeywordLocation,
		})
		return
	}
	for _, c := range ve.Causes {
		collectLeaves(c, out)
	}
}
