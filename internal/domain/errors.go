package domain

import "errors"

var (
	// ErrSchemaUnreadable means the schema document could not be fetched or parsed.
	ErrSchemaUnreadable = errors.New("schema unreadable")
	// ErrSchemaInvalid means the schema document does not compile under draft 2020-12.
	ErrSchemaInvalid = errors.New("schema does not compile")
	// ErrLintFailed is returned after rendering when at least one file failed.
	ErrLintFailed = errors.New("lint failed")
	// ErrUnknownFormat is returned for an output format other than pretty, json or ndjson.
	ErrUnknownFormat = errors.New("unknown output format")
)
