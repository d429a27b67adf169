package diagnostic

import "errors"

var (
	// ErrCompilationFailed marks an aggregate of resolution diagnostics.
	ErrCompilationFailed = errors.New("compilation failed")

	// ErrSchemaMismatch marks an aggregate of schema validation diagnostics.
	ErrSchemaMismatch = errors.New("locale schemas do not match the primary locale")
)
