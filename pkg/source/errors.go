package source

import "errors"

var (
	ErrParsingCancelled = errors.New("source parsing cancelled")

	ErrFailedToParseYAML = errors.New("failed to parse YAML content")
	ErrFailedToParseJSON = errors.New("failed to parse JSON content")
	ErrFailedToParseTOML = errors.New("failed to parse TOML content")
	ErrFailedToParseHCL  = errors.New("failed to parse HCL content")

	// Structural errors shared by all formats
	ErrTopLevelNotMapping = errors.New("top-level value must be a mapping")
	ErrNullValue          = errors.New("null values are not allowed")
	ErrUnsupportedValue   = errors.New("unsupported value type")
)
