package config

import "errors"

var (
	// ErrLoadingEnvFile is returned when an explicitly requested .env file cannot be read.
	ErrLoadingEnvFile = errors.New("failed to load env file")

	// ErrParsingConfig is returned when environment variables cannot be parsed into Config.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidConfig is returned when parsed values are inconsistent.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrParsingWorkspace is returned when a workspace file is not valid HCL.
	ErrParsingWorkspace = errors.New("failed to parse workspace file")

	// ErrDuplicateProject is returned when two workspace projects share a name.
	ErrDuplicateProject = errors.New("duplicate workspace project")
)
