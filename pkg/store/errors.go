package store

import "errors"

var (
	ErrScanCancelled         = errors.New("scan cancelled")
	ErrFailedToAccessInput   = errors.New("failed to access input directory")
	ErrInputNotDirectory     = errors.New("input path is not a directory")
	ErrFailedToReadDirectory = errors.New("failed to read directory")
	ErrFailedToReadFile      = errors.New("failed to read source file")
	ErrFailedToParseFile     = errors.New("failed to parse source file")
	ErrUnsupportedSourceFile = errors.New("unsupported source file")
	ErrDuplicateUnit         = errors.New("duplicate unit name in locale")
	ErrUnitNotFound          = errors.New("unit not found")
)
