package emitter

import "errors"

var (
	ErrNoResult       = errors.New("nothing to emit: result is nil")
	ErrUnknownLayout  = errors.New("unknown output layout")
	ErrUnknownLocale  = errors.New("locale not found in result")
	ErrUnknownUnit    = errors.New("unit not found in result")
	ErrFailedToEncode = errors.New("failed to encode output")

	ErrInvalidPath             = errors.New("invalid path")
	ErrInvalidConfig           = errors.New("invalid configuration")
	ErrFailedToWriteFile       = errors.New("failed to write file")
	ErrFailedToCreateDirectory = errors.New("failed to create directory")
	ErrFailedToGetAbsolutePath = errors.New("failed to get absolute path")

	// S3 failures are classified so callers can tell retryable errors apart.
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrRequestTimeout     = errors.New("request timed out")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrOperationCanceled  = errors.New("operation canceled")
)
