package emitter

import "context"

// Storage receives the rendered files.
type Storage interface {
	// Write stores data under a slash-separated relative path, replacing any
	// previous content.
	Write(ctx context.Context, path string, data []byte) error
	// URL returns where the file at path can be found.
	URL(path string) string
}
