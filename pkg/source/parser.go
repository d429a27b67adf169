package source

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/transkit/pkg/unit"
)

// Parser turns the raw content of one source document into its value tree.
type Parser interface {
	// Parse decodes content. The returned table is owned by the caller.
	Parse(ctx context.Context, content []byte) (*unit.Table, error)

	// SupportsFileExtension checks if the parser handles a file extension.
	// The extension may or may not include a leading dot.
	SupportsFileExtension(ext string) bool
}

// Parsers returns one instance of every built-in parser.
func Parsers() []Parser {
	return []Parser{
		NewYAMLParser(),
		NewJSONParser(),
		NewTOMLParser(),
		NewHCLParser(),
	}
}

// NewParserForFile returns the parser for the file's extension,
// or nil when no built-in parser supports it.
func NewParserForFile(filename string) Parser {
	ext := filepath.Ext(filename)
	if ext == "" {
		return nil
	}
	for _, p := range Parsers() {
		if p.SupportsFileExtension(ext) {
			return p
		}
	}
	return nil
}

// Supported reports whether any built-in parser handles the file.
func Supported(filename string) bool {
	return NewParserForFile(filename) != nil
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrParsingCancelled, err)
	}
	return nil
}

func hasExtension(ext string, want ...string) bool {
	ext = strings.TrimPrefix(ext, ".")
	for _, w := range want {
		if strings.EqualFold(ext, w) {
			return true
		}
	}
	return false
}
