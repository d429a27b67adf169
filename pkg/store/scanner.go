package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/transkit/pkg/source"
	"github.com/dmitrymomot/transkit/pkg/unit"
)

// Scanner discovers and parses the source files under an input root.
type Scanner struct {
	root      string
	outputDir string
	logger    *slog.Logger
	parserFor func(filename string) source.Parser
}

// ScanOption configures a Scanner.
type ScanOption func(*Scanner)

// WithOutputDir excludes the output directory from the scan when it lives
// under the input root.
func WithOutputDir(dir string) ScanOption {
	return func(s *Scanner) {
		s.outputDir = dir
	}
}

// WithLogger sets the logger. A discard logger is used by default.
func WithLogger(l *slog.Logger) ScanOption {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithParsers restricts the scanner to the given parsers.
// By default every built-in source format is accepted.
func WithParsers(parsers ...source.Parser) ScanOption {
	return func(s *Scanner) {
		if len(parsers) == 0 {
			return
		}
		s.parserFor = func(filename string) source.Parser {
			ext := filepath.Ext(filename)
			for _, p := range parsers {
				if p.SupportsFileExtension(ext) {
					return p
				}
			}
			return nil
		}
	}
}

// NewScanner returns a scanner for the given input root.
func NewScanner(root string, opts ...ScanOption) *Scanner {
	s := &Scanner{
		root:      root,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		parserFor: source.NewParserForFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the input root.
func (s *Scanner) Root() string {
	return s.root
}

// Scan walks the input root one level for locales and one more level for
// unit files, and returns a freshly built store.
// Any read or parse failure aborts the scan.
func (s *Scanner) Scan(ctx context.Context) (*Store, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, errors.Join(ErrFailedToAccessInput, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInputNotDirectory, s.root)
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadDirectory, err)
	}

	st := empty()
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrScanCancelled, err)
		}
		if !entry.IsDir() || skipName(entry.Name()) {
			continue
		}
		dir := filepath.Join(s.root, entry.Name())
		if s.isOutputDir(dir) {
			s.logger.DebugContext(ctx, "Skipping output directory", "path", dir)
			continue
		}

		locale := entry.Name()
		if _, err := language.Parse(locale); err != nil {
			s.logger.WarnContext(ctx, "Locale directory is not a valid BCP 47 tag", "locale", locale, "error", err)
		}
		st.addLocale(locale)

		if err := s.scanLocale(ctx, st, locale, dir); err != nil {
			return nil, err
		}
	}

	s.logger.DebugContext(ctx, "Scan complete", "locales", len(st.locales), "units", st.Len())
	return st, nil
}

func (s *Scanner) scanLocale(ctx context.Context, st *Store, locale, dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return errors.Join(ErrFailedToReadDirectory, err)
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return errors.Join(ErrScanCancelled, err)
		}
		if f.IsDir() || skipName(f.Name()) {
			continue
		}
		path := filepath.Join(dir, f.Name())
		if s.parserFor(path) == nil {
			s.logger.DebugContext(ctx, "Skipping unsupported file", "path", path)
			continue
		}

		u, err := s.ReadUnit(ctx, locale, path)
		if err != nil {
			return err
		}
		if err := st.add(u); err != nil {
			return err
		}
	}
	return nil
}

// ReadUnit reads and parses one source file into a unit of the locale.
func (s *Scanner) ReadUnit(ctx context.Context, locale, path string) (*unit.Unit, error) {
	parser := s.parserFor(path)
	if parser == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSourceFile, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}

	data, err := parser.Parse(ctx, content)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %s", ErrFailedToParseFile, path), err)
	}

	return unit.New(locale, unit.NameFromPath(path), path, data), nil
}

// Reload re-reads one unit from its source file and returns a new store in
// which only that unit is replaced.
func (s *Scanner) Reload(ctx context.Context, st *Store, locale, name string) (*Store, error) {
	current, ok := st.Unit(locale, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnitNotFound, locale, name)
	}

	fresh, err := s.ReadUnit(ctx, locale, current.Path)
	if err != nil {
		return nil, err
	}
	return st.With(fresh), nil
}

func (s *Scanner) isOutputDir(dir string) bool {
	if s.outputDir == "" {
		return false
	}
	out, err := filepath.Abs(s.outputDir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	return abs == out
}

func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
