package emitter

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/transkit/pkg/compiler"
	"github.com/dmitrymomot/transkit/pkg/logger"
)

// Emitter renders compiled results and writes them to a Storage.
type Emitter struct {
	storage  Storage
	layout   Layout
	indent   string
	manifest bool
	logger   *slog.Logger
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithLayout selects the output layout. Defaults to LayoutBundle.
func WithLayout(l Layout) Option {
	return func(e *Emitter) {
		if l != "" {
			e.layout = l
		}
	}
}

// WithIndent pretty-prints JSON with the given indent. Output is compact by default.
func WithIndent(indent string) Option {
	return func(e *Emitter) {
		e.indent = indent
	}
}

// WithManifest also writes manifest.json.
func WithManifest() Option {
	return func(e *Emitter) {
		e.manifest = true
	}
}

// WithLogger sets the logger. A discard logger is used by default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Emitter) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an emitter writing to storage.
func New(storage Storage, opts ...Option) *Emitter {
	e := &Emitter{
		storage: storage,
		layout:  LayoutBundle,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Layout returns the configured layout.
func (e *Emitter) Layout() Layout {
	return e.layout
}

// Emit renders res and writes every file, returning the written paths.
// Rendering happens before the first write, so an encoding failure leaves
// the storage untouched.
func (e *Emitter) Emit(ctx context.Context, res *compiler.Result) ([]string, error) {
	files, err := Render(res, e.layout, e.indent)
	if err != nil {
		return nil, err
	}
	if e.manifest {
		data, err := Encode(NewManifest(res, e.layout, files), e.indent)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: ManifestPath, Data: data})
	}

	ctx = logger.ContextWithBuildID(ctx, res.ID)
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if err := e.storage.Write(ctx, f.Path, f.Data); err != nil {
			return paths, err
		}
		paths = append(paths, f.Path)
		e.logger.DebugContext(ctx, "File written", logger.Path(e.storage.URL(f.Path)))
	}
	e.logger.InfoContext(ctx, "Output written",
		slog.String("layout", string(e.layout)),
		logger.Count(len(paths)),
	)
	return paths, nil
}
