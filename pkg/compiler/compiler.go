package compiler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/transkit/pkg/diagnostic"
	"github.com/dmitrymomot/transkit/pkg/logger"
	"github.com/dmitrymomot/transkit/pkg/resolver"
	"github.com/dmitrymomot/transkit/pkg/schema"
	"github.com/dmitrymomot/transkit/pkg/store"
)

// Output is what Compile hands back: the result on success, the
// diagnostics on failure.
type Output struct {
	Result      *Result
	Diagnostics diagnostic.List
}

// Compiler orchestrates scan, validation and resolution and caches the last
// successful result.
type Compiler struct {
	scanner   *store.Scanner
	primary   string
	project  string
	projects []Project
	logger   *slog.Logger

	mu        sync.Mutex
	lifecycle *lifecycle
	store     atomic.Pointer[store.Store]
	result    atomic.Pointer[Result]
	scanned   resolver.StaticWorkspace
}

// New returns a compiler reading its input through scanner.
func New(scanner *store.Scanner, opts ...Option) *Compiler {
	c := &Compiler{
		scanner: scanner,
		primary: "en",
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lifecycle = newLifecycle(func(from, to State, event Event) {
		c.logger.Debug("Lifecycle transition",
			slog.String("from", string(from)),
			logger.State(to),
			logger.Event(string(event)),
		)
	})
	return c
}

// State returns the current lifecycle state.
func (c *Compiler) State() State {
	return c.lifecycle.Current()
}

// PrimaryLocale returns the configured primary locale.
func (c *Compiler) PrimaryLocale() string {
	return c.primary
}

// Store returns the current unit store, or nil before the first scan.
func (c *Compiler) Store() *store.Store {
	return c.store.Load()
}

// Result returns the cached result of the last successful compilation, or nil.
func (c *Compiler) Result() *Result {
	return c.result.Load()
}

// Scan populates the store and rescans the workspace projects. Without force
// it is a no-op once a store exists. A performed scan invalidates the cached
// result; a failed one also clears the store, so no later Compile resolves
// input that could not be read.
func (c *Compiler) Scan(ctx context.Context, force bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !force && c.store.Load() != nil {
		return nil
	}
	if err := c.lifecycle.Fire(EventScan); err != nil {
		return err
	}
	c.result.Store(nil)
	if err := c.scan(ctx, true); err != nil {
		_ = c.lifecycle.Fire(EventFail)
		return err
	}
	return c.lifecycle.Fire(EventScanned)
}

// Compile runs a full compilation, or returns the cached result unless Force
// is given.
//
// Fatal problems (parse failure, missing primary locale, schema mismatch,
// cancellation) are returned as errors. Resolution diagnostics fail the
// compilation with a *diagnostic.Error, or are only reported through
// Output.Diagnostics when CollectDiagnostics is set. Either way a failed
// compilation leaves no cached result.
func (c *Compiler) Compile(ctx context.Context, opts ...CompileOption) (Output, error) {
	var o compileOptions
	for _, opt := range opts {
		opt(&o)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.project != "" {
		ctx = logger.ContextWithAttrs(ctx, logger.Project(c.project))
	}
	if !o.force {
		if res := c.result.Load(); res != nil {
			return Output{Result: res}, nil
		}
	}

	c.result.Store(nil)
	started := time.Now()

	if err := c.lifecycle.Fire(EventScan); err != nil {
		return Output{}, err
	}
	if err := c.scan(ctx, o.force); err != nil {
		return c.fail(ctx, err, nil)
	}

	if err := c.lifecycle.Fire(EventValidate); err != nil {
		return c.fail(ctx, err, nil)
	}
	st := c.store.Load()
	primary, err := schema.PrimaryLocale(st, c.primary)
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	if err := schema.Validate(st, primary); err != nil {
		var derr *diagnostic.Error
		if errors.As(err, &derr) {
			return c.fail(ctx, err, derr.Diagnostics)
		}
		return c.fail(ctx, err, nil)
	}

	if err := c.lifecycle.Fire(EventResolve); err != nil {
		return c.fail(ctx, err, nil)
	}
	res := &Result{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Primary:   primary,
		Locales:   make(map[string][]*resolver.Result),
	}
	ctx = logger.ContextWithBuildID(ctx, res.ID)

	r := resolver.New(st,
		resolver.WithProject(c.project),
		resolver.WithWorkspace(c.currentWorkspace()),
		resolver.WithLogger(c.logger),
	)
	var diags diagnostic.List
	for _, locale := range st.Locales() {
		if err := ctx.Err(); err != nil {
			return c.fail(ctx, errors.Join(ErrCompileCancelled, err), nil)
		}
		results, ds := r.ResolveLocale(locale)
		diags.Add(ds...)
		res.Locales[locale] = results
	}

	if !diags.Empty() {
		diags.Sort()
		if o.collect {
			_, _ = c.fail(ctx, nil, diags)
			return Output{Diagnostics: diags}, nil
		}
		return c.fail(ctx, diags.Err(diagnostic.ErrCompilationFailed), diags)
	}

	if err := c.lifecycle.Fire(EventSucceed); err != nil {
		return c.fail(ctx, err, nil)
	}
	c.result.Store(res)
	c.logger.InfoContext(ctx, "Compilation succeeded",
		logger.Count(res.Len()),
		logger.Duration(time.Since(started)),
	)
	return Output{Result: res}, nil
}

// Reload re-reads one unit from disk and swaps it into the store.
// The cached result is dropped; the next Compile rebuilds from the updated
// store without a full rescan.
func (c *Compiler) Reload(ctx context.Context, locale, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.store.Load()
	if st == nil {
		return ErrNotScanned
	}
	next, err := c.scanner.Reload(ctx, st, locale, name)
	if err != nil {
		return err
	}
	if err := c.lifecycle.Fire(EventReload); err != nil {
		return err
	}
	c.store.Store(next)
	c.result.Store(nil)
	c.logger.DebugContext(ctx, "Unit reloaded", logger.Locale(locale), logger.Unit(locale+"/"+name))
	return nil
}

func (c *Compiler) scan(ctx context.Context, force bool) error {
	if !force && c.store.Load() != nil {
		return nil
	}
	st, err := c.scanner.Scan(ctx)
	if err != nil {
		c.store.Store(nil)
		return err
	}
	ws, err := c.scanProjects(ctx)
	if err != nil {
		c.store.Store(nil)
		return err
	}
	c.store.Store(st)
	c.scanned = ws
	c.logger.DebugContext(ctx, "Input scanned",
		logger.Path(c.scanner.Root()),
		logger.Count(st.Len()),
	)
	return nil
}

// fail moves the lifecycle to Failed and drops any result.
func (c *Compiler) fail(ctx context.Context, err error, diags diagnostic.List) (Output, error) {
	c.result.Store(nil)
	if ferr := c.lifecycle.Fire(EventFail); ferr != nil {
		err = errors.Join(err, ferr)
	}
	c.logger.WarnContext(ctx, "Compilation failed",
		logger.Count(diags.Len()),
		logger.Error(err),
	)
	return Output{Diagnostics: diags}, err
}
