package resolver

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/dmitrymomot/transkit/pkg/diagnostic"
	"github.com/dmitrymomot/transkit/pkg/store"
	"github.com/dmitrymomot/transkit/pkg/unit"
)

// Metadata identifies the unit a result was produced from.
type Metadata struct {
	Name   string `json:"name"`
	Locale string `json:"locale"`
	Path   string `json:"path"`
}

// Result is a fully substituted unit.
type Result struct {
	Metadata   Metadata    `json:"metadata"`
	Content    *unit.Table `json:"content"`
	Parameters []string    `json:"parameters"`

	// LeafParameters maps the dotted path of every leaf that declares
	// parameters to its own parameter list.
	LeafParameters map[string][]string `json:"-"`
}

// Resolver expands the units of one store.
type Resolver struct {
	store     *store.Store
	project   string
	workspace Workspace
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithWorkspace enables "@@project.unit" references.
// Without a workspace such references are reported as unresolved.
func WithWorkspace(ws Workspace) Option {
	return func(r *Resolver) {
		r.workspace = ws
	}
}

// WithProject names the project the store belongs to. Workspace references
// to that project resolve against the resolver's own store, with or without
// a workspace.
func WithProject(name string) Option {
	return func(r *Resolver) {
		r.project = name
	}
}

// WithLogger sets the logger. A discard logger is used by default.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a resolver for the given store.
func New(st *store.Store, opts ...Option) *Resolver {
	r := &Resolver{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve substitutes every embedding of u and collects its parameters.
// When any diagnostic is raised the result is nil: a unit with problems
// contributes nothing to the compiled output.
func (r *Resolver) Resolve(u *unit.Unit) (*Result, diagnostic.List) {
	p := newPass(r, u)
	root := p.frameFor(r.store, r.project, u)
	p.checkAliases(root)

	res := &Result{
		Metadata:       Metadata{Name: u.Name, Locale: u.Locale, Path: u.Path},
		Content:        unit.NewTable(),
		Parameters:     []string{},
		LeafParameters: make(map[string][]string),
	}
	for _, k := range root.content.Keys() {
		v, _ := root.content.Get(k)
		res.Content.Set(k, p.value(root, k, v, res))
	}

	if !p.diags.Empty() {
		r.logger.Debug("Unit has diagnostics", "unit", u.ID(), "count", p.diags.Len())
		return nil, p.diags
	}
	r.logger.Debug("Unit resolved", "unit", u.ID(), "parameters", len(res.Parameters))
	return res, nil
}

// ResolveLocale resolves every unit of a locale in unit name order.
// Units with diagnostics are left out of the results; their diagnostics are
// returned together.
func (r *Resolver) ResolveLocale(locale string) ([]*Result, diagnostic.List) {
	var (
		results []*Result
		diags   diagnostic.List
	)
	for _, u := range r.store.Units(locale) {
		res, ds := r.Resolve(u)
		if !ds.Empty() {
			diags.Add(ds...)
			continue
		}
		results = append(results, res)
	}
	return results, diags
}

func (p *pass) value(f *frame, path string, v unit.Value, res *Result) unit.Value {
	switch v.Kind() {
	case unit.KindString:
		s, _ := v.Str()
		out := p.expand(f, s, []string{f.id}, []string{path})
		if params := ExtractParameters(out); len(params) > 0 {
			res.LeafParameters[path] = params
			res.Parameters = mergeParameters(res.Parameters, params...)
		}
		return unit.String(out)
	case unit.KindTable:
		t, _ := v.Table()
		out := unit.NewTable()
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			out.Set(k, p.value(f, joinPath(path, k), child, res))
		}
		return unit.TableValue(out)
	case unit.KindArray:
		items, _ := v.Items()
		out := make([]unit.Value, len(items))
		for i, item := range items {
			out[i] = p.value(f, joinPath(path, strconv.Itoa(i)), item, res)
		}
		return unit.Array(out...)
	default:
		return v
	}
}

func joinPath(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}
