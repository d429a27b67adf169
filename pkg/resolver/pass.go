package resolver

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/transkit/pkg/diagnostic"
	"github.com/dmitrymomot/transkit/pkg/store"
	"github.com/dmitrymomot/transkit/pkg/unit"
)

const chainSeparator = " → "

// pass holds the state of one top-level Resolve call.
// Every diagnostic raised during the pass belongs to the owner unit.
type pass struct {
	resolver *Resolver
	owner    *unit.Unit
	frames   map[string]*frame
	diags    diagnostic.List
}

// frame is a unit taking part in an expansion, bound to the store and
// project it was found in.
type frame struct {
	id       string
	project  string
	store    *store.Store
	unit     *unit.Unit
	content  *unit.Table
	aliases  map[string]*alias
	problems []diagnostic.Diagnostic
}

type alias struct {
	name    string
	ref     Reference
	store   *store.Store
	project string
	target  *unit.Unit
	problem *diagnostic.Diagnostic
}

func newPass(r *Resolver, owner *unit.Unit) *pass {
	return &pass{
		resolver: r,
		owner:    owner,
		frames:   make(map[string]*frame),
	}
}

func frameID(project string, u *unit.Unit) string {
	if project == "" {
		return u.ID()
	}
	return "@@" + project + "/" + u.ID()
}

func (p *pass) frameFor(st *store.Store, project string, u *unit.Unit) *frame {
	id := frameID(project, u)
	if f, ok := p.frames[id]; ok {
		return f
	}
	f := &frame{
		id:      id,
		project: project,
		store:   st,
		unit:    u,
		content: u.Content(),
		aliases: make(map[string]*alias),
	}
	p.frames[id] = f
	p.bindAliases(f)
	return f
}

func (p *pass) diagnostic(code diagnostic.Code, message, description string) diagnostic.Diagnostic {
	return diagnostic.New(p.owner, code, message, description)
}

func (p *pass) report(code diagnostic.Code, message, format string, args ...any) {
	p.diags.Add(p.diagnostic(code, message, fmt.Sprintf(format, args...)))
}

// checkAliases reports every broken alias declared by f, used or not.
func (p *pass) checkAliases(f *frame) {
	p.diags.Add(f.problems...)
	refs, ok := f.unit.References()
	if !ok {
		return
	}
	tbl, ok := refs.Table()
	if !ok {
		return
	}
	for _, name := range tbl.Keys() {
		if a := f.aliases[name]; a != nil && a.problem != nil {
			p.diags.Add(*a.problem)
		}
	}
}

func (p *pass) bindAliases(f *frame) {
	refs, ok := f.unit.References()
	if !ok {
		return
	}
	tbl, ok := refs.Table()
	if !ok {
		f.problems = append(f.problems, p.diagnostic(
			diagnostic.CodeInvalidReference,
			"malformed references",
			fmt.Sprintf("%q in %s must be a mapping of alias to reference, got %s", unit.ReferencesKey, f.id, refs.Kind()),
		))
		return
	}

	for _, name := range tbl.Keys() {
		v, _ := tbl.Get(name)
		a := &alias{name: name}
		f.aliases[name] = a

		raw, ok := v.Str()
		if !ok {
			a.fail(p.diagnostic(
				diagnostic.CodeInvalidReference,
				"malformed reference",
				fmt.Sprintf("alias %q in %s must be a reference string, got %s", name, f.id, v.Kind()),
			))
			continue
		}
		ref, err := ParseReference(raw)
		if err != nil {
			a.fail(p.diagnostic(
				diagnostic.CodeInvalidReference,
				"malformed reference",
				fmt.Sprintf("alias %q in %s: %v; expected \"@unit[.path]\" or \"@@project.unit[.path]\"", name, f.id, err),
			))
			continue
		}
		a.ref = ref
		p.bindTarget(f, a)
	}
}

func (p *pass) bindTarget(f *frame, a *alias) {
	locale := f.unit.Locale
	switch a.ref.Scope {
	case ScopeNeighbor:
		if a.ref.Unit == f.unit.Name {
			a.fail(p.selfReference(f, a))
			return
		}
		target, ok := f.store.Unit(locale, a.ref.Unit)
		if !ok {
			a.fail(p.unresolved(f, a, fmt.Sprintf("unit %q not found in locale %q", a.ref.Unit, locale)))
			return
		}
		a.store, a.project, a.target = f.store, f.project, target

	case ScopeWorkspace:
		if a.ref.Project == f.project && a.ref.Unit == f.unit.Name {
			a.fail(p.selfReference(f, a))
			return
		}
		st, ok := p.resolver.projectStore(a.ref.Project)
		if !ok {
			if p.resolver.workspace == nil {
				a.fail(p.unresolved(f, a, fmt.Sprintf("project %q is not available: no workspace configured", a.ref.Project)))
			} else {
				a.fail(p.unresolved(f, a, fmt.Sprintf("project %q not found in workspace", a.ref.Project)))
			}
			return
		}
		target, ok := st.Unit(locale, a.ref.Unit)
		if !ok {
			a.fail(p.unresolved(f, a, fmt.Sprintf("unit %q not found in locale %q of project %q", a.ref.Unit, locale, a.ref.Project)))
			return
		}
		a.store, a.project, a.target = st, a.ref.Project, target
	}
}

func (a *alias) fail(d diagnostic.Diagnostic) {
	a.problem = &d
}

func (p *pass) selfReference(f *frame, a *alias) diagnostic.Diagnostic {
	return p.diagnostic(
		diagnostic.CodeSelfReference,
		"self-reference",
		fmt.Sprintf("alias %q in %s references its own unit %q", a.name, f.id, a.ref.Unit),
	)
}

func (p *pass) unresolved(f *frame, a *alias, reason string) diagnostic.Diagnostic {
	return p.diagnostic(
		diagnostic.CodeUnresolvedAlias,
		"unresolved alias",
		fmt.Sprintf("alias %q (%s) in %s: %s", a.name, a.ref, f.id, reason),
	)
}

// expand substitutes the embeddings of s in the context of frame f.
// chain lists the frames being expanded, keys the local keys of f being
// expanded. Placeholders that cannot be resolved are left in place.
func (p *pass) expand(f *frame, s string, chain, keys []string) string {
	if !HasEmbeddings(s) {
		return s
	}
	return embeddingPattern.ReplaceAllStringFunc(s, func(match string) string {
		path := embeddingPattern.FindStringSubmatch(match)[1]
		if resolved, ok := p.embed(f, path, chain, keys); ok {
			return resolved
		}
		return match
	})
}

func (p *pass) embed(f *frame, path string, chain, keys []string) (string, bool) {
	name, sub, _ := strings.Cut(path, ".")
	if a, ok := f.aliases[name]; ok {
		return p.embedAlias(f, a, path, sub, chain)
	}
	return p.embedLocal(f, path, chain, keys)
}

func (p *pass) embedAlias(f *frame, a *alias, path, sub string, chain []string) (string, bool) {
	if a.problem != nil {
		p.diags.Add(*a.problem)
		return "", false
	}

	target := p.frameFor(a.store, a.project, a.target)
	if slices.Contains(chain, target.id) {
		p.report(diagnostic.CodeCircularReference, "circular reference",
			"{@%s} in %s closes a reference cycle: %s",
			path, f.id, strings.Join(append(slices.Clone(chain), target.id), chainSeparator))
		return "", false
	}

	keyPath := joinPath(a.ref.Path, sub)
	if keyPath == "" {
		p.report(diagnostic.CodeInvalidEmbedding, "invalid embedding",
			"{@%s} in %s points at the whole unit %s, not at a key", path, f.id, target.id)
		return "", false
	}

	v, err := unit.Lookup(target.content, keyPath)
	if err != nil {
		p.report(diagnostic.CodeMissingPath, "missing path",
			"{@%s} in %s: %v in %s", path, f.id, err, target.id)
		return "", false
	}
	s, ok := p.stringValue(f, path, target, keyPath, v)
	if !ok {
		return "", false
	}
	return p.expand(target, s, append(slices.Clone(chain), target.id), []string{keyPath}), true
}

func (p *pass) embedLocal(f *frame, path string, chain, keys []string) (string, bool) {
	if slices.Contains(keys, path) {
		p.report(diagnostic.CodeCircularReference, "circular reference",
			"local keys of %s reference each other: %s",
			f.id, strings.Join(append(slices.Clone(keys), path), chainSeparator))
		return "", false
	}

	v, err := unit.Lookup(f.content, path)
	if err != nil {
		first, _, _ := strings.Cut(path, ".")
		if _, ok := f.content.Get(first); !ok {
			p.report(diagnostic.CodeMissingKey, "missing key",
				"{@%s} in %s: %q is neither a declared alias nor a local key", path, f.id, first)
		} else {
			p.report(diagnostic.CodeMissingPath, "missing path",
				"{@%s} in %s: %v", path, f.id, err)
		}
		return "", false
	}
	s, ok := p.stringValue(f, path, f, path, v)
	if !ok {
		return "", false
	}
	return p.expand(f, s, chain, append(slices.Clone(keys), path)), true
}

func (p *pass) stringValue(f *frame, path string, target *frame, keyPath string, v unit.Value) (string, bool) {
	s, ok := v.Str()
	if !ok {
		p.report(diagnostic.CodeInvalidEmbedding, "invalid embedding",
			"{@%s} in %s resolves to %s %q of %s; only strings can be embedded",
			path, f.id, v.Kind(), keyPath, target.id)
		return "", false
	}
	return s, true
}
