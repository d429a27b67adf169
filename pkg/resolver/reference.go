package resolver

import (
	"regexp"
	"strings"
)

// Scope tells where a reference target lives.
type Scope int

const (
	// ScopeNeighbor targets a unit of the same locale in the same project.
	ScopeNeighbor Scope = iota
	// ScopeWorkspace targets a unit of another project.
	ScopeWorkspace
)

func (s Scope) String() string {
	if s == ScopeWorkspace {
		return "workspace"
	}
	return "neighbor"
}

var (
	neighborRef  = regexp.MustCompile(`^@([A-Za-z0-9_-]+)((?:\.[A-Za-z0-9_-]+)*)$`)
	workspaceRef = regexp.MustCompile(`^@@([A-Za-z0-9_-]+)\.([A-Za-z0-9_-]+)((?:\.[A-Za-z0-9_-]+)*)$`)
)

// Reference is a parsed reference target.
type Reference struct {
	Raw     string
	Scope   Scope
	Project string
	Unit    string
	Path    string
}

// ParseReference parses a reference string such as "@common.buttons" or
// "@@shared.common.buttons.ok".
func ParseReference(raw string) (Reference, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Reference{}, &ReferenceError{Raw: raw, Err: ErrEmptyReference}
	}

	if m := workspaceRef.FindStringSubmatch(s); m != nil {
		return Reference{
			Raw:     raw,
			Scope:   ScopeWorkspace,
			Project: m[1],
			Unit:    m[2],
			Path:    strings.TrimPrefix(m[3], "."),
		}, nil
	}
	if m := neighborRef.FindStringSubmatch(s); m != nil {
		return Reference{
			Raw:   raw,
			Scope: ScopeNeighbor,
			Unit:  m[1],
			Path:  strings.TrimPrefix(m[2], "."),
		}, nil
	}
	return Reference{}, &ReferenceError{Raw: raw, Err: ErrMalformedReference}
}

// String renders the reference back in its canonical form.
func (r Reference) String() string {
	var b strings.Builder
	b.WriteByte('@')
	if r.Scope == ScopeWorkspace {
		b.WriteByte('@')
		b.WriteString(r.Project)
		b.WriteByte('.')
	}
	b.WriteString(r.Unit)
	if r.Path != "" {
		b.WriteByte('.')
		b.WriteString(r.Path)
	}
	return b.String()
}
