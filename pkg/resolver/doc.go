// Package resolver expands the placeholders inside translation units.
//
// A string leaf may embed other values with {@path} and declare runtime
// parameters with {name}. An embedding path is split into an alias and a
// subpath. When the alias is declared in the unit's references table the
// value is looked up in the referenced unit; otherwise the whole path is
// looked up as a local key of the same unit. Declared aliases take
// precedence over local keys.
//
// References are written as "@unit[.path]" for neighbor units of the same
// locale, or "@@project.unit[.path]" for units of another project made
// available through a Workspace.
//
// Basic usage:
//
//	r := resolver.New(st, resolver.WithWorkspace(ws))
//	res, diags := r.Resolve(u)
//	if !diags.Empty() {
//		// the unit is omitted from the compiled output
//	}
//
// Problems are never returned as errors. They are collected as diagnostics
// for the resolved unit so that one pass surfaces all of them. Cycles across
// units and loops between local keys are reported with the full chain, for
// example "en/a → en/b → en/a".
package resolver
