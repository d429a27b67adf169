package compiler

import (
	"log/slog"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithPrimaryLocale sets the schema-of-record locale. Defaults to "en".
func WithPrimaryLocale(locale string) Option {
	return func(c *Compiler) {
		if locale != "" {
			c.primary = locale
		}
	}
}

// WithWorkspaceProjects registers projects for "@@project.unit" references.
// They are scanned together with the input, so every performed scan,
// including the one behind Force, sees their current content. A project
// with the name given to WithProject is skipped: references to it resolve
// against the compiler's own store.
func WithWorkspaceProjects(projects ...Project) Option {
	return func(c *Compiler) {
		for _, p := range projects {
			if p.Scanner != nil {
				c.projects = append(c.projects, p)
			}
		}
	}
}

// WithProject names the project being compiled.
func WithProject(name string) Option {
	return func(c *Compiler) {
		c.project = name
	}
}

// WithLogger sets the logger. A discard logger is used by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// CompileOption tunes a single Compile call.
type CompileOption func(*compileOptions)

type compileOptions struct {
	force   bool
	collect bool
}

// Force discards the cached result and store and rebuilds from a fresh scan.
func Force() CompileOption {
	return func(o *compileOptions) {
		o.force = true
	}
}

// CollectDiagnostics makes Compile report resolution diagnostics through
// Output.Diagnostics with a nil error instead of failing with a
// *diagnostic.Error. Fatal errors are still returned.
func CollectDiagnostics() CompileOption {
	return func(o *compileOptions) {
		o.collect = true
	}
}
