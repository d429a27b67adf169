// Package compiler orchestrates a translation build.
//
// A Compiler owns the unit store and the last compiled Result. Each
// compilation walks a fixed lifecycle:
//
//	Idle → Scanning → Validating → Resolving → Succeeded | Failed
//
// Scanning parses the input tree into a new store, Validating checks every
// locale against the primary locale (schema mismatch is fatal) and Resolving
// expands every unit. Units with diagnostics are left out; when any
// diagnostic was raised the whole compilation fails and no result is kept.
//
// Results are cached. Compile without Force returns the previous result
// when there is one; Force always rescans and rebuilds.
//
//	c := compiler.New(store.NewScanner("locales"), compiler.WithPrimaryLocale("en"))
//	out, err := c.Compile(ctx)
//	if err != nil {
//		var derr *diagnostic.Error
//		if errors.As(err, &derr) {
//			fmt.Print(derr.Diagnostics.Report())
//		}
//	}
//
// Projects registered with WithWorkspaceProjects are rescanned with the
// input, so "@@project.unit" references never outlive a forced compilation.
// A failed scan clears the store; the next Compile scans again.
//
// Scan, Compile and Reload are serialised. The store and result are
// published atomically, so Result and Store may be called from any goroutine.
package compiler
