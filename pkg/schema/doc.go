// Package schema checks that every locale has the same shape as the
// primary locale.
//
// For each unit name the primary locale defines the set of dotted key paths
// that every other locale must provide. Values may differ, structure may
// not. Missing or extra files and missing or extra keys are reported as
// diagnostics; Validate turns a non-empty list into one aggregate error
// that unwraps to diagnostic.ErrSchemaMismatch.
//
//	if err := schema.Validate(st, "en"); err != nil {
//		var derr *diagnostic.Error
//		if errors.As(err, &derr) {
//			fmt.Println(derr.Diagnostics.Report())
//		}
//	}
//
// The reserved references entry is not part of the shape.
package schema
