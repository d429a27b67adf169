// Package emitter writes a compiled result as JSON translation bundles.
//
// Two layouts are supported:
//
//	bundle: <locale>.json        {"<unit>": {...}, ...} in unit name order
//	split:  <locale>/<unit>.json {...}
//
// WithManifest adds manifest.json describing the build: its id, the primary
// locale, the written files and the parameters declared by every unit.
//
// Files go to a Storage. LocalStorage writes under a base directory and
// refuses paths escaping it. S3Storage uploads objects to a bucket through
// the AWS SDK; S3-compatible services are reached with a custom endpoint.
//
//	st, err := emitter.NewLocalStorage("public/locales")
//	if err != nil {
//		return err
//	}
//	paths, err := emitter.New(st, emitter.WithManifest()).Emit(ctx, res)
package emitter
