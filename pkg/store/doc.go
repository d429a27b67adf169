// Package store indexes translation units by locale and unit name and builds
// that index by scanning an input directory.
//
// The input root holds one directory per locale and one source file per unit
// inside it:
//
//	locales/
//	  en/home.yaml
//	  en/common.json
//	  fr/home.yaml
//	  fr/common.json
//
// Directories and files whose names start with "." or "_" are ignored, and so
// is the configured output directory when it lives under the input root.
//
// A Store is never mutated once returned. Scan always builds a new one and
// Reload returns a copy that shares every unit except the reloaded one, so a
// published store can be read concurrently while the next one is built.
//
//	sc := store.NewScanner("./locales", store.WithOutputDir("./locales/_dist"))
//	st, err := sc.Scan(ctx)
//	if err != nil {
//		return err // parse failures are fatal
//	}
//	home, ok := st.Unit("en", "home")
package store
