// Package unit defines the in-memory model of one parsed translation source
// document: its locale, logical name, source path and the ordered value tree.
//
// A tree is built from three kinds of Value: String leaves, Table mappings
// that keep their keys in source order, and Array sequences. The top-level
// key "references" is reserved; it holds the alias table of the unit and is
// never part of the emitted content.
//
// # Usage
//
//	data := unit.NewTable()
//	data.Set("title", unit.String("Welcome, {name}!"))
//
//	u := unit.New("en", "home", "locales/en/home.yaml", data)
//	v, err := u.Lookup("title")
//	if err != nil {
//		var pe *unit.PathError
//		if errors.As(err, &pe) {
//			// pe.Segment names the first missing key
//		}
//	}
//
// # Key paths
//
// Lookups and KeyPaths use dotted paths. Array items are addressed with their
// decimal index, so "menu.items.0" is the first item of the "items" array.
package unit
