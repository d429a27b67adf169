package emitter

import (
	"fmt"
	"strings"
)

// Layout selects how compiled units are grouped into files.
type Layout string

const (
	// LayoutBundle writes one <locale>.json per locale holding every unit.
	LayoutBundle Layout = "bundle"
	// LayoutSplit writes one <locale>/<unit>.json per unit.
	LayoutSplit Layout = "split"
)

// ParseLayout validates a layout name. An empty name selects LayoutBundle.
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutBundle:
		return LayoutBundle, nil
	case LayoutSplit:
		return LayoutSplit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLayout, s)
	}
}

// BundlePath returns the file path of a locale bundle.
func BundlePath(locale string) string {
	return locale + ".json"
}

// UnitPath returns the file path of a single unit in the split layout.
func UnitPath(locale, name string) string {
	return locale + "/" + name + ".json"
}
