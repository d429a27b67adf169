package schema

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/transkit/pkg/diagnostic"
	"github.com/dmitrymomot/transkit/pkg/store"
	"github.com/dmitrymomot/transkit/pkg/unit"
)

// Validate compares every locale of the store with the primary locale and
// returns a *diagnostic.Error listing every discrepancy, or nil.
func Validate(st *store.Store, primary string) error {
	diags, err := Check(st, primary)
	if err != nil {
		return err
	}
	return diags.Err(diagnostic.ErrSchemaMismatch)
}

// Check is like Validate but returns the discrepancies as a sorted list.
// An error is returned only when the primary locale cannot be found.
func Check(st *store.Store, primary string) (diagnostic.List, error) {
	locale, err := PrimaryLocale(st, primary)
	if err != nil {
		return nil, err
	}

	shapes := make(map[string][]string)
	for _, u := range st.Units(locale) {
		shapes[u.Name] = u.KeyPaths()
	}

	var diags diagnostic.List
	for _, other := range st.Locales() {
		if other == locale {
			continue
		}
		diags.Add(compareLocale(st, locale, other, shapes)...)
	}
	diags.Sort()
	return diags, nil
}

// PrimaryLocale returns the store locale matching primary. An exact match
// wins; otherwise the first locale naming the same BCP 47 tag is used, so
// "en-us" finds an "en-US" directory.
func PrimaryLocale(st *store.Store, primary string) (string, error) {
	primary = strings.TrimSpace(primary)
	if primary == "" {
		return "", ErrNoPrimaryLocale
	}
	if st.HasLocale(primary) {
		return primary, nil
	}

	want, err := language.Parse(primary)
	if err == nil {
		for _, locale := range st.Locales() {
			if tag, err := language.Parse(locale); err == nil && tag == want {
				return locale, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q (available: %s)", ErrPrimaryLocaleMissing, primary, strings.Join(st.Locales(), ", "))
}

func compareLocale(st *store.Store, primary, locale string, shapes map[string][]string) diagnostic.List {
	var diags diagnostic.List

	for _, name := range st.Names(primary) {
		ref, _ := st.Unit(primary, name)
		u, ok := st.Unit(locale, name)
		if !ok {
			diags.Add(diagnostic.Diagnostic{
				Path:        expectedPath(ref, locale),
				Locale:      locale,
				Name:        name,
				Code:        diagnostic.CodeMissingFile,
				Message:     "missing file",
				Description: fmt.Sprintf("unit %q exists in primary locale %q but not in %q", name, primary, locale),
			})
			continue
		}
		diags.Add(compareKeys(u, primary, shapes[name])...)
	}

	for _, u := range st.Units(locale) {
		if _, ok := st.Unit(primary, u.Name); ok {
			continue
		}
		diags.Add(diagnostic.New(u, diagnostic.CodeExtraFile, "extra file",
			fmt.Sprintf("unit %q exists in %q but not in primary locale %q", u.Name, locale, primary)))
	}
	return diags
}

func compareKeys(u *unit.Unit, primary string, want []string) diagnostic.List {
	var diags diagnostic.List
	have := u.KeyPaths()

	for _, key := range want {
		if !slices.Contains(have, key) {
			diags.Add(diagnostic.New(u, diagnostic.CodeMissingSchema, "missing key",
				fmt.Sprintf("key %q is defined in primary locale %q but missing here", key, primary)))
		}
	}
	for _, key := range have {
		if !slices.Contains(want, key) {
			diags.Add(diagnostic.New(u, diagnostic.CodeExtraSchema, "extra key",
				fmt.Sprintf("key %q is not defined in primary locale %q", key, primary)))
		}
	}
	return diags
}

// expectedPath guesses where the missing unit file should live by swapping
// the locale directory of the primary unit's path.
func expectedPath(ref *unit.Unit, locale string) string {
	if ref.Path == "" {
		return filepath.Join(locale, ref.Name)
	}
	dir := filepath.Dir(filepath.Dir(ref.Path))
	return filepath.Join(dir, locale, filepath.Base(ref.Path))
}
