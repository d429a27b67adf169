package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transkit/pkg/source"
	"github.com/dmitrymomot/transkit/pkg/store"
	"github.com/dmitrymomot/transkit/pkg/unit"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func stringAt(t *testing.T, u *unit.Unit, path string) string {
	t.Helper()
	v, err := u.Lookup(path)
	require.NoError(t, err)
	s, ok := v.Str()
	require.True(t, ok)
	return s
}

func TestScanner_Scan(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "en/home.yaml", "title: Home\n")
	writeFile(t, root, "en/common.json", `{"ok": "OK"}`)
	writeFile(t, root, "en/menu.toml", "about = \"About\"\n")
	writeFile(t, root, "en/footer.hcl", "copyright = \"ACME\"\n")
	writeFile(t, root, "en/README.md", "ignored")
	writeFile(t, root, "en/.hidden.yaml", "title: hidden\n")
	writeFile(t, root, "en/_draft.yaml", "title: draft\n")
	writeFile(t, root, "en/nested/deep.yaml", "title: too deep\n")
	writeFile(t, root, "fr/home.yaml", "title: Accueil\n")
	writeFile(t, root, ".git/config.yaml", "x: y\n")
	writeFile(t, root, "_shared/home.yaml", "title: shared\n")
	writeFile(t, root, "dist/en.json", `{"home": {}}`)
	writeFile(t, root, "stray.yaml", "title: stray\n")

	sc := store.NewScanner(root, store.WithOutputDir(filepath.Join(root, "dist")))
	st, err := sc.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "fr"}, st.Locales())
	assert.Equal(t, []string{"common", "footer", "home", "menu"}, st.Names("en"))
	assert.Equal(t, []string{"home"}, st.Names("fr"))
	assert.Equal(t, 5, st.Len())

	home, ok := st.Unit("fr", "home")
	require.True(t, ok)
	assert.Equal(t, "fr", home.Locale)
	assert.Equal(t, filepath.Join(root, "fr", "home.yaml"), home.Path)
	assert.Equal(t, "Accueil", stringAt(t, home, "title"))

	footer, ok := st.Unit("en", "footer")
	require.True(t, ok)
	assert.Equal(t, "ACME", stringAt(t, footer, "copyright"))
}

func TestScanner_ScanBuildsNewStore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "en/home.yaml", "title: One\n")

	sc := store.NewScanner(root)
	first, err := sc.Scan(context.Background())
	require.NoError(t, err)

	writeFile(t, root, "en/home.yaml", "title: Two\n")
	second, err := sc.Scan(context.Background())
	require.NoError(t, err)

	h1, _ := first.Unit("en", "home")
	h2, _ := second.Unit("en", "home")
	assert.Equal(t, "One", stringAt(t, h1, "title"))
	assert.Equal(t, "Two", stringAt(t, h2, "title"))
}

func TestScanner_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing input root", func(t *testing.T) {
		t.Parallel()
		_, err := store.NewScanner(filepath.Join(t.TempDir(), "nope")).Scan(context.Background())
		assert.ErrorIs(t, err, store.ErrFailedToAccessInput)
	})

	t.Run("input root is a file", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "file.yaml", "a: b\n")
		_, err := store.NewScanner(path).Scan(context.Background())
		assert.ErrorIs(t, err, store.ErrInputNotDirectory)
	})

	t.Run("parse failure is fatal", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, root, "en/home.yaml", "title: [broken\n")
		_, err := store.NewScanner(root).Scan(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrFailedToParseFile)
		assert.ErrorIs(t, err, source.ErrFailedToParseYAML)
		assert.Contains(t, err.Error(), "home.yaml")
	})

	t.Run("duplicate unit name", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, root, "en/home.yaml", "title: A\n")
		writeFile(t, root, "en/home.json", `{"title": "B"}`)
		_, err := store.NewScanner(root).Scan(context.Background())
		assert.ErrorIs(t, err, store.ErrDuplicateUnit)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFile(t, root, "en/home.yaml", "title: A\n")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := store.NewScanner(root).Scan(ctx)
		assert.ErrorIs(t, err, store.ErrScanCancelled)
	})
}

func TestScanner_WithParsers(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "en/home.yaml", "title: A\n")
	writeFile(t, root, "en/common.json", `{"ok": "OK"}`)

	st, err := store.NewScanner(root, store.WithParsers(source.NewJSONParser())).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"common"}, st.Names("en"))
}

func TestScanner_Reload(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "en/home.yaml", "title: Before\n")
	writeFile(t, root, "en/common.yaml", "ok: OK\n")

	sc := store.NewScanner(root)
	st, err := sc.Scan(context.Background())
	require.NoError(t, err)

	writeFile(t, root, "en/home.yaml", "title: After\n")
	reloaded, err := sc.Reload(context.Background(), st, "en", "home")
	require.NoError(t, err)

	before, _ := st.Unit("en", "home")
	after, _ := reloaded.Unit("en", "home")
	assert.Equal(t, "Before", stringAt(t, before, "title"), "original store must not change")
	assert.Equal(t, "After", stringAt(t, after, "title"))

	c1, _ := st.Unit("en", "common")
	c2, _ := reloaded.Unit("en", "common")
	assert.Same(t, c1, c2, "untouched units are shared")

	_, err = sc.Reload(context.Background(), st, "en", "missing")
	assert.ErrorIs(t, err, store.ErrUnitNotFound)
}

func TestFromUnits(t *testing.T) {
	t.Parallel()

	a := unit.New("en", "a", "en/a.yaml", nil)
	b := unit.New("fr", "a", "fr/a.yaml", nil)

	st, err := store.FromUnits(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, st.Locales())
	assert.True(t, st.HasLocale("fr"))
	assert.False(t, st.HasLocale("de"))
	assert.False(t, st.Empty())

	_, err = store.FromUnits(a, unit.New("en", "a", "en/a.json", nil))
	assert.ErrorIs(t, err, store.ErrDuplicateUnit)

	var nilStore *store.Store
	assert.True(t, nilStore.Empty())
	assert.Equal(t, 0, nilStore.Len())
}
