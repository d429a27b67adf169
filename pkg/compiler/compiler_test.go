package compiler_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transkit/pkg/compiler"
	"github.com/dmitrymomot/transkit/pkg/diagnostic"
	"github.com/dmitrymomot/transkit/pkg/schema"
	"github.com/dmitrymomot/transkit/pkg/store"
	"github.com/dmitrymomot/transkit/pkg/unit"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func validTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "en/common.yaml", "brand: ACME\nok: OK\n")
	writeFile(t, root, "en/home.yaml", `
references:
  common: "@common"
title: "Welcome to {@common.brand}, {name}"
cta: "{@common.ok}"
`)
	writeFile(t, root, "fr/common.yaml", "brand: ACME\nok: D'accord\n")
	writeFile(t, root, "fr/home.yaml", `
references:
  common: "@common"
title: "Bienvenue chez {@common.brand}, {name}"
cta: "{@common.ok}"
`)
	return root
}

func leaf(t *testing.T, res *compiler.Result, locale, name, path string) string {
	t.Helper()
	u, ok := res.Unit(locale, name)
	require.True(t, ok, "%s/%s not compiled", locale, name)
	v, err := unit.Lookup(u.Content, path)
	require.NoError(t, err)
	s, _ := v.Str()
	return s
}

func TestCompile_Success(t *testing.T) {
	t.Parallel()

	c := compiler.New(store.NewScanner(validTree(t)), compiler.WithPrimaryLocale("en"))
	assert.Equal(t, compiler.StateIdle, c.State())

	out, err := c.Compile(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	assert.Empty(t, out.Diagnostics)
	assert.Equal(t, compiler.StateSucceeded, c.State())
	assert.Same(t, out.Result, c.Result())

	res := out.Result
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", res.ID.String())
	assert.Equal(t, "en", res.Primary)
	assert.Equal(t, []string{"en", "fr"}, res.LocaleNames())
	assert.Equal(t, 4, res.Len())
	assert.Equal(t, "Welcome to ACME, {name}", leaf(t, res, "en", "home", "title"))
	assert.Equal(t, "D'accord", leaf(t, res, "fr", "home", "cta"))

	home, _ := res.Unit("en", "home")
	assert.Equal(t, []string{"name"}, home.Parameters)
	assert.Equal(t, map[string][]string{"common": {}, "home": {"name"}}, res.Parameters("en"))

	units := res.Units("en")
	require.Len(t, units, 2)
	assert.Equal(t, "common", units[0].Metadata.Name)
	assert.Equal(t, "home", units[1].Metadata.Name)
}

func TestCompile_CacheAndForce(t *testing.T) {
	t.Parallel()

	root := validTree(t)
	c := compiler.New(store.NewScanner(root))

	first, err := c.Compile(context.Background())
	require.NoError(t, err)
	second, err := c.Compile(context.Background())
	require.NoError(t, err)
	assert.Same(t, first.Result, second.Result)

	writeFile(t, root, "en/common.yaml", "brand: Globex\nok: OK\n")

	cached, err := c.Compile(context.Background())
	require.NoError(t, err)
	assert.Same(t, first.Result, cached.Result)
	assert.Equal(t, "Welcome to ACME, {name}", leaf(t, cached.Result, "en", "home", "title"))

	forced, err := c.Compile(context.Background(), compiler.Force())
	require.NoError(t, err)
	assert.NotSame(t, first.Result, forced.Result)
	assert.NotEqual(t, first.Result.ID, forced.Result.ID)
	assert.Equal(t, "Welcome to Globex, {name}", leaf(t, forced.Result, "en", "home", "title"))
}

func TestCompile_Diagnostics(t *testing.T) {
	t.Parallel()

	newTree := func(t *testing.T) string {
		root := validTree(t)
		writeFile(t, root, "en/home.yaml", `
references:
  common: "@common"
  me: "@home"
title: "Welcome to {@common.brand}, {name}"
cta: "{@common.cancel}"
`)
		return root
	}

	t.Run("fails with aggregate error", func(t *testing.T) {
		t.Parallel()
		c := compiler.New(store.NewScanner(newTree(t)))

		out, err := c.Compile(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, diagnostic.ErrCompilationFailed)
		assert.Nil(t, out.Result)
		assert.Nil(t, c.Result())
		assert.Equal(t, compiler.StateFailed, c.State())

		var derr *diagnostic.Error
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, []diagnostic.Code{
			diagnostic.CodeMissingPath,
			diagnostic.CodeSelfReference,
		}, derr.Diagnostics.Codes())
		assert.Equal(t, derr.Diagnostics, out.Diagnostics)
		assert.Contains(t, err.Error(), "home.yaml")
	})

	t.Run("collects diagnostics without error", func(t *testing.T) {
		t.Parallel()
		c := compiler.New(store.NewScanner(newTree(t)))

		out, err := c.Compile(context.Background(), compiler.CollectDiagnostics())
		require.NoError(t, err)
		assert.Nil(t, out.Result)
		assert.Len(t, out.Diagnostics, 2)
		assert.Equal(t, compiler.StateFailed, c.State())
		assert.Nil(t, c.Result())
	})

	t.Run("failure drops a previous result", func(t *testing.T) {
		t.Parallel()
		root := validTree(t)
		c := compiler.New(store.NewScanner(root))
		_, err := c.Compile(context.Background())
		require.NoError(t, err)
		require.NotNil(t, c.Result())

		writeFile(t, root, "en/home.yaml", "title: \"{@nothing}\"\ncta: x\n")
		_, err = c.Compile(context.Background(), compiler.Force())
		require.Error(t, err)
		assert.Nil(t, c.Result())

		writeFile(t, root, "en/home.yaml", "title: Fixed\ncta: x\n")
		out, err := c.Compile(context.Background(), compiler.Force())
		require.NoError(t, err)
		assert.Equal(t, "Fixed", leaf(t, out.Result, "en", "home", "title"))
		assert.Equal(t, compiler.StateSucceeded, c.State())
	})
}

func TestCompile_FatalErrors(t *testing.T) {
	t.Parallel()

	t.Run("schema mismatch", func(t *testing.T) {
		t.Parallel()
		root := validTree(t)
		writeFile(t, root, "fr/home.yaml", "title: Bonjour\n")
		c := compiler.New(store.NewScanner(root))

		out, err := c.Compile(context.Background(), compiler.CollectDiagnostics())
		require.Error(t, err)
		assert.ErrorIs(t, err, diagnostic.ErrSchemaMismatch)
		assert.Equal(t, []diagnostic.Code{diagnostic.CodeMissingSchema}, out.Diagnostics.Codes())
		assert.Equal(t, compiler.StateFailed, c.State())
	})

	t.Run("primary locale missing", func(t *testing.T) {
		t.Parallel()
		c := compiler.New(store.NewScanner(validTree(t)), compiler.WithPrimaryLocale("de"))
		_, err := c.Compile(context.Background())
		assert.ErrorIs(t, err, schema.ErrPrimaryLocaleMissing)
	})

	t.Run("parse failure", func(t *testing.T) {
		t.Parallel()
		root := validTree(t)
		writeFile(t, root, "fr/broken.json", "{")
		c := compiler.New(store.NewScanner(root))
		_, err := c.Compile(context.Background())
		assert.ErrorIs(t, err, store.ErrFailedToParseFile)
		assert.Nil(t, c.Store())
		assert.Equal(t, compiler.StateFailed, c.State())
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := compiler.New(store.NewScanner(validTree(t)))
		_, err := c.Compile(ctx)
		assert.ErrorIs(t, err, store.ErrScanCancelled)
	})
}

func TestScan(t *testing.T) {
	t.Parallel()

	root := validTree(t)
	c := compiler.New(store.NewScanner(root))

	require.NoError(t, c.Scan(context.Background(), false))
	first := c.Store()
	require.NotNil(t, first)
	assert.Equal(t, compiler.StateIdle, c.State())

	require.NoError(t, c.Scan(context.Background(), false))
	assert.Same(t, first, c.Store(), "scan without force is a no-op once populated")

	_, err := c.Compile(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, c.Store(), "compile reuses the scanned store")

	require.NoError(t, c.Scan(context.Background(), true))
	assert.NotSame(t, first, c.Store())
	assert.Nil(t, c.Result(), "forced scan invalidates the cached result")
}

func TestReload(t *testing.T) {
	t.Parallel()

	root := validTree(t)
	c := compiler.New(store.NewScanner(root))

	assert.ErrorIs(t, c.Reload(context.Background(), "en", "common"), compiler.ErrNotScanned)

	first, err := c.Compile(context.Background())
	require.NoError(t, err)

	writeFile(t, root, "en/common.yaml", "brand: Initech\nok: OK\n")
	require.NoError(t, c.Reload(context.Background(), "en", "common"))
	assert.Nil(t, c.Result())
	assert.Equal(t, compiler.StateIdle, c.State())

	out, err := c.Compile(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first.Result, out.Result)
	assert.Equal(t, "Welcome to Initech, {name}", leaf(t, out.Result, "en", "home", "title"))

	assert.ErrorIs(t, c.Reload(context.Background(), "en", "missing"), store.ErrUnitNotFound)
}

func TestWorkspace(t *testing.T) {
	t.Parallel()

	t.Run("forced compile rescans projects", func(t *testing.T) {
		t.Parallel()
		shared := t.TempDir()
		writeFile(t, shared, "en/legal.yaml", "copyright: \"© ACME\"\n")
		app := t.TempDir()
		writeFile(t, app, "en/footer.yaml", `
references:
  legal: "@@shared.legal"
text: "{@legal.copyright}"
`)
		c := compiler.New(store.NewScanner(app),
			compiler.WithProject("app"),
			compiler.WithWorkspaceProjects(compiler.Project{Name: "shared", Scanner: store.NewScanner(shared)}),
		)

		ctx := context.Background()
		out, err := c.Compile(ctx)
		require.NoError(t, err)
		assert.Equal(t, "© ACME", leaf(t, out.Result, "en", "footer", "text"))

		writeFile(t, shared, "en/legal.yaml", "copyright: \"© Globex\"\n")

		cached, err := c.Compile(ctx)
		require.NoError(t, err)
		assert.Same(t, out.Result, cached.Result)

		forced, err := c.Compile(ctx, compiler.Force())
		require.NoError(t, err)
		assert.Equal(t, "© Globex", leaf(t, forced.Result, "en", "footer", "text"))
	})

	t.Run("own project resolves against the compiled store", func(t *testing.T) {
		t.Parallel()
		app := t.TempDir()
		writeFile(t, app, "en/brand.yaml", "name: ACME\n")
		writeFile(t, app, "en/home.yaml", `
references:
  brand: "@@app.brand"
title: "{@brand.name}"
`)
		c := compiler.New(store.NewScanner(app),
			compiler.WithProject("app"),
			compiler.WithWorkspaceProjects(compiler.Project{Name: "app", Scanner: store.NewScanner(app)}),
		)

		ctx := context.Background()
		_, err := c.Compile(ctx)
		require.NoError(t, err)

		writeFile(t, app, "en/brand.yaml", "name: Initech\n")
		require.NoError(t, c.Reload(ctx, "en", "brand"))
		out, err := c.Compile(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Initech", leaf(t, out.Result, "en", "home", "title"))
	})

	t.Run("unreadable project fails the scan", func(t *testing.T) {
		t.Parallel()
		app := t.TempDir()
		writeFile(t, app, "en/home.yaml", "title: Home\n")
		c := compiler.New(store.NewScanner(app),
			compiler.WithWorkspaceProjects(compiler.Project{Name: "gone", Scanner: store.NewScanner(filepath.Join(app, "nope"))}),
		)

		_, err := c.Compile(context.Background())
		assert.ErrorIs(t, err, compiler.ErrWorkspaceScan)
		assert.ErrorIs(t, err, store.ErrFailedToAccessInput)
		assert.Nil(t, c.Store())
		assert.Equal(t, compiler.StateFailed, c.State())
	})
}

func TestCompile_FailedForcedScanClearsStore(t *testing.T) {
	t.Parallel()

	root := validTree(t)
	c := compiler.New(store.NewScanner(root))

	ctx := context.Background()
	_, err := c.Compile(ctx)
	require.NoError(t, err)
	require.NotNil(t, c.Store())

	writeFile(t, root, "en/broken.json", "{")
	_, err = c.Compile(ctx, compiler.Force())
	require.ErrorIs(t, err, store.ErrFailedToParseFile)
	assert.Nil(t, c.Store())
	assert.Nil(t, c.Result())

	_, err = c.Compile(ctx)
	assert.ErrorIs(t, err, store.ErrFailedToParseFile, "a later compile rescans instead of reusing the old store")

	require.NoError(t, os.Remove(filepath.Join(root, "en/broken.json")))
	out, err := c.Compile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to ACME, {name}", leaf(t, out.Result, "en", "home", "title"))
}
