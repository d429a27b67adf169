package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transkit/pkg/diagnostic"
	"github.com/dmitrymomot/transkit/pkg/resolver"
	"github.com/dmitrymomot/transkit/pkg/source"
	"github.com/dmitrymomot/transkit/pkg/store"
	"github.com/dmitrymomot/transkit/pkg/unit"
)

func newUnit(t *testing.T, locale, name, doc string) *unit.Unit {
	t.Helper()
	data, err := source.NewYAMLParser().Parse(context.Background(), []byte(doc))
	require.NoError(t, err)
	return unit.New(locale, name, locale+"/"+name+".yaml", data)
}

func leaf(t *testing.T, res *resolver.Result, path string) string {
	t.Helper()
	require.NotNil(t, res)
	v, err := unit.Lookup(res.Content, path)
	require.NoError(t, err)
	s, ok := v.Str()
	require.True(t, ok, "%s is not a string", path)
	return s
}

func resolveOne(t *testing.T, target *unit.Unit, others ...*unit.Unit) (*resolver.Result, diagnostic.List) {
	t.Helper()
	st, err := store.FromUnits(append([]*unit.Unit{target}, others...)...)
	require.NoError(t, err)
	return resolver.New(st).Resolve(target)
}

func TestResolve_IdentityWithoutReferences(t *testing.T) {
	t.Parallel()

	u := newUnit(t, "en", "home", `
title: Home
hero:
  greeting: "Hello {name}, you have {count} messages, {name}"
  tags: [one, "{item}"]
footer: Bye
`)
	res, diags := resolveOne(t, u)
	require.Empty(t, diags)

	assert.True(t, u.Content().Equal(res.Content))
	assert.Equal(t, resolver.Metadata{Name: "home", Locale: "en", Path: "en/home.yaml"}, res.Metadata)
	assert.Equal(t, []string{"name", "count", "item"}, res.Parameters)
	assert.Equal(t, []string{"name", "count"}, res.LeafParameters["hero.greeting"])
	assert.Equal(t, []string{"item"}, res.LeafParameters["hero.tags.1"])
	assert.NotContains(t, res.LeafParameters, "title")
	assert.Equal(t, []string{"title", "hero", "footer"}, res.Content.Keys())
}

func TestResolve_NeighborReference(t *testing.T) {
	t.Parallel()

	a := newUnit(t, "en", "a", `
references:
  b: "@b"
  buttons: "@b.buttons"
value: "{@b.title}"
both: "{ @b.title } / {@buttons.ok}"
`)
	b := newUnit(t, "en", "b", `
title: X
buttons:
  ok: OK
`)
	res, diags := resolveOne(t, a, b)
	require.Empty(t, diags)

	assert.Equal(t, "X", leaf(t, res, "value"))
	assert.Equal(t, "X / OK", leaf(t, res, "both"))
	assert.Equal(t, []string{"value", "both"}, res.Content.Keys(), "references are not emitted")
}

func TestResolve_LocalKeyFallback(t *testing.T) {
	t.Parallel()

	u := newUnit(t, "en", "home", `
hero:
  title: X
headline: "{@hero.title}!"
chained: "{@headline}?"
`)
	res, diags := resolveOne(t, u)
	require.Empty(t, diags)

	assert.Equal(t, "X!", leaf(t, res, "headline"))
	assert.Equal(t, "X!?", leaf(t, res, "chained"))
}

func TestResolve_AliasTakesPrecedenceOverLocalKey(t *testing.T) {
	t.Parallel()

	u := newUnit(t, "en", "home", `
references:
  hero: "@landing.hero"
hero:
  title: Local
value: "{@hero.title}"
`)
	landing := newUnit(t, "en", "landing", `
hero:
  title: Referenced
`)
	res, diags := resolveOne(t, u, landing)
	require.Empty(t, diags)
	assert.Equal(t, "Referenced", leaf(t, res, "value"))
	assert.Equal(t, "Local", leaf(t, res, "hero.title"))
}

func TestResolve_TransitiveReferences(t *testing.T) {
	t.Parallel()

	a := newUnit(t, "en", "a", `
references:
  b: "@b"
value: "{@b.greeting}"
`)
	b := newUnit(t, "en", "b", `
references:
  c: "@c"
greeting: "Hello from {@c.brand} and {@local}"
local: B
`)
	c := newUnit(t, "en", "c", `
brand: ACME
`)
	res, diags := resolveOne(t, a, b, c)
	require.Empty(t, diags)
	assert.Equal(t, "Hello from ACME and B", leaf(t, res, "value"))
}

func TestResolve_SelfReferenceIsAlwaysReported(t *testing.T) {
	t.Parallel()

	u := newUnit(t, "en", "home", `
references:
  x: "@home"
title: Home
`)
	res, diags := resolveOne(t, u)
	assert.Nil(t, res)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.CodeSelfReference, diags[0].Code)
	assert.Equal(t, "home", diags[0].Name)
	assert.Equal(t, "en/home.yaml", diags[0].Path)
	assert.Contains(t, diags[0].Description, `"x"`)
}

func TestResolve_BrokenAliasesAreReportedEagerly(t *testing.T) {
	t.Parallel()

	u := newUnit(t, "en", "home", `
references:
  missing: "@nowhere"
  bad: "common"
  remote: "@@shared.common"
title: Home
`)
	res, diags := resolveOne(t, u)
	assert.Nil(t, res)
	assert.ElementsMatch(t, []diagnostic.Code{
		diagnostic.CodeUnresolvedAlias,
		diagnostic.CodeInvalidReference,
		diagnostic.CodeUnresolvedAlias,
	}, diags.Codes())
}

func TestResolve_MalformedReferencesBlock(t *testing.T) {
	t.Parallel()

	u := newUnit(t, "en", "home", `
references: "@common"
title: Home
`)
	_, diags := resolveOne(t, u)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.CodeInvalidReference, diags[0].Code)
}

func TestResolve_CycleAcrossUnits(t *testing.T) {
	t.Parallel()

	a := newUnit(t, "en", "a", `
references:
  other: "@b"
x: "{@other.x}"
`)
	b := newUnit(t, "en", "b", `
references:
  other: "@a"
x: "{@other.x}"
`)
	st := store.MustFromUnits(a, b)
	r := resolver.New(st)

	res, diags := r.Resolve(a)
	assert.Nil(t, res)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.CodeCircularReference, diags[0].Code)
	assert.Equal(t, "a", diags[0].Name)
	assert.Contains(t, diags[0].Description, "en/a → en/b → en/a")

	res, diags = r.Resolve(b)
	assert.Nil(t, res)
	require.Len(t, diags, 1)
	assert.Equal(t, "b", diags[0].Name)
	assert.Contains(t, diags[0].Description, "en/b → en/a → en/b")
}

func TestResolve_LocalKeyLoop(t *testing.T) {
	t.Parallel()

	u := newUnit(t, "en", "home", `
a: "{@b}"
b: "{@a}"
c: "{@c}"
`)
	_, diags := resolveOne(t, u)
	require.NotEmpty(t, diags)
	for _, d := range diags {
		assert.Equal(t, diagnostic.CodeCircularReference, d.Code)
	}
	assert.Contains(t, diags[0].Description, "a → b → a")
}

func TestResolve_MissingKeysAndPaths(t *testing.T) {
	t.Parallel()

	u := newUnit(t, "en", "home", `
references:
  common: "@common"
hero:
  title: X
one: "{@nothing}"
two: "{@hero.subtitle}"
three: "{@common.buttons.cancel}"
`)
	common := newUnit(t, "en", "common", `
buttons:
  ok: OK
`)
	res, diags := resolveOne(t, u, common)
	assert.Nil(t, res)
	require.Len(t, diags, 3, "every broken leaf is reported")
	assert.Equal(t, []diagnostic.Code{
		diagnostic.CodeMissingKey,
		diagnostic.CodeMissingPath,
		diagnostic.CodeMissingPath,
	}, diags.Codes())
	assert.Contains(t, diags[1].Description, `"subtitle"`)
	assert.Contains(t, diags[2].Description, `"cancel"`)
}

func TestResolve_InvalidEmbedding(t *testing.T) {
	t.Parallel()

	u := newUnit(t, "en", "home", `
references:
  common: "@common"
hero:
  title: X
table: "{@hero}"
unit: "{@common}"
`)
	common := newUnit(t, "en", "common", `
ok: OK
`)
	_, diags := resolveOne(t, u, common)
	assert.Equal(t, []diagnostic.Code{
		diagnostic.CodeInvalidEmbedding,
		diagnostic.CodeInvalidEmbedding,
	}, diags.Codes())
}

func TestResolve_UnusedBrokenTargetKeyIsNotReported(t *testing.T) {
	t.Parallel()

	u := newUnit(t, "en", "home", `
references:
  gone: "@common.does.not.exist"
title: Home
`)
	common := newUnit(t, "en", "common", `
ok: OK
`)
	res, diags := resolveOne(t, u, common)
	require.Empty(t, diags)
	assert.Equal(t, "Home", leaf(t, res, "title"))
}

func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()

	a := newUnit(t, "en", "a", `
references:
  b: "@b"
value: "{@b.title} {name}"
`)
	b := newUnit(t, "en", "b", `
title: X
`)
	first, diags := resolveOne(t, a, b)
	require.Empty(t, diags)

	again := unit.New("en", "a", "en/a.yaml", first.Content)
	second, diags := resolveOne(t, again)
	require.Empty(t, diags)
	assert.True(t, first.Content.Equal(second.Content))
	assert.Equal(t, first.Parameters, second.Parameters)
}

func TestResolve_Workspace(t *testing.T) {
	t.Parallel()

	home := newUnit(t, "en", "home", `
references:
  shared: "@@shared.common"
title: "{@shared.title}"
`)
	app := store.MustFromUnits(home)

	shared := store.MustFromUnits(
		newUnit(t, "en", "common", `
references:
  brand: "@brand"
title: "{@brand.name} Shared"
`),
		newUnit(t, "en", "brand", `
name: ACME
`),
	)

	t.Run("without workspace", func(t *testing.T) {
		t.Parallel()
		res, diags := resolver.New(app).Resolve(home)
		assert.Nil(t, res)
		assert.Equal(t, []diagnostic.Code{diagnostic.CodeUnresolvedAlias}, diags.Codes())
	})

	t.Run("unknown project", func(t *testing.T) {
		t.Parallel()
		ws := resolver.StaticWorkspace{"other": shared}
		_, diags := resolver.New(app, resolver.WithWorkspace(ws)).Resolve(home)
		assert.Equal(t, []diagnostic.Code{diagnostic.CodeUnresolvedAlias}, diags.Codes())
	})

	t.Run("resolved in the project store", func(t *testing.T) {
		t.Parallel()
		ws := resolver.StaticWorkspace{"shared": shared}
		res, diags := resolver.New(app, resolver.WithWorkspace(ws)).Resolve(home)
		require.Empty(t, diags)
		assert.Equal(t, "ACME Shared", leaf(t, res, "title"))
	})

	t.Run("own project uses the resolver store", func(t *testing.T) {
		t.Parallel()
		page := newUnit(t, "en", "page", `
references:
  self: "@@app.brand"
title: "{@self.name}"
`)
		current := store.MustFromUnits(page, newUnit(t, "en", "brand", `
name: Globex
`))
		stale := store.MustFromUnits(newUnit(t, "en", "brand", `
name: ACME
`))

		res, diags := resolver.New(current, resolver.WithProject("app")).Resolve(page)
		require.Empty(t, diags)
		assert.Equal(t, "Globex", leaf(t, res, "title"))

		ws := resolver.StaticWorkspace{"app": stale}
		res, diags = resolver.New(current, resolver.WithProject("app"), resolver.WithWorkspace(ws)).Resolve(page)
		require.Empty(t, diags)
		assert.Equal(t, "Globex", leaf(t, res, "title"))
	})

	t.Run("cycle through the workspace", func(t *testing.T) {
		t.Parallel()
		back := newUnit(t, "en", "back", `
references:
  app: "@@app.start"
x: "{@app.x}"
`)
		start := newUnit(t, "en", "start", `
references:
  lib: "@@lib.back"
x: "{@lib.x}"
`)
		appStore := store.MustFromUnits(start)
		ws := resolver.StaticWorkspace{
			"app": appStore,
			"lib": store.MustFromUnits(back),
		}
		_, diags := resolver.New(appStore, resolver.WithProject("app"), resolver.WithWorkspace(ws)).Resolve(start)
		require.Len(t, diags, 1)
		assert.Equal(t, diagnostic.CodeCircularReference, diags[0].Code)
		assert.Contains(t, diags[0].Description, "@@app/en/start → @@lib/en/back → @@app/en/start")
	})
}

func TestResolveLocale(t *testing.T) {
	t.Parallel()

	good := newUnit(t, "en", "good", `
title: Fine
`)
	bad := newUnit(t, "en", "bad", `
title: "{@missing}"
`)
	other := newUnit(t, "fr", "good", `
title: Bien
`)
	r := resolver.New(store.MustFromUnits(good, bad, other))

	results, diags := r.ResolveLocale("en")
	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].Metadata.Name)
	require.Len(t, diags, 1)
	assert.Equal(t, "bad", diags[0].Name)
}
