package schema_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/transkit/pkg/diagnostic"
	"github.com/dmitrymomot/transkit/pkg/schema"
	"github.com/dmitrymomot/transkit/pkg/source"
	"github.com/dmitrymomot/transkit/pkg/store"
	"github.com/dmitrymomot/transkit/pkg/unit"
)

func newUnit(t *testing.T, locale, name, doc string) *unit.Unit {
	t.Helper()
	data, err := source.NewYAMLParser().Parse(context.Background(), []byte(doc))
	require.NoError(t, err)
	return unit.New(locale, name, filepath.Join("locales", locale, name+".yaml"), data)
}

func TestCheck_MissingFile(t *testing.T) {
	t.Parallel()

	st := store.MustFromUnits(
		newUnit(t, "en", "home", "title: Home\n"),
		newUnit(t, "en", "common", "ok: OK\n"),
		newUnit(t, "fr", "home", "title: Accueil\n"),
	)

	diags, err := schema.Check(st, "en")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.CodeMissingFile, diags[0].Code)
	assert.Equal(t, "fr", diags[0].Locale)
	assert.Equal(t, "common", diags[0].Name)
	assert.Equal(t, filepath.Join("locales", "fr", "common.yaml"), diags[0].Path)
	assert.Empty(t, diags.ForUnit("fr", "home"))
}

func TestCheck_KeysAndExtraFiles(t *testing.T) {
	t.Parallel()

	st := store.MustFromUnits(
		newUnit(t, "en", "home", `
references:
  common: "@common"
title: Home
hero:
  title: Hi
  items: [a, b]
`),
		newUnit(t, "de", "home", `
title: Start
hero:
  title: Hallo
  items: [a]
  extra: Mehr
`),
		newUnit(t, "de", "legacy", "x: y\n"),
	)

	diags, err := schema.Check(st, "en")
	require.NoError(t, err)
	assert.Equal(t, []diagnostic.Code{
		diagnostic.CodeExtraSchema,
		diagnostic.CodeMissingSchema,
		diagnostic.CodeExtraFile,
	}, diags.Codes())
	assert.Contains(t, diags[0].Description, `"hero.extra"`)
	assert.Contains(t, diags[1].Description, `"hero.items.1"`)
	assert.Equal(t, "legacy", diags[2].Name)
}

func TestCheck_ValuesMayDiffer(t *testing.T) {
	t.Parallel()

	st := store.MustFromUnits(
		newUnit(t, "en", "home", "title: Home\nbody: \"{@title} {name}\"\n"),
		newUnit(t, "fr", "home", "title: Accueil\nbody: Bonjour\n"),
	)
	assert.NoError(t, schema.Validate(st, "en"))
}

func TestValidate_AggregateError(t *testing.T) {
	t.Parallel()

	st := store.MustFromUnits(
		newUnit(t, "en", "home", "title: Home\n"),
		newUnit(t, "fr", "home", "heading: Accueil\n"),
	)

	err := schema.Validate(st, "en")
	require.Error(t, err)
	assert.ErrorIs(t, err, diagnostic.ErrSchemaMismatch)

	var derr *diagnostic.Error
	require.True(t, errors.As(err, &derr))
	assert.Len(t, derr.Diagnostics, 2)
	assert.Contains(t, err.Error(), "2 problems found")
}

func TestPrimaryLocale(t *testing.T) {
	t.Parallel()

	st := store.MustFromUnits(
		newUnit(t, "en-US", "home", "title: Home\n"),
		newUnit(t, "fr", "home", "title: Accueil\n"),
	)

	locale, err := schema.PrimaryLocale(st, "en-US")
	require.NoError(t, err)
	assert.Equal(t, "en-US", locale)

	locale, err = schema.PrimaryLocale(st, "en-us")
	require.NoError(t, err)
	assert.Equal(t, "en-US", locale)

	_, err = schema.PrimaryLocale(st, "de")
	assert.ErrorIs(t, err, schema.ErrPrimaryLocaleMissing)

	_, err = schema.Check(st, "de")
	assert.ErrorIs(t, err, schema.ErrPrimaryLocaleMissing)

	_, err = schema.PrimaryLocale(st, " ")
	assert.ErrorIs(t, err, schema.ErrNoPrimaryLocale)
}
