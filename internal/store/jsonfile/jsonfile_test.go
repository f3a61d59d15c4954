package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
)

func TestLoadVendorFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brands.json"), []byte(`[
		{"brand_id": "B1", "brand_name": "KOHLER"},
		{"brand_id": "B2", "brand_name": "MOEN"}
	]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories.json"), []byte(`[
		{"category_id": "C1", "category_name": "Kitchen Faucet", "department": "Plumbing", "family": "Faucets"}
	]`), 0o644))

	src := New(dir)
	ctx := context.Background()

	brands, err := src.Load(ctx, domain.PicklistTypeBrand)
	require.NoError(t, err)
	require.Len(t, brands, 2)
	assert.Equal(t, domain.PicklistEntry{ID: "B1", Name: "KOHLER"}, brands[0])

	categories, err := src.Load(ctx, domain.PicklistTypeCategory)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Plumbing", categories[0].Department)
	assert.Equal(t, "Faucets", categories[0].Family)
}

func TestLoadMissingFile(t *testing.T) {
	src := New(t.TempDir())

	entries, err := src.Load(context.Background(), domain.PicklistTypeStyle)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestLoadAllSkipsAbsentTypes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "styles.json"), []byte(`[
		{"style_id": "S1", "style_name": "Modern"}
	]`), 0o644))

	all, err := New(dir).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "Modern", all[domain.PicklistTypeStyle][0].Name)
}

func TestSaveRoundTrip(t *testing.T) {
	src := New(t.TempDir())
	ctx := context.Background()

	want := []domain.PicklistEntry{
		{ID: "A1", Name: "Mount Type"},
		{ID: "A2", Name: "Flow Rate"},
	}
	require.NoError(t, src.Save(ctx, domain.PicklistTypeAttribute, want))

	got, err := src.Load(ctx, domain.PicklistTypeAttribute)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brands.json"), []byte(`{not json`), 0o644))

	_, err := New(dir).Load(context.Background(), domain.PicklistTypeBrand)
	require.Error(t, err)
}
