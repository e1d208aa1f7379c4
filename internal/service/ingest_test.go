package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davedeals/davedeals-server/internal/domain"
	"github.com/davedeals/davedeals-server/internal/id"
)

func writeCatalogDir(t *testing.T, products, categories string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProductsFile), []byte(products), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, CategoriesFile), []byte(categories), 0o644))
	return dir
}

func TestIngest_ImportFromDir(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dir := writeCatalogDir(t, `[
		{"id": "prod-100", "title": "Gaming Laptop", "price": 1299.5, "rating": 4.5, "reviewsCount": 210, "category": "Laptops", "categorySlug": "laptops", "thumbnail": "https://cdn.example.com/laptop.jpg"},
		{"id": "prod-101", "title": "Office Chair", "price": null, "rating": null, "reviewsCount": null, "category": "Furniture", "categorySlug": "furniture"}
	]`, `[
		{"slug": "laptops", "name": "Laptops", "image_url": "https://cdn.example.com/laptops.jpg"},
		{"slug": "furniture", "name": "Furniture"}
	]`)

	result, err := env.ingest.ImportFromDir(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Products)
	assert.Equal(t, 2, result.Categories)

	p, err := env.store.GetProduct(ctx, "prod-100")
	require.NoError(t, err)
	assert.Equal(t, "Gaming Laptop", p.Title)
	assert.Equal(t, 1299.5, p.Price)
	assert.Equal(t, 4.5, p.Rating)
	assert.Equal(t, 210, p.ReviewsCount)
	assert.Equal(t, "laptops", p.CategorySlug)
	assert.Equal(t, "Laptops", p.CategoryName)
	assert.Equal(t, domain.ProductStatusPublished, p.Status)

	// Null numerics come through as zero values.
	p, err = env.store.GetProduct(ctx, "prod-101")
	require.NoError(t, err)
	assert.Zero(t, p.Price)
	assert.Zero(t, p.Rating)
	assert.Zero(t, p.ReviewsCount)

	// Counts are derived during the import.
	cat, err := env.store.GetCategory(ctx, "laptops")
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Count)

	// Imported products are live on the storefront right away.
	listed, err := env.products.List(ctx, ListProductsRequest{})
	require.NoError(t, err)
	assert.Len(t, listed.Items, 2)
}

func TestIngest_ResolvesLooseCategoryReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dir := writeCatalogDir(t, `[
		{"id": "prod-1", "title": "Summer Dress", "price": 30, "category": "Fashion"},
		{"id": "prod-2", "title": "Blender", "price": 50, "category": "Kitchen & Dining", "categorySlug": "kitchen-dining-old"},
		{"id": "prod-3", "title": "Mystery Box", "price": 5, "category": "Cryptozoology"}
	]`, `[
		{"slug": "women-s-clothing", "name": "Women's Clothing"},
		{"slug": "kitchen-and-dining", "name": "Kitchen & Dining"}
	]`)

	_, err := env.ingest.ImportFromDir(ctx, dir)
	require.NoError(t, err)

	// Editorial label routed through the override table.
	p, err := env.store.GetProduct(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "women-s-clothing", p.CategorySlug)

	// Stale slug rescued by the display name.
	p, err = env.store.GetProduct(ctx, "prod-2")
	require.NoError(t, err)
	assert.Equal(t, "kitchen-and-dining", p.CategorySlug)
	assert.Equal(t, "Kitchen & Dining", p.CategoryName)

	// Unresolvable references keep the product, uncategorized.
	p, err = env.store.GetProduct(ctx, "prod-3")
	require.NoError(t, err)
	assert.Empty(t, p.CategorySlug)
}

func TestIngest_SkipsAndDedupes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dir := writeCatalogDir(t, `[
		{"id": "prod-1", "title": "Keeper", "price": 1},
		{"id": "prod-1", "title": "Duplicate ID", "price": 2},
		{"id": "", "title": "Needs An ID", "price": 3},
		{"id": "prod-4", "title": "", "price": 4}
	]`, `[
		{"slug": "tools", "name": "Tools"},
		{"slug": "tools", "name": "Tools Again"},
		{"slug": "", "name": "Garden Supplies"},
		{"slug": "", "name": ""}
	]`)

	result, err := env.ingest.ImportFromDir(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Products)
	assert.Equal(t, 2, result.Categories)

	p, err := env.store.GetProduct(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "Keeper", p.Title)

	// The empty-slug category derives its slug from the name.
	cat, err := env.store.GetCategory(ctx, "garden-supplies")
	require.NoError(t, err)
	assert.Equal(t, "Garden Supplies", cat.Name)

	// Generated IDs carry the product prefix.
	all, err := env.admin.ListAllProducts(ctx, "", 10, "")
	require.NoError(t, err)
	for _, p := range all.Items {
		if p.Title == "Needs An ID" {
			assert.True(t, id.HasPrefix(p.ID, id.PrefixProduct))
		}
	}
}

func TestIngest_ReplacesPreviousImport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := writeCatalogDir(t,
		`[{"id": "prod-old", "title": "Old Stock", "price": 1}]`,
		`[{"slug": "old-stuff", "name": "Old Stuff"}]`)
	_, err := env.ingest.ImportFromDir(ctx, first)
	require.NoError(t, err)

	second := writeCatalogDir(t,
		`[{"id": "prod-new", "title": "New Stock", "price": 2}]`,
		`[{"slug": "new-stuff", "name": "New Stuff"}]`)
	_, err = env.ingest.ImportFromDir(ctx, second)
	require.NoError(t, err)

	_, err = env.store.GetProduct(ctx, "prod-old")
	require.Error(t, err)
	_, err = env.store.GetCategory(ctx, "old-stuff")
	require.Error(t, err)

	p, err := env.store.GetProduct(ctx, "prod-new")
	require.NoError(t, err)
	assert.Equal(t, "New Stock", p.Title)
}

func TestIngest_MissingFiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ingest.ImportFromDir(ctx, t.TempDir())
	require.Error(t, err)
}
