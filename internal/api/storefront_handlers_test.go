package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"encoding/json/v2"
)

// seedCatalog imports a small published catalog: three categories with
// four products each.
func seedCatalog(t *testing.T, ts *testServer) {
	t.Helper()

	var products []string
	for i := 0; i < 12; i++ {
		cat := []string{"electronics", "furniture", "toys"}[i%3]
		products = append(products, fmt.Sprintf(
			`{"id": "prod-%02d", "title": "Item %02d", "price": %d, "rating": 4.0, "reviewsCount": %d, "categorySlug": %q}`,
			i, i, 10+i, 10*(i+1), cat))
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"),
		[]byte("["+strings.Join(products, ",")+"]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories.json"),
		[]byte(`[
			{"slug": "electronics", "name": "Electronics"},
			{"slug": "furniture", "name": "Furniture"},
			{"slug": "toys", "name": "Toys"}
		]`), 0o644))

	_, err := ts.services.Ingest.ImportFromDir(context.Background(), dir)
	require.NoError(t, err)
}

func TestStorefrontBestDeals(t *testing.T) {
	ts := newTestServer(t, Options{})
	seedCatalog(t, ts)

	resp := ts.api.Get("/api/v1/storefront/best-deals?limit=6")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ProductListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Items, 6)

	// Same-day repeats return the identical sequence.
	again := ts.api.Get("/api/v1/storefront/best-deals?limit=6")
	var envelope2 testEnvelope[ProductListResponse]
	require.NoError(t, json.Unmarshal(again.Body.Bytes(), &envelope2))
	assert.Equal(t, envelope.Data.Items, envelope2.Data.Items)

	// The front of the rail covers all three categories.
	seen := map[string]bool{}
	for _, p := range envelope.Data.Items[:3] {
		seen[p.CategorySlug] = true
	}
	assert.Len(t, seen, 3)
}

func TestStorefrontTrending(t *testing.T) {
	ts := newTestServer(t, Options{})
	seedCatalog(t, ts)

	resp := ts.api.Get("/api/v1/storefront/trending?limit=5")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ProductListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Items, 5)
}

func TestStorefrontTopCategories(t *testing.T) {
	ts := newTestServer(t, Options{})
	seedCatalog(t, ts)

	resp := ts.api.Get("/api/v1/storefront/top-categories")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[CategoryListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Items, 3)
	for _, c := range envelope.Data.Items {
		assert.Equal(t, 4, c.Count)
	}
}

func TestStorefrontEmptyCatalog(t *testing.T) {
	ts := newTestServer(t, Options{})

	for _, path := range []string{
		"/api/v1/storefront/best-deals",
		"/api/v1/storefront/trending",
		"/api/v1/storefront/top-categories",
	} {
		resp := ts.api.Get(path)
		assert.Equal(t, http.StatusOK, resp.Code, path)
	}
}

func TestCatalogBrowsing(t *testing.T) {
	ts := newTestServer(t, Options{})
	seedCatalog(t, ts)

	list := ts.api.Get("/api/v1/categories")
	require.Equal(t, http.StatusOK, list.Code)

	var listEnvelope testEnvelope[CategoryListResponse]
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listEnvelope))
	require.Len(t, listEnvelope.Data.Items, 3)
	assert.Equal(t, "electronics", listEnvelope.Data.Items[0].Slug)

	one := ts.api.Get("/api/v1/categories/furniture")
	require.Equal(t, http.StatusOK, one.Code)

	var oneEnvelope testEnvelope[CategoryResponse]
	require.NoError(t, json.Unmarshal(one.Body.Bytes(), &oneEnvelope))
	assert.Equal(t, "Furniture", oneEnvelope.Data.Name)

	missing := ts.api.Get("/api/v1/categories/no-such")
	assert.Equal(t, http.StatusNotFound, missing.Code)

	products := ts.api.Get("/api/v1/categories/toys/products")
	require.Equal(t, http.StatusOK, products.Code)

	var productsEnvelope testEnvelope[ProductListResponse]
	require.NoError(t, json.Unmarshal(products.Body.Bytes(), &productsEnvelope))
	assert.Len(t, productsEnvelope.Data.Items, 4)
}

func TestCatalogResolve(t *testing.T) {
	ts := newTestServer(t, Options{})
	seedCatalog(t, ts)

	resp := ts.api.Get("/api/v1/categories/resolve?name=Electronics%20Gadget")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ResolveCategoryResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "electronics", envelope.Data.Slug)

	none := ts.api.Get("/api/v1/categories/resolve?name=Spacecraft%20Parts")
	require.Equal(t, http.StatusOK, none.Code)

	var noneEnvelope testEnvelope[ResolveCategoryResponse]
	require.NoError(t, json.Unmarshal(none.Body.Bytes(), &noneEnvelope))
	assert.Empty(t, noneEnvelope.Data.Slug)
}

func TestSuggest(t *testing.T) {
	ts := newTestServer(t, Options{})
	seedCatalog(t, ts)

	resp := ts.api.Get("/api/v1/suggest?q=furniture")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[SuggestResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Categories)
	assert.Equal(t, "furniture", envelope.Data.Categories[0].Category.Slug)

	empty := ts.api.Get("/api/v1/suggest?q=")
	require.Equal(t, http.StatusOK, empty.Code)

	var emptyEnvelope testEnvelope[SuggestResponse]
	require.NoError(t, json.Unmarshal(empty.Body.Bytes(), &emptyEnvelope))
	assert.Empty(t, emptyEnvelope.Data.Products)
	assert.Empty(t, emptyEnvelope.Data.Categories)
}
