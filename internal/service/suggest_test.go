package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davedeals/davedeals-server/internal/catalog"
	"github.com/davedeals/davedeals-server/internal/domain"
)

func fixedSnapshotCache(products []domain.Product, categories []domain.Category) *catalog.Cache {
	snap := catalog.NewSnapshot(products, categories)
	return catalog.NewCache(func(context.Context) (*catalog.Snapshot, error) {
		return snap, nil
	}, 0)
}

func suggestHarness(products []domain.Product, categories []domain.Category) *SuggestService {
	return NewSuggestService(fixedSnapshotCache(products, categories),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSuggest_ShoeQuery(t *testing.T) {
	products := []domain.Product{
		{Record: domain.Record{ID: "prod_1"}, Title: "Nike Air Jordan Shoes", CategorySlug: "mens-shoes", Status: domain.ProductStatusPublished},
		{Record: domain.Record{ID: "prod_2"}, Title: "Leather Handbag", CategorySlug: "womens-bags", Status: domain.ProductStatusPublished},
		{Record: domain.Record{ID: "prod_3"}, Title: "Running Shoes for Men", CategorySlug: "mens-shoes", Status: domain.ProductStatusPublished},
	}
	categories := []domain.Category{
		{Slug: "mens-shoes", Name: "Mens Shoes"},
		{Slug: "womens-bags", Name: "Womens Bags"},
	}

	svc := suggestHarness(products, categories)
	got, err := svc.Suggest(context.Background(), "shoe", 0)
	require.NoError(t, err)

	require.NotEmpty(t, got.Products)
	for _, m := range got.Products {
		assert.Equal(t, "mens-shoes", m.Product.CategorySlug,
			"every product hit for 'shoe' should be footwear")
	}

	require.NotEmpty(t, got.Categories)
	assert.Equal(t, "mens-shoes", got.Categories[0].Category.Slug)
}

func TestSuggest_Limits(t *testing.T) {
	var products []domain.Product
	for i := 0; i < 20; i++ {
		products = append(products, domain.Product{
			Record: domain.Record{ID: fmt.Sprintf("prod_%02d", i)},
			Title:  fmt.Sprintf("Wireless Speaker %d", i),
			Status: domain.ProductStatusPublished,
		})
	}
	var categories []domain.Category
	for i := 0; i < 20; i++ {
		categories = append(categories, domain.Category{
			Slug: fmt.Sprintf("speaker-stands-%d", i),
			Name: fmt.Sprintf("Speaker Stands %d", i),
		})
	}

	svc := suggestHarness(products, categories)

	got, err := svc.Suggest(context.Background(), "speaker", 0)
	require.NoError(t, err)
	assert.Len(t, got.Products, maxProductSuggestions)
	assert.Len(t, got.Categories, maxCategorySuggestions)

	// A caller limit below the defaults caps both lists.
	small, err := svc.Suggest(context.Background(), "speaker", 3)
	require.NoError(t, err)
	assert.Len(t, small.Products, 3)
	assert.Len(t, small.Categories, 3)
}

func TestSuggest_RankingOrder(t *testing.T) {
	products := []domain.Product{
		{Record: domain.Record{ID: "prod_sub"}, Title: "Ultra Phone Case", Status: domain.ProductStatusPublished},
		{Record: domain.Record{ID: "prod_pre"}, Title: "Phone Charger", Status: domain.ProductStatusPublished},
		{Record: domain.Record{ID: "prod_none"}, Title: "Garden Hose", Status: domain.ProductStatusPublished},
	}

	svc := suggestHarness(products, nil)
	got, err := svc.Suggest(context.Background(), "phone", 0)
	require.NoError(t, err)

	require.Len(t, got.Products, 2)
	assert.Equal(t, "prod_pre", got.Products[0].Product.ID,
		"prefix match outranks substring match")
	assert.Equal(t, "prod_sub", got.Products[1].Product.ID)
}

func TestSuggest_TypoTolerance(t *testing.T) {
	products := []domain.Product{
		{Record: domain.Record{ID: "prod_1"}, Title: "Chicken Meatballs", Status: domain.ProductStatusPublished},
	}

	svc := suggestHarness(products, nil)
	got, err := svc.Suggest(context.Background(), "chiken", 0)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "prod_1", got.Products[0].Product.ID)
}

func TestSuggest_EmptyQuery(t *testing.T) {
	products := []domain.Product{
		{Record: domain.Record{ID: "prod_1"}, Title: "Anything", Status: domain.ProductStatusPublished},
	}

	svc := suggestHarness(products, nil)
	for _, q := range []string{"", "   ", "!!!"} {
		got, err := svc.Suggest(context.Background(), q, 0)
		require.NoError(t, err)
		assert.Empty(t, got.Products, "query %q", q)
		assert.Empty(t, got.Categories, "query %q", q)
	}
}
