package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davedeals/davedeals-server/internal/domain"
	domainerrors "github.com/davedeals/davedeals-server/internal/errors"
	"github.com/davedeals/davedeals-server/internal/id"
)

func TestAdminService_ListUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerBuyer(t, env, "one@example.com")
	registerSeller(t, env, "two@example.com")

	users, err := env.admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "one@example.com", users[0].Email)
	assert.Equal(t, "two@example.com", users[1].Email)
}

func TestAdminService_SetProductStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := registerSeller(t, env, "seller@example.com")

	require.NoError(t, env.store.UpsertCategory(ctx, &domain.Category{
		Slug: "electronics", Name: "Electronics",
	}))

	p, err := env.products.Create(ctx, seller, CreateProductRequest{
		Title:        "Bluetooth Speaker",
		Price:        29,
		CategorySlug: "electronics",
	})
	require.NoError(t, err)

	published, err := env.admin.SetProductStatus(ctx, p.ID, domain.ProductStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductStatusPublished, published.Status)

	// Publication shows up on the public listing and in the category
	// counts.
	listed, err := env.products.List(ctx, ListProductsRequest{})
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)

	cat, err := env.store.GetCategory(ctx, "electronics")
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Count)

	// Archiving pulls it back off the shelf.
	_, err = env.admin.SetProductStatus(ctx, p.ID, domain.ProductStatusArchived)
	require.NoError(t, err)

	listed, err = env.products.List(ctx, ListProductsRequest{})
	require.NoError(t, err)
	assert.Empty(t, listed.Items)

	cat, err = env.store.GetCategory(ctx, "electronics")
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Count)
}

func TestAdminService_SetProductStatusErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var derr *domainerrors.Error

	_, err := env.admin.SetProductStatus(ctx, "prod-ghost", domain.ProductStatusPublished)
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeNotFound, derr.Code)

	_, err = env.admin.SetProductStatus(ctx, "prod-ghost", domain.ProductStatus("launched"))
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)
}

func TestAdminService_ListAllProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := registerSeller(t, env, "seller@example.com")

	a, err := env.products.Create(ctx, seller, CreateProductRequest{Title: "Draft Thing", Price: 1})
	require.NoError(t, err)
	b, err := env.products.Create(ctx, seller, CreateProductRequest{Title: "Live Thing", Price: 2})
	require.NoError(t, err)
	_, err = env.admin.SetProductStatus(ctx, b.ID, domain.ProductStatusPublished)
	require.NoError(t, err)

	all, err := env.admin.ListAllProducts(ctx, "", 10, "")
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	drafts, err := env.admin.ListAllProducts(ctx, "draft", 10, "")
	require.NoError(t, err)
	require.Len(t, drafts.Items, 1)
	assert.Equal(t, a.ID, drafts.Items[0].ID)

	var derr *domainerrors.Error
	_, err = env.admin.ListAllProducts(ctx, "launched", 10, "")
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)

	_, err = env.admin.ListAllProducts(ctx, "", 10, "not-base64!")
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)
}

func TestAdminService_Regions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	region, err := env.admin.CreateRegion(ctx, CreateRegionRequest{Name: "East Coast", Code: "EAST"})
	require.NoError(t, err)
	assert.True(t, id.HasPrefix(region.ID, id.PrefixRegion))

	_, err = env.admin.CreateRegion(ctx, CreateRegionRequest{Name: "Eastern Seaboard", Code: "EAST"})
	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeAlreadyExists, derr.Code)

	// Code is optional but must be uppercase when present.
	_, err = env.admin.CreateRegion(ctx, CreateRegionRequest{Name: "West Coast", Code: "west"})
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)

	_, err = env.admin.CreateRegion(ctx, CreateRegionRequest{Name: "Midwest"})
	require.NoError(t, err)

	regions, err := env.admin.ListRegions(ctx)
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "East Coast", regions[0].Name)
	assert.Equal(t, "Midwest", regions[1].Name)
}
