package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davedeals/davedeals-server/internal/auth"
	"github.com/davedeals/davedeals-server/internal/domain"
	domainerrors "github.com/davedeals/davedeals-server/internal/errors"
	"github.com/davedeals/davedeals-server/internal/id"
)

// registerSeller registers a seller account and returns claims shaped
// the way the auth middleware would hand them to a handler.
func registerSeller(t *testing.T, env *testEnv, email string) *auth.AccessClaims {
	t.Helper()
	resp, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "strong-password",
		Name:     "Seller " + email,
		Role:     "seller",
	})
	require.NoError(t, err)
	return &auth.AccessClaims{
		UserID: resp.User.ID,
		Email:  resp.User.Email,
		Role:   string(resp.User.Role),
	}
}

func registerBuyer(t *testing.T, env *testEnv, email string) *auth.AccessClaims {
	t.Helper()
	resp, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "strong-password",
	})
	require.NoError(t, err)
	return &auth.AccessClaims{
		UserID: resp.User.ID,
		Email:  resp.User.Email,
		Role:   string(resp.User.Role),
	}
}

func adminClaims(t *testing.T, env *testEnv) *auth.AccessClaims {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, env.auth.EnsureAdmin(ctx, "admin@example.com", "admin-password"))
	admin, err := env.store.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	return &auth.AccessClaims{
		UserID: admin.ID,
		Email:  admin.Email,
		Role:   string(domain.RoleAdmin),
	}
}

func TestProductService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := registerSeller(t, env, "seller@example.com")

	p, err := env.products.Create(ctx, seller, CreateProductRequest{
		Title: "Wireless Headphones",
		Price: 49.99,
	})
	require.NoError(t, err)

	assert.True(t, id.HasPrefix(p.ID, id.PrefixProduct))
	assert.Equal(t, domain.ProductStatusDraft, p.Status)
	assert.Equal(t, "USD", p.Currency)
	assert.NotEmpty(t, p.SellerID)

	// Drafts never show up on the public listing.
	listed, err := env.products.List(ctx, ListProductsRequest{})
	require.NoError(t, err)
	assert.Empty(t, listed.Items)
}

func TestProductService_CreateRequiresSeller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := registerBuyer(t, env, "buyer@example.com")

	_, err := env.products.Create(ctx, buyer, CreateProductRequest{Title: "Nope", Price: 1})
	require.Error(t, err)
	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeForbidden, derr.Code)

	_, err = env.products.Create(ctx, nil, CreateProductRequest{Title: "Nope", Price: 1})
	require.Error(t, err)
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeUnauthorized, derr.Code)
}

func TestProductService_CreateUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := registerSeller(t, env, "seller@example.com")

	_, err := env.products.Create(ctx, seller, CreateProductRequest{
		Title:        "Lost Item",
		Price:        5,
		CategorySlug: "no-such-category",
	})
	require.Error(t, err)
	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)
}

func TestProductService_GetHidesDraftsFromOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := registerSeller(t, env, "owner@example.com")
	other := registerSeller(t, env, "other@example.com")
	buyer := registerBuyer(t, env, "buyer@example.com")

	p, err := env.products.Create(ctx, owner, CreateProductRequest{Title: "Secret Draft", Price: 1})
	require.NoError(t, err)

	// Owner and admin see the draft.
	_, err = env.products.Get(ctx, owner, p.ID)
	require.NoError(t, err)
	_, err = env.products.Get(ctx, adminClaims(t, env), p.ID)
	require.NoError(t, err)

	// Everyone else gets a 404, not a 403: the listing's existence is
	// itself private.
	for _, claims := range []*auth.AccessClaims{other, buyer, nil} {
		_, err = env.products.Get(ctx, claims, p.ID)
		require.Error(t, err)
		var derr *domainerrors.Error
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, domainerrors.CodeNotFound, derr.Code)
	}
}

func TestProductService_UpdateOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := registerSeller(t, env, "owner@example.com")
	other := registerSeller(t, env, "other@example.com")

	p, err := env.products.Create(ctx, owner, CreateProductRequest{Title: "Old Title", Price: 10})
	require.NoError(t, err)

	newTitle := "New Title"
	_, err = env.products.Update(ctx, other, p.ID, UpdateProductRequest{Title: &newTitle})
	require.Error(t, err)
	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeForbidden, derr.Code)

	updated, err := env.products.Update(ctx, owner, p.ID, UpdateProductRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)

	// Admin may update anything.
	price := 12.5
	updated, err = env.products.Update(ctx, adminClaims(t, env), p.ID, UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.Price)
}

func TestProductService_ListPublishedOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := registerSeller(t, env, "seller@example.com")

	draft, err := env.products.Create(ctx, seller, CreateProductRequest{Title: "Draft", Price: 1})
	require.NoError(t, err)
	visible, err := env.products.Create(ctx, seller, CreateProductRequest{Title: "Visible", Price: 2})
	require.NoError(t, err)

	_, err = env.admin.SetProductStatus(ctx, visible.ID, domain.ProductStatusPublished)
	require.NoError(t, err)

	listed, err := env.products.List(ctx, ListProductsRequest{})
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)
	assert.Equal(t, visible.ID, listed.Items[0].ID)

	// The seller's own view includes the draft.
	mine, err := env.products.ListMine(ctx, seller, 10, "")
	require.NoError(t, err)
	assert.Len(t, mine.Items, 2)

	// Admin view filters by status.
	drafts, err := env.admin.ListAllProducts(ctx, "draft", 10, "")
	require.NoError(t, err)
	require.Len(t, drafts.Items, 1)
	assert.Equal(t, draft.ID, drafts.Items[0].ID)
}

func TestProductService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := registerSeller(t, env, "owner@example.com")
	buyer := registerBuyer(t, env, "buyer@example.com")

	p, err := env.products.Create(ctx, owner, CreateProductRequest{Title: "Doomed", Price: 1})
	require.NoError(t, err)

	err = env.products.Delete(ctx, buyer, p.ID)
	require.Error(t, err)

	require.NoError(t, env.products.Delete(ctx, owner, p.ID))

	_, err = env.products.Get(ctx, owner, p.ID)
	require.Error(t, err)
	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeNotFound, derr.Code)
}
