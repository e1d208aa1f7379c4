package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/davedeals/davedeals-server/internal/auth"
	"github.com/davedeals/davedeals-server/internal/catalog"
	"github.com/davedeals/davedeals-server/internal/domain"
	domainerrors "github.com/davedeals/davedeals-server/internal/errors"
	"github.com/davedeals/davedeals-server/internal/id"
	"github.com/davedeals/davedeals-server/internal/store"
	"github.com/davedeals/davedeals-server/internal/store/sqlite"
)

// ProductService manages product listings. Writes that can change the
// published set invalidate the catalog snapshot so storefront
// rotations pick the change up on the next render.
type ProductService struct {
	store    *sqlite.Store
	snapshot *catalog.Cache
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(store *sqlite.Store, snapshot *catalog.Cache, logger *slog.Logger) *ProductService {
	return &ProductService{
		store:    store,
		snapshot: snapshot,
		logger:   logger,
	}
}

// CreateProductRequest contains a new listing. Products always start
// as drafts; publishing is a separate, admin-reviewed step.
type CreateProductRequest struct {
	Title        string   `json:"title" validate:"required,max=300"`
	Description  string   `json:"description" validate:"omitempty,max=5000"`
	Price        float64  `json:"price" validate:"required,gte=0"`
	Currency     string   `json:"currency" validate:"omitempty,len=3"`
	CategorySlug string   `json:"category_slug" validate:"omitempty,slug"`
	Thumbnail    string   `json:"thumbnail" validate:"omitempty,url"`
	Images       []string `json:"images" validate:"omitempty,dive,url"`
	RegionID     string   `json:"region_id"`
}

// UpdateProductRequest contains a partial listing update. Nil fields
// are left unchanged.
type UpdateProductRequest struct {
	Title        *string  `json:"title" validate:"omitempty,max=300"`
	Description  *string  `json:"description" validate:"omitempty,max=5000"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	Currency     *string  `json:"currency" validate:"omitempty,len=3"`
	CategorySlug *string  `json:"category_slug" validate:"omitempty,slug"`
	Thumbnail    *string  `json:"thumbnail" validate:"omitempty,url"`
	Images       []string `json:"images" validate:"omitempty,dive,url"`
	RegionID     *string  `json:"region_id"`
}

// ListProductsRequest filters the public product listing.
type ListProductsRequest struct {
	RegionID     string
	CategorySlug string
	Limit        int
	Cursor       string
}

// Create inserts a draft listing owned by the caller's seller profile.
// Admins may create listings without one.
func (s *ProductService) Create(ctx context.Context, claims *auth.AccessClaims, req CreateProductRequest) (*domain.Product, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	sellerID, err := s.resolveSellerID(ctx, claims)
	if err != nil {
		return nil, err
	}

	productID, err := id.Generate(id.PrefixProduct)
	if err != nil {
		return nil, fmt.Errorf("generate product ID: %w", err)
	}

	p := &domain.Product{
		Record:       domain.Record{ID: productID},
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Currency:     req.Currency,
		CategorySlug: req.CategorySlug,
		Thumbnail:    req.Thumbnail,
		Images:       req.Images,
		SellerID:     sellerID,
		RegionID:     req.RegionID,
		Status:       domain.ProductStatusDraft,
	}
	if req.CategorySlug != "" {
		if c, err := s.store.GetCategory(ctx, req.CategorySlug); err == nil {
			p.CategoryName = c.Name
		} else if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Validation("unknown category_slug")
		} else {
			return nil, fmt.Errorf("lookup category: %w", err)
		}
	}
	p.Normalize()
	p.InitTimestamps()

	if err := s.store.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info("product created", "product_id", productID, "seller_id", sellerID)
	return p, nil
}

// Get returns a single product. Drafts and archived listings are only
// visible to their owner or an admin.
func (s *ProductService) Get(ctx context.Context, claims *auth.AccessClaims, productID string) (*domain.Product, error) {
	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("product not found")
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	if !p.IsPublished() {
		if err := s.authorizeOwner(ctx, claims, p); err != nil {
			// Hide the listing's existence from non-owners.
			return nil, domainerrors.NotFound("product not found")
		}
	}
	return p, nil
}

// List returns published products for the storefront, newest last in
// cursor order, with optional region and category filters.
func (s *ProductService) List(ctx context.Context, req ListProductsRequest) (*store.PaginatedResult[*domain.Product], error) {
	params := store.PaginationParams{Limit: req.Limit, Cursor: req.Cursor}
	if params.Limit <= 0 {
		params.Limit = 50
	}

	result, err := s.store.ListProducts(ctx, sqlite.ProductFilter{
		Status:       domain.ProductStatusPublished,
		CategorySlug: req.CategorySlug,
		RegionID:     req.RegionID,
	}, params)
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			return nil, domainerrors.Validation("invalid cursor")
		}
		return nil, fmt.Errorf("list products: %w", err)
	}
	return result, nil
}

// ListMine returns the caller's own listings in every status.
func (s *ProductService) ListMine(ctx context.Context, claims *auth.AccessClaims, limit int, cursor string) (*store.PaginatedResult[*domain.Product], error) {
	sellerID, err := s.resolveSellerID(ctx, claims)
	if err != nil {
		return nil, err
	}
	if sellerID == "" {
		return &store.PaginatedResult[*domain.Product]{Items: []*domain.Product{}}, nil
	}

	result, err := s.store.ListProducts(ctx, sqlite.ProductFilter{SellerID: sellerID},
		store.PaginationParams{Limit: limit, Cursor: cursor})
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			return nil, domainerrors.Validation("invalid cursor")
		}
		return nil, fmt.Errorf("list products: %w", err)
	}
	return result, nil
}

// Update applies a partial update to a listing the caller owns.
func (s *ProductService) Update(ctx context.Context, claims *auth.AccessClaims, productID string, req UpdateProductRequest) (*domain.Product, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("product not found")
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := s.authorizeOwner(ctx, claims, p); err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Currency != nil {
		p.Currency = *req.Currency
	}
	if req.CategorySlug != nil {
		p.CategorySlug = *req.CategorySlug
		p.CategoryName = ""
		if *req.CategorySlug != "" {
			c, err := s.store.GetCategory(ctx, *req.CategorySlug)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return nil, domainerrors.Validation("unknown category_slug")
				}
				return nil, fmt.Errorf("lookup category: %w", err)
			}
			p.CategoryName = c.Name
		}
	}
	if req.Thumbnail != nil {
		p.Thumbnail = *req.Thumbnail
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.RegionID != nil {
		p.RegionID = *req.RegionID
	}
	p.Normalize()
	p.Touch()

	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if p.IsPublished() {
		s.snapshot.Invalidate()
	}
	return p, nil
}

// Delete soft-deletes a listing the caller owns.
func (s *ProductService) Delete(ctx context.Context, claims *auth.AccessClaims, productID string) error {
	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("product not found")
		}
		return fmt.Errorf("get product: %w", err)
	}
	if err := s.authorizeOwner(ctx, claims, p); err != nil {
		return err
	}

	if err := s.store.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if p.IsPublished() {
		s.snapshot.Invalidate()
	}
	s.logger.Info("product deleted", "product_id", productID)
	return nil
}

// resolveSellerID maps the caller to their seller profile. Admins
// without a profile get an empty seller ID.
func (s *ProductService) resolveSellerID(ctx context.Context, claims *auth.AccessClaims) (string, error) {
	if claims == nil {
		return "", domainerrors.Unauthorized("authentication required")
	}
	seller, err := s.store.GetSellerByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if claims.IsAdmin() {
				return "", nil
			}
			return "", domainerrors.Forbidden("seller profile required")
		}
		return "", fmt.Errorf("lookup seller: %w", err)
	}
	return seller.ID, nil
}

// authorizeOwner permits the listing's owner or an admin.
func (s *ProductService) authorizeOwner(ctx context.Context, claims *auth.AccessClaims, p *domain.Product) error {
	if claims == nil {
		return domainerrors.Unauthorized("authentication required")
	}
	if claims.IsAdmin() {
		return nil
	}
	seller, err := s.store.GetSellerByUserID(ctx, claims.UserID)
	if err != nil || seller.ID != p.SellerID {
		return domainerrors.Forbidden("not the owner of this listing")
	}
	return nil
}
