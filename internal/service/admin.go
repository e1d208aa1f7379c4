package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/davedeals/davedeals-server/internal/catalog"
	"github.com/davedeals/davedeals-server/internal/domain"
	domainerrors "github.com/davedeals/davedeals-server/internal/errors"
	"github.com/davedeals/davedeals-server/internal/id"
	"github.com/davedeals/davedeals-server/internal/store"
	"github.com/davedeals/davedeals-server/internal/store/sqlite"
)

// AdminService implements the moderation surface: user listing,
// catalog-wide product views, publication decisions, and region
// management. Role checks live in the auth middleware; these methods
// assume the caller is already an admin.
type AdminService struct {
	store    *sqlite.Store
	snapshot *catalog.Cache
	logger   *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store *sqlite.Store, snapshot *catalog.Cache, logger *slog.Logger) *AdminService {
	return &AdminService{
		store:    store,
		snapshot: snapshot,
		logger:   logger,
	}
}

// ListUsers returns every account, oldest first.
func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListAllProducts returns products in every status, paginated.
func (s *AdminService) ListAllProducts(ctx context.Context, status string, limit int, cursor string) (*store.PaginatedResult[*domain.Product], error) {
	filter := sqlite.ProductFilter{}
	if status != "" {
		ps := domain.ProductStatus(status)
		if !ps.Valid() {
			return nil, domainerrors.Validation("invalid status filter")
		}
		filter.Status = ps
	}

	result, err := s.store.ListProducts(ctx, filter, store.PaginationParams{Limit: limit, Cursor: cursor})
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			return nil, domainerrors.Validation("invalid cursor")
		}
		return nil, fmt.Errorf("list products: %w", err)
	}
	return result, nil
}

// SetProductStatus moves a listing between draft, published, and
// archived. Publication changes refresh the category counts and drop
// the storefront snapshot.
func (s *AdminService) SetProductStatus(ctx context.Context, productID string, status domain.ProductStatus) (*domain.Product, error) {
	if !status.Valid() {
		return nil, domainerrors.Validation("invalid product status")
	}

	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("product not found")
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p.Status == status {
		return p, nil
	}

	p.Status = status
	p.Touch()
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.store.RefreshCategoryCounts(ctx); err != nil {
		return nil, fmt.Errorf("refresh category counts: %w", err)
	}
	s.snapshot.Invalidate()

	s.logger.Info("product status changed", "product_id", productID, "status", status)
	return p, nil
}

// CreateRegionRequest contains a new marketplace region.
type CreateRegionRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"omitempty,uppercase,max=8"`
}

// ListRegions returns every region ordered by name.
func (s *AdminService) ListRegions(ctx context.Context) ([]domain.Region, error) {
	regions, err := s.store.ListRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return regions, nil
}

// CreateRegion adds a marketplace region.
func (s *AdminService) CreateRegion(ctx context.Context, req CreateRegionRequest) (*domain.Region, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	regionID, err := id.Generate(id.PrefixRegion)
	if err != nil {
		return nil, fmt.Errorf("generate region ID: %w", err)
	}

	region := &domain.Region{
		Record: domain.Record{ID: regionID},
		Name:   req.Name,
		Code:   req.Code,
	}
	region.InitTimestamps()

	if err := s.store.CreateRegion(ctx, region); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("region code already in use")
		}
		return nil, fmt.Errorf("create region: %w", err)
	}

	s.logger.Info("region created", "region_id", regionID, "code", req.Code)
	return region, nil
}
