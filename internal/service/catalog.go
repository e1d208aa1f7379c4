package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davedeals/davedeals-server/internal/catalog"
	"github.com/davedeals/davedeals-server/internal/domain"
	domainerrors "github.com/davedeals/davedeals-server/internal/errors"
	"github.com/davedeals/davedeals-server/internal/store/sqlite"
)

// NewSnapshotLoader builds the catalog.Loader the snapshot cache
// refreshes from: every published product plus every category.
func NewSnapshotLoader(store *sqlite.Store) catalog.Loader {
	return func(ctx context.Context) (*catalog.Snapshot, error) {
		products, err := store.ListPublishedProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("load products: %w", err)
		}
		categories, err := store.ListCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		return catalog.NewSnapshot(products, categories), nil
	}
}

// CatalogService serves category browsing and identity resolution off
// the in-memory snapshot.
type CatalogService struct {
	snapshot *catalog.Cache
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(snapshot *catalog.Cache, logger *slog.Logger) *CatalogService {
	return &CatalogService{snapshot: snapshot, logger: logger}
}

// ListCategories returns every catalog category, ordered by slug.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	snap, err := s.snapshot.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return snap.Categories, nil
}

// GetCategory returns one category by slug.
func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	snap, err := s.snapshot.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	c := snap.CategoryBySlug(slug)
	if c == nil {
		return nil, domainerrors.NotFound("category not found")
	}
	return c, nil
}

// ProductsByCategory returns the published products in a category.
// The category must exist; an existing category with no products
// yields an empty list.
func (s *CatalogService) ProductsByCategory(ctx context.Context, slug string) ([]domain.Product, error) {
	snap, err := s.snapshot.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if snap.CategoryBySlug(slug) == nil {
		return nil, domainerrors.NotFound("category not found")
	}
	return snap.ProductsByCategory(slug), nil
}

// Resolve maps a loose category reference (slug and/or display name,
// either possibly stale) onto a canonical slug. An empty result means
// the reference matched nothing.
func (s *CatalogService) Resolve(ctx context.Context, slug, name string) (string, error) {
	snap, err := s.snapshot.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("load catalog: %w", err)
	}
	return catalog.ResolveSlug(catalog.Ref{Slug: slug, Name: name}, snap.Categories, catalog.CategoryOverrides), nil
}
