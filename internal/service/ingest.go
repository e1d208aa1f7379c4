package service

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/davedeals/davedeals-server/internal/catalog"
	"github.com/davedeals/davedeals-server/internal/domain"
	"github.com/davedeals/davedeals-server/internal/id"
	"github.com/davedeals/davedeals-server/internal/store/sqlite"
)

// Catalog document names inside the data directory.
const (
	ProductsFile   = "products.json"
	CategoriesFile = "categories.json"
)

// productDoc is the raw catalog export shape for one product. Numeric
// fields are pointers because the upstream export writes nulls.
type productDoc struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Price        *float64 `json:"price"`
	Rating       *float64 `json:"rating"`
	ReviewsCount *int     `json:"reviewsCount"`
	Category     string   `json:"category"`
	CategorySlug string   `json:"categorySlug"`
	Thumbnail    string   `json:"thumbnail"`
}

// categoryDoc is the raw catalog export shape for one category.
type categoryDoc struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// IngestService imports catalog documents into the store, replacing
// the previous import wholesale. Products and categories arrive as the
// JSON exports the storefront originally shipped as static files.
type IngestService struct {
	store    *sqlite.Store
	snapshot *catalog.Cache
	logger   *slog.Logger
}

// NewIngestService creates a new catalog ingest service.
func NewIngestService(store *sqlite.Store, snapshot *catalog.Cache, logger *slog.Logger) *IngestService {
	return &IngestService{
		store:    store,
		snapshot: snapshot,
		logger:   logger,
	}
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Products   int
	Categories int
}

// ImportFromDir loads products.json and categories.json from dir and
// replaces the stored catalog with their contents. Category references
// on products are resolved through the identity ladder, so stale slugs
// and renamed display names land on the canonical category. Counts are
// recomputed and the storefront snapshot is dropped.
func (s *IngestService) ImportFromDir(ctx context.Context, dir string) (*ImportResult, error) {
	start := time.Now()

	categories, err := s.loadCategories(filepath.Join(dir, CategoriesFile))
	if err != nil {
		return nil, err
	}
	products, err := s.loadProducts(filepath.Join(dir, ProductsFile), categories)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceCategories(ctx, categories); err != nil {
		return nil, fmt.Errorf("replace categories: %w", err)
	}
	if err := s.store.ReplaceProducts(ctx, products); err != nil {
		return nil, fmt.Errorf("replace products: %w", err)
	}
	if err := s.store.RefreshCategoryCounts(ctx); err != nil {
		return nil, fmt.Errorf("refresh category counts: %w", err)
	}
	s.snapshot.Invalidate()

	s.logger.Info("catalog imported",
		"products", len(products),
		"categories", len(categories),
		"duration", time.Since(start),
	)
	return &ImportResult{Products: len(products), Categories: len(categories)}, nil
}

func (s *IngestService) loadCategories(path string) ([]domain.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	var docs []categoryDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	now := time.Now()
	seen := map[string]bool{}
	categories := make([]domain.Category, 0, len(docs))
	for _, doc := range docs {
		slug := doc.Slug
		if slug == "" {
			slug = catalog.ToSlug(doc.Name)
		}
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		name := doc.Name
		if name == "" {
			name = slug
		}
		categories = append(categories, domain.Category{
			Slug:      slug,
			Name:      name,
			ImageURL:  doc.ImageURL,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return categories, nil
}

func (s *IngestService) loadProducts(path string, categories []domain.Category) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	var docs []productDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	now := time.Now()
	seen := map[string]bool{}
	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		if doc.Title == "" {
			continue
		}
		productID := doc.ID
		if productID == "" {
			productID = id.MustGenerate(id.PrefixProduct)
		}
		if seen[productID] {
			continue
		}
		seen[productID] = true

		p := domain.Product{
			Record: domain.Record{
				ID:        productID,
				CreatedAt: now,
				UpdatedAt: now,
			},
			Title:     doc.Title,
			Thumbnail: doc.Thumbnail,
			Status:    domain.ProductStatusPublished,
		}
		if doc.Price != nil {
			p.Price = *doc.Price
		}
		if doc.Rating != nil {
			p.Rating = *doc.Rating
		}
		if doc.ReviewsCount != nil {
			p.ReviewsCount = *doc.ReviewsCount
		}

		ref := catalog.Ref{Slug: doc.CategorySlug, Name: doc.Category}
		if slug := catalog.ResolveSlug(ref, categories, catalog.CategoryOverrides); slug != "" {
			p.CategorySlug = slug
			for i := range categories {
				if categories[i].Slug == slug {
					p.CategoryName = categories[i].Name
					break
				}
			}
		}
		p.Normalize()
		products = append(products, p)
	}
	return products, nil
}
