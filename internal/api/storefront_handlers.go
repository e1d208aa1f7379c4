package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/davedeals/davedeals-server/internal/domain"
)

func (s *Server) registerStorefrontRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "bestDeals",
		Method:      http.MethodGet,
		Path:        "/api/v1/storefront/best-deals",
		Summary:     "Best deals rail",
		Description: "Returns the daily rotating, category-diverse best deals selection.",
		Tags:        []string{"Storefront"},
	}, s.handleBestDeals)

	huma.Register(s.api, huma.Operation{
		OperationID: "trending",
		Method:      http.MethodGet,
		Path:        "/api/v1/storefront/trending",
		Summary:     "Trending rail",
		Description: "Returns the weekly rotating selection drawn from the most popular products.",
		Tags:        []string{"Storefront"},
	}, s.handleTrending)

	huma.Register(s.api, huma.Operation{
		OperationID: "topCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/storefront/top-categories",
		Summary:     "Top categories rail",
		Description: "Returns the weekly rotating selection of the largest categories.",
		Tags:        []string{"Storefront"},
	}, s.handleTopCategories)
}

// === DTOs ===

// RailInput carries the optional size of a storefront rail.
type RailInput struct {
	Limit int `query:"limit" minimum:"0" maximum:"100" doc:"Number of items to return (0 uses the rail default)"`
}

// ProductListResponse is an unpaginated product list.
type ProductListResponse struct {
	Items []ProductResponse `json:"items" doc:"Products in rail order"`
}

// ProductListOutput wraps a product list for Huma.
type ProductListOutput struct {
	Body ProductListResponse
}

// CategoryResponse contains category data in API responses.
type CategoryResponse struct {
	Slug      string    `json:"slug" doc:"Canonical category slug"`
	Name      string    `json:"name" doc:"Display name"`
	Count     int       `json:"count" doc:"Number of published products"`
	ImageURL  string    `json:"image_url,omitempty" doc:"Category image URL"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// CategoryListResponse is an unpaginated category list.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items" doc:"Categories in rail order"`
}

// CategoryListOutput wraps a category list for Huma.
type CategoryListOutput struct {
	Body CategoryListResponse
}

// === Handlers ===

func (s *Server) handleBestDeals(ctx context.Context, input *RailInput) (*ProductListOutput, error) {
	products, err := s.services.Storefront.BestDeals(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &ProductListOutput{Body: ProductListResponse{Items: mapProducts(products)}}, nil
}

func (s *Server) handleTrending(ctx context.Context, input *RailInput) (*ProductListOutput, error) {
	products, err := s.services.Storefront.Trending(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &ProductListOutput{Body: ProductListResponse{Items: mapProducts(products)}}, nil
}

func (s *Server) handleTopCategories(ctx context.Context, input *RailInput) (*CategoryListOutput, error) {
	categories, err := s.services.Storefront.TopCategories(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &CategoryListOutput{Body: CategoryListResponse{Items: mapCategories(categories)}}, nil
}

// === Mapping helpers ===

func mapProducts(products []domain.Product) []ProductResponse {
	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, mapProduct(&products[i]))
	}
	return items
}

func mapCategory(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		Slug:      c.Slug,
		Name:      c.Name,
		Count:     c.Count,
		ImageURL:  c.ImageURL,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func mapCategories(categories []domain.Category) []CategoryResponse {
	items := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, mapCategory(&categories[i]))
	}
	return items
}
