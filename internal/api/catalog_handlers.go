package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns every catalog category ordered by slug.",
		Tags:        []string{"Catalog"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "resolveCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/resolve",
		Summary:     "Resolve category reference",
		Description: "Maps a loose category slug or display name onto a canonical slug. An empty result means no match.",
		Tags:        []string{"Catalog"},
	}, s.handleResolveCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{slug}",
		Summary:     "Get category",
		Description: "Returns one category by its canonical slug.",
		Tags:        []string{"Catalog"},
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategoryProducts",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{slug}/products",
		Summary:     "List category products",
		Description: "Returns the published products in a category.",
		Tags:        []string{"Catalog"},
	}, s.handleGetCategoryProducts)
}

// === DTOs ===

// CategorySlugInput identifies a category by path.
type CategorySlugInput struct {
	Slug string `path:"slug" maxLength:"200" doc:"Canonical category slug"`
}

// CategoryOutput wraps a single category for Huma.
type CategoryOutput struct {
	Body CategoryResponse
}

// ResolveCategoryInput carries a loose category reference.
type ResolveCategoryInput struct {
	Slug string `query:"slug" maxLength:"200" doc:"Category slug, possibly stale"`
	Name string `query:"name" maxLength:"200" doc:"Category display name, possibly loose"`
}

// ResolveCategoryResponse is the canonical destination for a reference.
type ResolveCategoryResponse struct {
	Slug string `json:"slug" doc:"Canonical slug, empty when nothing matched"`
}

// ResolveCategoryOutput wraps the resolution result for Huma.
type ResolveCategoryOutput struct {
	Body ResolveCategoryResponse
}

// === Handlers ===

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*CategoryListOutput, error) {
	categories, err := s.services.Catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &CategoryListOutput{Body: CategoryListResponse{Items: mapCategories(categories)}}, nil
}

func (s *Server) handleGetCategory(ctx context.Context, input *CategorySlugInput) (*CategoryOutput, error) {
	c, err := s.services.Catalog.GetCategory(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: mapCategory(c)}, nil
}

func (s *Server) handleGetCategoryProducts(ctx context.Context, input *CategorySlugInput) (*ProductListOutput, error) {
	products, err := s.services.Catalog.ProductsByCategory(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &ProductListOutput{Body: ProductListResponse{Items: mapProducts(products)}}, nil
}

func (s *Server) handleResolveCategory(ctx context.Context, input *ResolveCategoryInput) (*ResolveCategoryOutput, error) {
	slug, err := s.services.Catalog.Resolve(ctx, input.Slug, input.Name)
	if err != nil {
		return nil, err
	}
	return &ResolveCategoryOutput{Body: ResolveCategoryResponse{Slug: slug}}, nil
}
