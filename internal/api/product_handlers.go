package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/davedeals/davedeals-server/internal/domain"
	"github.com/davedeals/davedeals-server/internal/service"
	"github.com/davedeals/davedeals-server/internal/store"
)

func (s *Server) registerProductRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listProducts",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List products",
		Description: "Returns published products, optionally filtered by category or region.",
		Tags:        []string{"Products"},
	}, s.handleListProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProduct",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}",
		Summary:     "Get product",
		Description: "Returns a single product. Drafts are only visible to their owner and admins.",
		Tags:        []string{"Products"},
	}, s.handleGetProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "createProduct",
		Method:      http.MethodPost,
		Path:        "/api/v1/products",
		Summary:     "Create product",
		Description: "Creates a draft listing owned by the authenticated seller.",
		Tags:        []string{"Products"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProduct",
		Method:      http.MethodPatch,
		Path:        "/api/v1/products/{id}",
		Summary:     "Update product",
		Description: "Partially updates a listing. Only the owner or an admin may update.",
		Tags:        []string{"Products"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteProduct",
		Method:      http.MethodDelete,
		Path:        "/api/v1/products/{id}",
		Summary:     "Delete product",
		Description: "Soft deletes a listing. Only the owner or an admin may delete.",
		Tags:        []string{"Products"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyProducts",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/mine",
		Summary:     "List own products",
		Description: "Returns the authenticated seller's listings in every status.",
		Tags:        []string{"Products"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyProducts)
}

// === DTOs ===

// ProductResponse contains product data in API responses.
type ProductResponse struct {
	ID           string    `json:"id" doc:"Product ID"`
	Title        string    `json:"title" doc:"Product title"`
	Description  string    `json:"description,omitempty" doc:"Product description"`
	Price        float64   `json:"price" doc:"Price in the listed currency"`
	Currency     string    `json:"currency" doc:"ISO 4217 currency code"`
	CategorySlug string    `json:"category_slug,omitempty" doc:"Canonical category slug"`
	CategoryName string    `json:"category_name,omitempty" doc:"Category display name"`
	Rating       float64   `json:"rating" doc:"Average review rating"`
	ReviewsCount int       `json:"reviews_count" doc:"Number of reviews"`
	Thumbnail    string    `json:"thumbnail,omitempty" doc:"Thumbnail image URL"`
	Images       []string  `json:"images,omitempty" doc:"Gallery image URLs"`
	SellerID     string    `json:"seller_id,omitempty" doc:"Owning seller ID"`
	RegionID     string    `json:"region_id,omitempty" doc:"Region the listing belongs to"`
	Status       string    `json:"status" doc:"Lifecycle status"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// ProductOutput wraps a single product for Huma.
type ProductOutput struct {
	Body ProductResponse
}

// ProductPageResponse is one page of products.
type ProductPageResponse struct {
	Items      []ProductResponse `json:"items" doc:"Products on this page"`
	NextCursor string            `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool              `json:"has_more" doc:"Whether more pages exist"`
}

// ProductPageOutput wraps a product page for Huma.
type ProductPageOutput struct {
	Body ProductPageResponse
}

// ListProductsInput carries list filters.
type ListProductsInput struct {
	Category string `query:"category" doc:"Filter by category slug"`
	Region   string `query:"region" doc:"Filter by region ID"`
	Limit    int    `query:"limit" minimum:"0" maximum:"100" doc:"Page size"`
	Cursor   string `query:"cursor" doc:"Pagination cursor"`
}

// ProductIDInput identifies a product by path.
type ProductIDInput struct {
	ID string `path:"id" maxLength:"100" doc:"Product ID"`
}

// CreateProductInput wraps the create request for Huma.
type CreateProductInput struct {
	Body service.CreateProductRequest
}

// UpdateProductInput wraps the update request for Huma.
type UpdateProductInput struct {
	ID   string `path:"id" maxLength:"100" doc:"Product ID"`
	Body service.UpdateProductRequest
}

// ListMineInput carries pagination for the seller's own listings.
type ListMineInput struct {
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Page size"`
	Cursor string `query:"cursor" doc:"Pagination cursor"`
}

// === Handlers ===

func (s *Server) handleListProducts(ctx context.Context, input *ListProductsInput) (*ProductPageOutput, error) {
	result, err := s.services.Product.List(ctx, service.ListProductsRequest{
		CategorySlug: input.Category,
		RegionID:     input.Region,
		Limit:        input.Limit,
		Cursor:       input.Cursor,
	})
	if err != nil {
		return nil, err
	}
	return &ProductPageOutput{Body: mapProductPage(result)}, nil
}

func (s *Server) handleGetProduct(ctx context.Context, input *ProductIDInput) (*ProductOutput, error) {
	p, err := s.services.Product.Get(ctx, optionalClaims(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: mapProduct(p)}, nil
}

func (s *Server) handleCreateProduct(ctx context.Context, input *CreateProductInput) (*ProductOutput, error) {
	claims, err := RequireSeller(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Product.Create(ctx, claims, input.Body)
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: mapProduct(p)}, nil
}

func (s *Server) handleUpdateProduct(ctx context.Context, input *UpdateProductInput) (*ProductOutput, error) {
	claims, err := GetClaims(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Product.Update(ctx, claims, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: mapProduct(p)}, nil
}

func (s *Server) handleDeleteProduct(ctx context.Context, input *ProductIDInput) (*MessageOutput, error) {
	claims, err := GetClaims(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Product.Delete(ctx, claims, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Product deleted"}}, nil
}

func (s *Server) handleListMyProducts(ctx context.Context, input *ListMineInput) (*ProductPageOutput, error) {
	claims, err := RequireSeller(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Product.ListMine(ctx, claims, input.Limit, input.Cursor)
	if err != nil {
		return nil, err
	}
	return &ProductPageOutput{Body: mapProductPage(result)}, nil
}

// === Mapping helpers ===

func mapProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Currency:     p.Currency,
		CategorySlug: p.CategorySlug,
		CategoryName: p.CategoryName,
		Rating:       p.Rating,
		ReviewsCount: p.ReviewsCount,
		Thumbnail:    p.Thumbnail,
		Images:       p.Images,
		SellerID:     p.SellerID,
		RegionID:     p.RegionID,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func mapProductPage(result *store.PaginatedResult[*domain.Product]) ProductPageResponse {
	items := make([]ProductResponse, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, mapProduct(p))
	}
	return ProductPageResponse{
		Items:      items,
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
	}
}
