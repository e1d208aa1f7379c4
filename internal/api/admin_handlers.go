package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/davedeals/davedeals-server/internal/domain"
	domainerrors "github.com/davedeals/davedeals-server/internal/errors"
	"github.com/davedeals/davedeals-server/internal/service"
)

func (s *Server) registerAdminRoutes() {
	adminSecurity := []map[string][]string{{"bearer": {}}}

	huma.Register(s.api, huma.Operation{
		OperationID: "adminListUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/users",
		Summary:     "List users",
		Description: "Returns every account, oldest first. Admin only.",
		Tags:        []string{"Admin"},
		Security:    adminSecurity,
	}, s.handleAdminListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminListProducts",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/products",
		Summary:     "List all products",
		Description: "Returns products in every lifecycle status, paginated. Admin only.",
		Tags:        []string{"Admin"},
		Security:    adminSecurity,
	}, s.handleAdminListProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminSetProductStatus",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/products/{id}/status",
		Summary:     "Set product status",
		Description: "Moves a listing between draft, published, and archived. Admin only.",
		Tags:        []string{"Admin"},
		Security:    adminSecurity,
	}, s.handleAdminSetProductStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminListRegions",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/regions",
		Summary:     "List regions",
		Description: "Returns every marketplace region ordered by name. Admin only.",
		Tags:        []string{"Admin"},
		Security:    adminSecurity,
	}, s.handleAdminListRegions)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminCreateRegion",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/regions",
		Summary:     "Create region",
		Description: "Adds a marketplace region. Admin only.",
		Tags:        []string{"Admin"},
		Security:    adminSecurity,
	}, s.handleAdminCreateRegion)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminImportCatalog",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/catalog/import",
		Summary:     "Import catalog",
		Description: "Re-imports the catalog documents from the configured data directory. Admin only.",
		Tags:        []string{"Admin"},
		Security:    adminSecurity,
	}, s.handleAdminImportCatalog)
}

// === DTOs ===

// UserListResponse is an unpaginated account list.
type UserListResponse struct {
	Items []UserResponse `json:"items" doc:"Accounts oldest first"`
}

// UserListOutput wraps the account list for Huma.
type UserListOutput struct {
	Body UserListResponse
}

// AdminListProductsInput carries status filtering and pagination.
type AdminListProductsInput struct {
	Status string `query:"status" doc:"Filter by lifecycle status (draft, published, or archived)"`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Page size"`
	Cursor string `query:"cursor" doc:"Pagination cursor"`
}

// SetProductStatusRequest carries the target lifecycle status.
type SetProductStatusRequest struct {
	Status string `json:"status" validate:"required,product_status" doc:"Target status: draft, published, or archived"`
}

// SetProductStatusInput wraps the status change for Huma.
type SetProductStatusInput struct {
	ID   string `path:"id" maxLength:"100" doc:"Product ID"`
	Body SetProductStatusRequest
}

// RegionResponse contains region data in API responses.
type RegionResponse struct {
	ID        string    `json:"id" doc:"Region ID"`
	Name      string    `json:"name" doc:"Region name"`
	Code      string    `json:"code,omitempty" doc:"Short region code"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
}

// RegionOutput wraps a single region for Huma.
type RegionOutput struct {
	Body RegionResponse
}

// RegionListResponse is an unpaginated region list.
type RegionListResponse struct {
	Items []RegionResponse `json:"items" doc:"Regions ordered by name"`
}

// RegionListOutput wraps the region list for Huma.
type RegionListOutput struct {
	Body RegionListResponse
}

// CreateRegionInput wraps the create request for Huma.
type CreateRegionInput struct {
	Body service.CreateRegionRequest
}

// ImportResultResponse summarizes a catalog import.
type ImportResultResponse struct {
	Products   int `json:"products" doc:"Products imported"`
	Categories int `json:"categories" doc:"Categories imported"`
}

// ImportResultOutput wraps the import summary for Huma.
type ImportResultOutput struct {
	Body ImportResultResponse
}

// === Handlers ===

func (s *Server) handleAdminListUsers(ctx context.Context, _ *struct{}) (*UserListOutput, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}

	users, err := s.services.Admin.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, mapUser(u))
	}
	return &UserListOutput{Body: UserListResponse{Items: items}}, nil
}

func (s *Server) handleAdminListProducts(ctx context.Context, input *AdminListProductsInput) (*ProductPageOutput, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}

	result, err := s.services.Admin.ListAllProducts(ctx, input.Status, input.Limit, input.Cursor)
	if err != nil {
		return nil, err
	}
	return &ProductPageOutput{Body: mapProductPage(result)}, nil
}

func (s *Server) handleAdminSetProductStatus(ctx context.Context, input *SetProductStatusInput) (*ProductOutput, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}

	p, err := s.services.Admin.SetProductStatus(ctx, input.ID, domain.ProductStatus(input.Body.Status))
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: mapProduct(p)}, nil
}

func (s *Server) handleAdminListRegions(ctx context.Context, _ *struct{}) (*RegionListOutput, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}

	regions, err := s.services.Admin.ListRegions(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]RegionResponse, 0, len(regions))
	for i := range regions {
		items = append(items, mapRegion(&regions[i]))
	}
	return &RegionListOutput{Body: RegionListResponse{Items: items}}, nil
}

func (s *Server) handleAdminCreateRegion(ctx context.Context, input *CreateRegionInput) (*RegionOutput, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}

	region, err := s.services.Admin.CreateRegion(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &RegionOutput{Body: mapRegion(region)}, nil
}

func (s *Server) handleAdminImportCatalog(ctx context.Context, _ *struct{}) (*ImportResultOutput, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if s.catalogDir == "" {
		return nil, domainerrors.Conflict("No catalog data directory configured")
	}

	result, err := s.services.Ingest.ImportFromDir(ctx, s.catalogDir)
	if err != nil {
		return nil, err
	}
	return &ImportResultOutput{
		Body: ImportResultResponse{
			Products:   result.Products,
			Categories: result.Categories,
		},
	}, nil
}

// === Mapping helpers ===

func mapRegion(r *domain.Region) RegionResponse {
	return RegionResponse{
		ID:        r.ID,
		Name:      r.Name,
		Code:      r.Code,
		CreatedAt: r.CreatedAt,
	}
}
