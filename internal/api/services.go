package api

import (
	"github.com/davedeals/davedeals-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth       *service.AuthService
	Product    *service.ProductService
	Catalog    *service.CatalogService
	Storefront *service.StorefrontService
	Suggest    *service.SuggestService
	Admin      *service.AdminService
	Ingest     *service.IngestService
}
