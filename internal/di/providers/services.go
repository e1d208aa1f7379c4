package providers

import (
	"github.com/samber/do/v2"

	"github.com/davedeals/davedeals-server/internal/auth"
	"github.com/davedeals/davedeals-server/internal/catalog"
	"github.com/davedeals/davedeals-server/internal/logger"
	"github.com/davedeals/davedeals-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideProductService provides the product listing service.
func ProvideProductService(i do.Injector) (*service.ProductService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	snapshot := do.MustInvoke[*catalog.Cache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProductService(storeHandle.Store, snapshot, log.Logger), nil
}

// ProvideCatalogService provides the category catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	snapshot := do.MustInvoke[*catalog.Cache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(snapshot, log.Logger), nil
}

// ProvideStorefrontService provides the storefront rail service.
func ProvideStorefrontService(i do.Injector) (*service.StorefrontService, error) {
	snapshot := do.MustInvoke[*catalog.Cache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStorefrontService(snapshot, log.Logger), nil
}

// ProvideSuggestService provides the search suggestion service.
func ProvideSuggestService(i do.Injector) (*service.SuggestService, error) {
	snapshot := do.MustInvoke[*catalog.Cache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSuggestService(snapshot, log.Logger), nil
}

// ProvideAdminService provides the admin service.
func ProvideAdminService(i do.Injector) (*service.AdminService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	snapshot := do.MustInvoke[*catalog.Cache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAdminService(storeHandle.Store, snapshot, log.Logger), nil
}

// ProvideIngestService provides the catalog import service.
func ProvideIngestService(i do.Injector) (*service.IngestService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	snapshot := do.MustInvoke[*catalog.Cache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewIngestService(storeHandle.Store, snapshot, log.Logger), nil
}
