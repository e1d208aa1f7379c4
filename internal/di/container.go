// Package di provides dependency injection configuration for the DaveDeals server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/davedeals/davedeals-server/internal/auth"
	"github.com/davedeals/davedeals-server/internal/config"
	"github.com/davedeals/davedeals-server/internal/di/providers"
	"github.com/davedeals/davedeals-server/internal/logger"
	"github.com/davedeals/davedeals-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSnapshotCache)
	do.Provide(injector, providers.ProvideBootstrap)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideProductService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideStorefrontService)
	do.Provide(injector, providers.ProvideSuggestService)
	do.Provide(injector, providers.ProvideAdminService)
	do.Provide(injector, providers.ProvideIngestService)

	// Workers
	do.Provide(injector, providers.ProvideCatalogWatcher)
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.ProductService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.StorefrontService](injector)
	_ = do.MustInvoke[*service.SuggestService](injector)
	_ = do.MustInvoke[*service.AdminService](injector)
	_ = do.MustInvoke[*service.IngestService](injector)

	// Admin seeding and initial catalog import
	_ = do.MustInvoke[*providers.Bootstrap](injector)

	// Workers
	_ = do.MustInvoke[*providers.CatalogWatcherHandle](injector)
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
