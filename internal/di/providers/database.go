package providers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/davedeals/davedeals-server/internal/catalog"
	"github.com/davedeals/davedeals-server/internal/config"
	"github.com/davedeals/davedeals-server/internal/logger"
	"github.com/davedeals/davedeals-server/internal/service"
	"github.com/davedeals/davedeals-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Store.BasePath, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Store.BasePath, "davedeals.db")
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// ProvideSnapshotCache provides the in-memory catalog snapshot cache
// that the storefront, suggest, and catalog services read from.
func ProvideSnapshotCache(i do.Injector) (*catalog.Cache, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	return catalog.NewCache(service.NewSnapshotLoader(storeHandle.Store), cfg.Catalog.SnapshotTTL), nil
}

// Bootstrap holds startup state derived from configuration.
type Bootstrap struct {
	// ImportedCatalog is true when the initial catalog import ran.
	ImportedCatalog bool
}

// ProvideBootstrap seeds the configured admin account and, when the
// database is empty, performs an initial catalog import from the
// configured data directory.
func ProvideBootstrap(i do.Injector) (*Bootstrap, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	authService := do.MustInvoke[*service.AuthService](i)
	ingestService := do.MustInvoke[*service.IngestService](i)

	ctx := context.Background()
	bootstrap := &Bootstrap{}

	if cfg.Admin.Email != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return nil, fmt.Errorf("failed to ensure admin account: %w", err)
		}
		log.Info("Admin account ready", "email", cfg.Admin.Email)
	}

	if cfg.Catalog.DataDir != "" {
		categories, err := storeHandle.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		if len(categories) == 0 {
			result, err := ingestService.ImportFromDir(ctx, cfg.Catalog.DataDir)
			if err != nil {
				// Non-fatal: the server still works, the watcher will
				// retry once the files show up or change.
				log.Warn("Initial catalog import failed", "dir", cfg.Catalog.DataDir, "error", err)
			} else {
				bootstrap.ImportedCatalog = true
				log.Info("Initial catalog import completed",
					"products", result.Products,
					"categories", result.Categories,
				)
			}
		}
	}

	return bootstrap, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}
