package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/davedeals/davedeals-server/internal/config"
	"github.com/davedeals/davedeals-server/internal/logger"
	"github.com/davedeals/davedeals-server/internal/service"
	"github.com/davedeals/davedeals-server/internal/watcher"
)

// CatalogWatcherHandle wraps the catalog file watcher with shutdown capability.
// The watcher may be nil when no catalog directory is configured.
type CatalogWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *CatalogWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideCatalogWatcher watches the catalog data directory and re-imports
// the JSON files whenever they change.
func ProvideCatalogWatcher(i do.Injector) (*CatalogWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	ingestService := do.MustInvoke[*service.IngestService](i)

	if cfg.Catalog.DataDir == "" {
		log.Info("Catalog watcher disabled - no catalog directory configured")
		return &CatalogWatcherHandle{}, nil
	}

	dir := cfg.Catalog.DataDir
	w, err := watcher.New(dir, func(ctx context.Context) error {
		_, err := ingestService.ImportFromDir(ctx, dir)
		return err
	}, log.Logger, watcher.Options{})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("Catalog watcher error", "dir", dir, "error", err)
		}
	}()

	log.Info("Catalog watcher started", "dir", dir)

	return &CatalogWatcherHandle{Watcher: w, cancel: cancel}, nil
}

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		// Initial cleanup on startup
		if count, err := storeHandle.DeleteExpiredSessions(ctx, time.Now()); err != nil {
			log.Warn("Initial session cleanup failed", "error", err)
		} else if count > 0 {
			log.Info("Initial session cleanup completed", "deleted", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := storeHandle.DeleteExpiredSessions(ctx, time.Now()); err != nil {
					log.Warn("Session cleanup failed", "error", err)
				} else if count > 0 {
					log.Info("Session cleanup completed", "deleted", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started")

	return &SessionCleanupJob{cancel: cancel}, nil
}
