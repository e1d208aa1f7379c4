package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/davedeals/davedeals-server/internal/api"
	"github.com/davedeals/davedeals-server/internal/config"
	"github.com/davedeals/davedeals-server/internal/logger"
	"github.com/davedeals/davedeals-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	apiServer *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.apiServer.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	services := &api.Services{
		Auth:       do.MustInvoke[*service.AuthService](i),
		Product:    do.MustInvoke[*service.ProductService](i),
		Catalog:    do.MustInvoke[*service.CatalogService](i),
		Storefront: do.MustInvoke[*service.StorefrontService](i),
		Suggest:    do.MustInvoke[*service.SuggestService](i),
		Admin:      do.MustInvoke[*service.AdminService](i),
		Ingest:     do.MustInvoke[*service.IngestService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, log.Logger, api.Options{
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		AuthRatePerMinute: int(cfg.Server.AuthRateRPS*60) + cfg.Server.AuthRateBurst,
		CatalogDir:        cfg.Catalog.DataDir,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv, apiServer: handler}, nil
}
