// Package api provides the HTTP API server and handlers for the DaveDeals application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/davedeals/davedeals-server/internal/store/sqlite"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *sqlite.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *RateLimiter
	catalogDir      string
}

// Options tunes server construction. The zero value works for tests.
type Options struct {
	// AllowedOrigins restricts CORS. Empty means same-origin only.
	AllowedOrigins []string

	// AuthRatePerMinute caps login/register/refresh attempts per IP.
	// Zero uses the default of 20 per minute.
	AuthRatePerMinute int

	// CatalogDir is the directory holding the catalog JSON documents
	// for the admin import endpoint. Empty disables the endpoint.
	CatalogDir string
}

const defaultAuthRatePerMinute = 20

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *sqlite.Store, services *Services, logger *slog.Logger, opts Options) *Server {
	authRate := opts.AuthRatePerMinute
	if authRate <= 0 {
		authRate = defaultAuthRatePerMinute
	}

	router := chi.NewRouter()

	s := &Server{
		store:           store,
		services:        services,
		router:          router,
		logger:          logger,
		authRateLimiter: NewRateLimiter(authRate, time.Minute, authRate),
		catalogDir:      opts.CatalogDir,
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("DaveDeals API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-owned background resources.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(opts.AllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	s.router.Use(RateLimitMiddleware(s.authRateLimiter, "/api/v1/auth/", s.logger))
	s.router.Use(authMiddleware(s.services.Auth))
}

// setupRoutes registers every operation with the API.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerStorefrontRoutes()
	s.registerCatalogRoutes()
	s.registerSuggestRoutes()
	s.registerProductRoutes()
	s.registerAdminRoutes()
}
