// Package api provides the HTTP API server and handlers for the picklist engine.
package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/picklist"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/store/sqlite"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	picklists    *picklist.Store
	db           *sqlite.Store
	services     *Services
	router       *chi.Mux
	api          huma.API
	logger       *logger.Logger
	adminLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(picklists *picklist.Store, db *sqlite.Store, services *Services, log *logger.Logger) *Server {
	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("Picklist Engine API", "1.0.0")
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s := &Server{
		picklists:    picklists,
		db:           db,
		services:     services,
		router:       router,
		logger:       log,
		adminLimiter: NewRateLimiter(60, time.Minute, 20),
	}

	s.setupMiddleware()

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerPicklistRoutes()
	s.registerSyncRoutes()
	s.registerMismatchRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack. Runs before huma
// route registration so every handler is covered.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(s.adminRateLimit)
}

// Close releases server-owned resources.
func (s *Server) Close() {
	s.adminLimiter.Stop()
}
