package api

import (
	"net/http"
	"time"

	documentapi "github.com/driftlab/research-router/internal/api/document"
	"github.com/driftlab/research-router/internal/api/middleware"
	queryapi "github.com/driftlab/research-router/internal/api/query"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(documentHandler *documentapi.Handler, queryHandler *queryapi.Handler, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                 // Recover from panics
	r.Use(chimiddleware.RequestID)                 // Add request ID
	r.Use(middleware.Logger(logger))               // Log requests
	r.Use(middleware.CORS(allowedOrigins))         // Handle CORS
	r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Register routes
	documentapi.RegisterRoutes(r, documentHandler)
	queryapi.RegisterRoutes(r, queryHandler)

	return r
}
