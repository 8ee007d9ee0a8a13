package query

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers query routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/ask", h.Ask)
	r.Get("/logs", h.GetLogs)
}
