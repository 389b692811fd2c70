// Package api implements the Fehu HTTP surface using chi.
package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/docservice"
)

// NewRouter creates a chi router with all routes mounted.
func NewRouter(svc *docservice.Service) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Listing with one-shot status echo.
	r.Get("/", h.List)

	// Generate path: persist, then redirect with status.
	r.Post("/generate-invoice", h.GenerateInvoice)
	r.Post("/generate-document", h.GenerateDocument)

	// Preview path: stream back, no persistence.
	r.Post("/preview-invoice", h.PreviewInvoice)
	r.Post("/preview-document", h.PreviewDocument)

	// Point lookup by identifier.
	r.Get("/artifacts/{id}/download", h.Download)

	return r
}
