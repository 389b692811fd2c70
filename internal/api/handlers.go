package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"encoding/json"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/docservice"
	"github.com/starford/fehu/internal/models"
)

const maxBodyBytes = 10 << 20

// Handler holds the API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// redirectWithStatus sends the caller back to the listing with a one-shot
// status message on the query string. The message lives only in this
// redirect; the next listing render consumes it and nothing is retained.
func redirectWithStatus(w http.ResponseWriter, r *http.Request, level, msg string) {
	q := url.Values{}
	q.Set("msg", msg)
	q.Set("level", level)
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

// List handles GET /.
//
//	@Summary	List generated artifacts, newest first
//	@Produce	json
//	@Success	200	{object}	ListResponse
//	@Failure	503	{object}	errResponse
//	@Router		/ [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("store not connected, try again later"))
		return
	}
	items, err := h.svc.ListArtifacts(r.Context())
	if err != nil {
		slog.Error("list artifacts failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to list artifacts"))
		return
	}
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, ListResponse{
		Artifacts: items,
		Message:   q.Get("msg"),
		Level:     q.Get("level"),
	})
}

// GenerateInvoice handles POST /generate-invoice.
//
//	@Summary	Render an invoice, persist it, and redirect with a status message
//	@Accept		json
//	@Success	303
//	@Failure	503	{object}	errResponse
//	@Router		/generate-invoice [post]
func (h *Handler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("store not connected, try again later"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req models.InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	_, filename, err := h.svc.GenerateInvoice(r.Context(), req)
	if err != nil {
		slog.Error("generate invoice failed", slog.String("error", err.Error()))
		if errors.Is(err, apperr.ErrTotalsMismatch) {
			redirectWithStatus(w, r, "error", "Invoice totals do not match the line items.")
			return
		}
		redirectWithStatus(w, r, "error", "Failed to generate invoice.")
		return
	}
	redirectWithStatus(w, r, "success", fmt.Sprintf("Invoice %q generated successfully!", filename))
}

// PreviewInvoice handles POST /preview-invoice. The rendered bytes stream
// straight back to the caller; nothing is persisted.
//
//	@Summary	Render an invoice for inline preview
//	@Accept		json
//	@Produce	application/pdf
//	@Success	200
//	@Router		/preview-invoice [post]
func (h *Handler) PreviewInvoice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req models.InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	data, filename, err := h.svc.PreviewInvoice(r.Context(), req)
	if err != nil {
		slog.Error("preview invoice failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to generate invoice for preview"))
		return
	}
	writePDF(w, filename, "inline", data)
}

// GenerateDocument handles POST /generate-document.
//
//	@Summary	Render the generic document shape and persist it
//	@Accept		json
//	@Success	303
//	@Router		/generate-document [post]
func (h *Handler) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("store not connected, try again later"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req models.DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	_, filename, err := h.svc.GenerateDocument(r.Context(), req)
	if err != nil {
		slog.Error("generate document failed", slog.String("error", err.Error()))
		redirectWithStatus(w, r, "error", "Failed to generate document.")
		return
	}
	redirectWithStatus(w, r, "success", fmt.Sprintf("Document %q generated successfully!", filename))
}

// PreviewDocument handles POST /preview-document.
//
//	@Summary	Render the generic document shape for inline preview
//	@Accept		json
//	@Produce	application/pdf
//	@Success	200
//	@Router		/preview-document [post]
func (h *Handler) PreviewDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req models.DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	data, filename, err := h.svc.PreviewDocument(r.Context(), req)
	if err != nil {
		slog.Error("preview document failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to generate document for preview"))
		return
	}
	writePDF(w, filename, "inline", data)
}

// Download handles GET /artifacts/{id}/download.
//
//	@Summary	Download a stored artifact by identifier
//	@Produce	application/pdf
//	@Success	200
//	@Failure	400	{object}	errResponse
//	@Failure	404	{object}	errResponse
//	@Failure	503	{object}	errResponse
//	@Router		/artifacts/{id}/download [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("store not connected, try again later"))
		return
	}
	rawID := chi.URLParam(r, "id")
	artifact, err := h.svc.GetArtifact(r.Context(), rawID)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidID):
			writeJSON(w, http.StatusBadRequest, errorBody("invalid artifact id format"))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("artifact not found"))
		case errors.Is(err, apperr.ErrUnavailable):
			writeJSON(w, http.StatusServiceUnavailable, errorBody("store not connected, try again later"))
		default:
			slog.Error("download failed", slog.String("id", rawID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("failed to download artifact"))
		}
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Data); err != nil {
		slog.Error("write artifact body failed", slog.String("error", err.Error()))
	}
}

func writePDF(w http.ResponseWriter, filename, disposition string, data []byte) {
	w.Header().Set("Content-Type", models.PDFContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("write pdf body failed", slog.String("error", err.Error()))
	}
}
