// Package docservice coordinates the generation pipeline: financial
// normalization, layout building, rendering, and (for the generate path)
// persistence. The preview path never touches the artifact store.
package docservice

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/finance"
	"github.com/starford/fehu/internal/layout"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/scancode"
	"github.com/starford/fehu/internal/store"
)

// Renderer resolves a layout tree to a complete binary.
type Renderer interface {
	Render(ctx context.Context, doc *layout.Document) ([]byte, error)
}

// DefaultPutTimeout bounds one persistence write.
const DefaultPutTimeout = 10 * time.Second

// Service is the delivery router core.
type Service struct {
	store        store.Provider
	renderer     Renderer
	encoder      scancode.Encoder
	strictTotals bool
	putTimeout   time.Duration
}

// New creates a document service. A non-positive putTimeout means
// DefaultPutTimeout.
func New(st store.Provider, r Renderer, enc scancode.Encoder, strictTotals bool, putTimeout time.Duration) *Service {
	if putTimeout <= 0 {
		putTimeout = DefaultPutTimeout
	}
	return &Service{
		store:        st,
		renderer:     r,
		encoder:      enc,
		strictTotals: strictTotals,
		putTimeout:   putTimeout,
	}
}

// totalsTolerance absorbs float representation noise when comparing
// caller-supplied totals against recomputed ones.
const totalsTolerance = 0.005

// verifyTotals recomputes the invoice arithmetic and rejects mismatches.
// Only consulted in strict mode; the default trusts the caller, matching
// the documented trust boundary.
func verifyTotals(req models.InvoiceRequest) error {
	lines := make([]finance.LineInput, len(req.Services))
	for i, svc := range req.Services {
		lines[i] = finance.LineInput{Qty: svc.Qty.Float(), UnitPrice: svc.UnitPrice.Float()}
	}
	want := finance.Compute(lines, req.TaxPercentage.Float())

	for i, svc := range req.Services {
		if math.Abs(svc.LineTotal.Float()-want.LineTotals[i]) > totalsTolerance {
			return fmt.Errorf("%w: line %d total %.2f, computed %.2f",
				apperr.ErrTotalsMismatch, i, svc.LineTotal.Float(), want.LineTotals[i])
		}
	}
	if math.Abs(req.Subtotal.Float()-want.Subtotal) > totalsTolerance {
		return fmt.Errorf("%w: subtotal %.2f, computed %.2f",
			apperr.ErrTotalsMismatch, req.Subtotal.Float(), want.Subtotal)
	}
	if math.Abs(req.GrandTotal.Float()-want.GrandTotal) > totalsTolerance {
		return fmt.Errorf("%w: grand total %.2f, computed %.2f",
			apperr.ErrTotalsMismatch, req.GrandTotal.Float(), want.GrandTotal)
	}
	return nil
}

func (s *Service) buildInvoice(req models.InvoiceRequest) (*layout.Document, error) {
	if s.strictTotals {
		if err := verifyTotals(req); err != nil {
			return nil, err
		}
	}
	return layout.BuildInvoice(req), nil
}

func (s *Service) buildDocument(req models.DocumentRequest) (*layout.Document, error) {
	code, err := s.encoder.Encode(req.CodeData)
	if err != nil {
		return nil, err
	}
	return layout.BuildDocument(req, code), nil
}

func invoiceFilename(prefix string, req models.InvoiceRequest) string {
	nr := req.InvoiceNumber
	if nr == "" {
		nr = "INV"
	}
	return fmt.Sprintf("%s_%s_%d.pdf", prefix, nr, time.Now().UnixMilli())
}

// PreviewInvoice renders an invoice and returns the bytes without any
// persisted side effect.
func (s *Service) PreviewInvoice(ctx context.Context, req models.InvoiceRequest) ([]byte, string, error) {
	doc, err := s.buildInvoice(req)
	if err != nil {
		return nil, "", err
	}
	data, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return nil, "", err
	}
	return data, invoiceFilename("Preview_Invoice", req), nil
}

// GenerateInvoice renders an invoice and persists it together with its
// structured source data. Nothing is written when rendering fails.
func (s *Service) GenerateInvoice(ctx context.Context, req models.InvoiceRequest) (uuid.UUID, string, error) {
	doc, err := s.buildInvoice(req)
	if err != nil {
		return uuid.Nil, "", err
	}
	data, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return uuid.Nil, "", err
	}
	source, err := json.Marshal(req)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("docservice: marshal source data: %w", err)
	}
	filename := invoiceFilename("Invoice", req)
	id, err := s.put(ctx, store.PutInput{
		Filename:    filename,
		ContentType: models.PDFContentType,
		Data:        data,
		SourceData:  source,
	})
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, filename, nil
}

// PreviewDocument renders the generic document shape without persistence.
func (s *Service) PreviewDocument(ctx context.Context, req models.DocumentRequest) ([]byte, string, error) {
	doc, err := s.buildDocument(req)
	if err != nil {
		return nil, "", err
	}
	data, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("Preview_Document_%d.pdf", time.Now().UnixMilli()), nil
}

// GenerateDocument renders and persists the generic document shape. Generic
// documents carry no structured source data.
func (s *Service) GenerateDocument(ctx context.Context, req models.DocumentRequest) (uuid.UUID, string, error) {
	doc, err := s.buildDocument(req)
	if err != nil {
		return uuid.Nil, "", err
	}
	data, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return uuid.Nil, "", err
	}
	filename := fmt.Sprintf("Document_%d.pdf", time.Now().UnixMilli())
	id, err := s.put(ctx, store.PutInput{
		Filename:    filename,
		ContentType: models.PDFContentType,
		Data:        data,
	})
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, filename, nil
}

func (s *Service) put(ctx context.Context, in store.PutInput) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, s.putTimeout)
	defer cancel()
	return s.store.Put(ctx, in)
}

// GetArtifact validates the raw identifier and fetches the artifact.
func (s *Service) GetArtifact(ctx context.Context, rawID string) (*models.Artifact, error) {
	id, err := store.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// ListArtifacts returns metadata summaries, newest first.
func (s *Service) ListArtifacts(ctx context.Context) ([]models.ArtifactSummary, error) {
	return s.store.List(ctx)
}

// Ping reports store reachability for the HTTP layer's 503 mapping.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
