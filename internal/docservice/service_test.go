package docservice_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/docservice"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/render"
	"github.com/starford/fehu/internal/scancode"
	"github.com/starford/fehu/internal/testutil"
)

var samplePDF = []byte("%PDF-1.4 test payload for the document service")

func testService(t *testing.T, engine render.Engine, strict bool) *docservice.Service {
	t.Helper()
	st := testutil.TestStore(t)
	adapter := render.NewAdapter(engine, 0)
	return docservice.New(st, adapter, &scancode.QR{}, strict, 0)
}

func sampleInvoice() models.InvoiceRequest {
	return models.InvoiceRequest{
		ClientCompanyName: "Acme",
		InvoiceNumber:     "INV-9",
		Services: []models.ServiceLine{
			{Description: "Design", Qty: 2, UnitPrice: 100, LineTotal: 200},
		},
		Subtotal:      200,
		TaxPercentage: 10,
		GrandTotal:    220,
	}
}

func TestPreviewDoesNotPersist(t *testing.T) {
	svc := testService(t, &testutil.StaticEngine{Payload: samplePDF}, false)
	ctx := context.Background()

	data, filename, err := svc.PreviewInvoice(ctx, sampleInvoice())
	if err != nil {
		t.Fatalf("PreviewInvoice: %v", err)
	}
	if !bytes.Equal(data, samplePDF) {
		t.Error("preview bytes differ from rendered bytes")
	}
	if filename == "" {
		t.Error("preview filename empty")
	}

	items, err := svc.ListArtifacts(ctx)
	if err != nil {
		t.Fatalf("ListArtifacts: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("preview must not persist; listing has %d entries", len(items))
	}
}

func TestGeneratePersistsExactlyOnce(t *testing.T) {
	svc := testService(t, &testutil.StaticEngine{Payload: samplePDF}, false)
	ctx := context.Background()

	id, filename, err := svc.GenerateInvoice(ctx, sampleInvoice())
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	items, err := svc.ListArtifacts(ctx)
	if err != nil {
		t.Fatalf("ListArtifacts: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("listing has %d entries, want 1", len(items))
	}
	if items[0].ID != id || items[0].Filename != filename {
		t.Errorf("listing = %+v, want id %s file %s", items[0], id, filename)
	}

	got, err := svc.GetArtifact(ctx, id.String())
	if err != nil {
		t.Fatalf("GetArtifact: %v", err)
	}
	if !bytes.Equal(got.Data, samplePDF) {
		t.Error("stored bytes differ from rendered bytes")
	}
	if len(got.SourceData) == 0 {
		t.Error("invoice artifact should carry source data")
	}
}

func TestGenerateDocumentHasNoSourceData(t *testing.T) {
	svc := testService(t, &testutil.StaticEngine{Payload: samplePDF}, false)
	ctx := context.Background()

	id, _, err := svc.GenerateDocument(ctx, models.DocumentRequest{Title: "Report"})
	if err != nil {
		t.Fatalf("GenerateDocument: %v", err)
	}
	got, err := svc.GetArtifact(ctx, id.String())
	if err != nil {
		t.Fatalf("GetArtifact: %v", err)
	}
	if len(got.SourceData) != 0 {
		t.Errorf("generic document should have no source data, got %s", got.SourceData)
	}
}

func TestRenderFailureWritesNothing(t *testing.T) {
	svc := testService(t, &testutil.FailingEngine{}, false)
	ctx := context.Background()

	_, _, err := svc.GenerateInvoice(ctx, sampleInvoice())
	if !errors.Is(err, apperr.ErrRenderFailed) {
		t.Fatalf("err = %v, want ErrRenderFailed", err)
	}
	items, _ := svc.ListArtifacts(ctx)
	if len(items) != 0 {
		t.Errorf("failed render must not persist; listing has %d entries", len(items))
	}
}

func TestGetArtifactInvalidID(t *testing.T) {
	svc := testService(t, &testutil.StaticEngine{Payload: samplePDF}, false)
	_, err := svc.GetArtifact(context.Background(), "not-an-id")
	if !errors.Is(err, apperr.ErrInvalidID) {
		t.Fatalf("err = %v, want ErrInvalidID", err)
	}
}

func TestStrictTotalsRejectsMismatch(t *testing.T) {
	svc := testService(t, &testutil.StaticEngine{Payload: samplePDF}, true)
	req := sampleInvoice()
	req.GrandTotal = 999

	_, _, err := svc.GenerateInvoice(context.Background(), req)
	if !errors.Is(err, apperr.ErrTotalsMismatch) {
		t.Fatalf("err = %v, want ErrTotalsMismatch", err)
	}
}

func TestStrictTotalsAcceptsConsistentInvoice(t *testing.T) {
	svc := testService(t, &testutil.StaticEngine{Payload: samplePDF}, true)
	if _, _, err := svc.GenerateInvoice(context.Background(), sampleInvoice()); err != nil {
		t.Fatalf("consistent invoice rejected: %v", err)
	}
}

func TestTrustingModeStoresCallerTotals(t *testing.T) {
	svc := testService(t, &testutil.StaticEngine{Payload: samplePDF}, false)
	req := sampleInvoice()
	req.GrandTotal = 999 // wrong on purpose; default mode trusts the caller

	if _, _, err := svc.GenerateInvoice(context.Background(), req); err != nil {
		t.Fatalf("trusting mode rejected caller totals: %v", err)
	}
}
