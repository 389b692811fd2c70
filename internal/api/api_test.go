package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/fehu/internal/docservice"
	"github.com/starford/fehu/internal/render"
	"github.com/starford/fehu/internal/scancode"
	"github.com/starford/fehu/internal/testutil"
)

var samplePDF = []byte("%PDF-1.4 api test payload")

// testEnv sets up a temp store, a fake engine, the service, and the router.
func testEnv(t *testing.T, engine render.Engine) http.Handler {
	t.Helper()
	st := testutil.TestStore(t)
	adapter := render.NewAdapter(engine, 0)
	svc := docservice.New(st, adapter, &scancode.QR{}, false, 0)
	return NewRouter(svc)
}

func invoiceBody(t *testing.T) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"clientCompanyName": "Acme",
		"invoiceNumber":     "INV-1",
		"services": []map[string]any{
			{"description": "Design", "qty": 2, "unitPrice": 100, "lineTotal": 200},
		},
		"subtotal":      200,
		"taxPercentage": 10,
		"grandTotal":    220,
	})
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(body)
}

func listArtifacts(t *testing.T, router http.Handler) ListResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp ListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestGenerateInvoiceRedirectsAndPersists(t *testing.T) {
	router := testEnv(t, &testutil.StaticEngine{Payload: samplePDF})

	req := httptest.NewRequest(http.MethodPost, "/generate-invoice", invoiceBody(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body = %s", w.Code, w.Body.String())
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "/?") || !strings.Contains(loc, "level=success") {
		t.Errorf("redirect location = %q", loc)
	}

	resp := listArtifacts(t, router)
	if len(resp.Artifacts) != 1 {
		t.Fatalf("listing has %d entries, want 1", len(resp.Artifacts))
	}
	if !strings.HasPrefix(resp.Artifacts[0].Filename, "Invoice_INV-1_") {
		t.Errorf("filename = %q", resp.Artifacts[0].Filename)
	}
}

func TestListEchoesOneShotMessage(t *testing.T) {
	router := testEnv(t, &testutil.StaticEngine{Payload: samplePDF})

	req := httptest.NewRequest(http.MethodGet, "/?msg=hello&level=success", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp ListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Message != "hello" || resp.Level != "success" {
		t.Errorf("message = %q level = %q", resp.Message, resp.Level)
	}

	// A plain listing carries no message: nothing is retained server-side.
	resp = listArtifacts(t, router)
	if resp.Message != "" || resp.Level != "" {
		t.Errorf("message leaked across requests: %+v", resp)
	}
}

func TestPreviewInvoiceStreamsWithoutPersisting(t *testing.T) {
	router := testEnv(t, &testutil.StaticEngine{Payload: samplePDF})

	req := httptest.NewRequest(http.MethodPost, "/preview-invoice", invoiceBody(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "inline;") {
		t.Errorf("disposition = %q", cd)
	}
	if !bytes.Equal(w.Body.Bytes(), samplePDF) {
		t.Error("preview body differs from rendered bytes")
	}

	if resp := listArtifacts(t, router); len(resp.Artifacts) != 0 {
		t.Errorf("preview persisted %d artifacts", len(resp.Artifacts))
	}
}

func TestGenerateRenderFailureRedirectsWithError(t *testing.T) {
	router := testEnv(t, &testutil.FailingEngine{})

	req := httptest.NewRequest(http.MethodPost, "/generate-invoice", invoiceBody(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "level=error") {
		t.Errorf("redirect location = %q", loc)
	}

	if resp := listArtifacts(t, router); len(resp.Artifacts) != 0 {
		t.Errorf("failed generate persisted %d artifacts", len(resp.Artifacts))
	}
}

func TestDownloadRoundTrip(t *testing.T) {
	router := testEnv(t, &testutil.StaticEngine{Payload: samplePDF})

	req := httptest.NewRequest(http.MethodPost, "/generate-invoice", invoiceBody(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := listArtifacts(t, router)
	if len(resp.Artifacts) != 1 {
		t.Fatalf("listing has %d entries", len(resp.Artifacts))
	}
	id := resp.Artifacts[0].ID

	req = httptest.NewRequest(http.MethodGet, "/artifacts/"+id.String()+"/download", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("download status = %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment;") {
		t.Errorf("disposition = %q", cd)
	}
	if !bytes.Equal(w.Body.Bytes(), samplePDF) {
		t.Error("downloaded bytes differ from stored bytes")
	}
}

func TestDownloadMalformedID(t *testing.T) {
	router := testEnv(t, &testutil.StaticEngine{Payload: samplePDF})

	req := httptest.NewRequest(http.MethodGet, "/artifacts/not-an-id/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestDownloadAbsentID(t *testing.T) {
	router := testEnv(t, &testutil.StaticEngine{Payload: samplePDF})

	req := httptest.NewRequest(http.MethodGet, "/artifacts/0b49a37e-98e5-4b80-9d40-d2f0fd2a3105/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGenerateInvoiceInvalidJSON(t *testing.T) {
	router := testEnv(t, &testutil.StaticEngine{Payload: samplePDF})

	req := httptest.NewRequest(http.MethodPost, "/generate-invoice", strings.NewReader("{nope"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGenerateCoercesMalformedNumbers(t *testing.T) {
	router := testEnv(t, &testutil.StaticEngine{Payload: samplePDF})

	// Numeric fields arrive as strings and garbage; coercion must accept.
	body := `{"invoiceNumber":"INV-2","services":[{"qty":"2","unitPrice":"abc","lineTotal":null}],"subtotal":"0","taxPercentage":"x","grandTotal":""}`
	req := httptest.NewRequest(http.MethodPost, "/generate-invoice", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303 (coercion, never rejection); body = %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "level=success") {
		t.Errorf("redirect location = %q", loc)
	}
}

func TestDownloadStoreUnavailable(t *testing.T) {
	st := testutil.TestStore(t)
	adapter := render.NewAdapter(&testutil.StaticEngine{Payload: samplePDF}, 0)
	svc := docservice.New(st, adapter, &scancode.QR{}, false, 0)
	router := NewRouter(svc)
	st.Close()

	req := httptest.NewRequest(http.MethodGet, "/artifacts/0b49a37e-98e5-4b80-9d40-d2f0fd2a3105/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 when store is down", w.Code)
	}
}
