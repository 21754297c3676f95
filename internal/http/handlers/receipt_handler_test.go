package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/receipt-downloader/internal/domain"
	"github.com/diagnosis/receipt-downloader/internal/http/handlers"
	"github.com/diagnosis/receipt-downloader/internal/service"
)

// ---------- Mocks ----------

type mockReceiptRepo struct {
	receipts  map[string]*domain.Receipt
	available bool
}

func newMockReceiptRepo(receipts ...*domain.Receipt) *mockReceiptRepo {
	m := make(map[string]*domain.Receipt)
	for _, r := range receipts {
		m[r.ReceiptID] = r
	}
	return &mockReceiptRepo{receipts: m, available: true}
}

func (m *mockReceiptRepo) GetByReceiptID(_ context.Context, id string) (*domain.Receipt, error) {
	return m.receipts[id], nil
}

func (m *mockReceiptRepo) Insert(_ context.Context, r *domain.Receipt) error {
	m.receipts[r.ReceiptID] = r
	return nil
}

func (m *mockReceiptRepo) Available() bool { return m.available }

type mockRenderer struct {
	renderCalls int
	failWith    error
}

func (m *mockRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	m.renderCalls++
	if m.failWith != nil {
		return nil, m.failWith
	}
	return []byte("%PDF-1.4 fake\n" + html), nil
}

func (m *mockRenderer) Close() {}

// ---------- Helpers ----------

func janeDoe() *domain.Receipt {
	return &domain.Receipt{
		ID:            1,
		ReceiptID:     "R100",
		CustomerName:  "Jane Doe",
		CustomerPhone: "+1 (555) 012-3456",
		CustomerEmail: "jane@example.com",
		Amount:        42.50,
		Description:   "Airport transfer",
		PaymentMethod: "card",
		Status:        domain.ReceiptCompleted,
		CreatedAt:     time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func newTestRouter(repo *mockReceiptRepo, renderer *mockRenderer) chi.Router {
	h := handlers.NewReceiptHandler(service.NewVerifyService(repo), renderer)
	r := chi.NewRouter()
	r.Get("/", h.Home)
	r.Get("/health", handlers.Health)
	r.Mount("/receipt", h.Routes())
	return r
}

func postForm(t *testing.T, router http.Handler, path, phone string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	if phone != "" {
		form.Set("phone_number", phone)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ---------- Tests ----------

func TestHomePage(t *testing.T) {
	router := newTestRouter(newMockReceiptRepo(), &mockRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "/receipt/{receipt_id}") {
		t.Errorf("home page should carry the lookup instructions")
	}
}

func TestFormPageBoundToID(t *testing.T) {
	router := newTestRouter(newMockReceiptRepo(), &mockRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/receipt/R100", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "/receipt/R100/verify") {
		t.Errorf("form should post to the verify route for R100, got body:\n%s", body)
	}
}

func TestVerifyMatchShowsReceipt(t *testing.T) {
	router := newTestRouter(newMockReceiptRepo(janeDoe()), &mockRenderer{})

	// Any separator style collapsing to the stored digit sequence verifies.
	for _, phone := range []string{"+1(555)012-3456", "1-555-012-3456", " 15550123456 "} {
		rr := postForm(t, router, "/receipt/R100/verify", phone)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200 for %q, got %d", phone, rr.Code)
		}
		body := rr.Body.String()
		if !strings.Contains(body, "Jane Doe") {
			t.Errorf("receipt view for %q should show the customer name", phone)
		}
		if !strings.Contains(body, "42.50") {
			t.Errorf("receipt view for %q should show the amount", phone)
		}
	}

	// Stored phone has a leading 1; bare local digits do not match.
	rr := postForm(t, router, "/receipt/R100/verify", "5550123456")
	if body := rr.Body.String(); strings.Contains(body, "Jane Doe") {
		t.Errorf("digit-only comparison must be exact, got a receipt view for %q", "5550123456")
	}
}

func TestVerifyMismatchShowsGenericError(t *testing.T) {
	router := newTestRouter(newMockReceiptRepo(janeDoe()), &mockRenderer{})

	rr := postForm(t, router, "/receipt/R100/verify", "+1 (555) 012-3457")

	// Errors on the verify path render as 200 HTML by design.
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "does not match") {
		t.Errorf("mismatch page should say the phone does not match")
	}
	if strings.Contains(body, "Jane Doe") || strings.Contains(body, "42.50") {
		t.Errorf("mismatch page must not leak customer data")
	}
}

func TestVerifyNotFound(t *testing.T) {
	router := newTestRouter(newMockReceiptRepo(janeDoe()), &mockRenderer{})

	rr := postForm(t, router, "/receipt/UNKNOWN/verify", "5550123456")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Receipt not found") {
		t.Errorf("not-found page should say the receipt was not found")
	}
}

func TestVerifyMissingPhone(t *testing.T) {
	router := newTestRouter(newMockReceiptRepo(janeDoe()), &mockRenderer{})

	rr := postForm(t, router, "/receipt/R100/verify", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "Jane Doe") {
		t.Errorf("missing phone must not reveal the receipt")
	}
}

func TestDownloadSuccess(t *testing.T) {
	renderer := &mockRenderer{}
	router := newTestRouter(newMockReceiptRepo(janeDoe()), renderer)

	rr := postForm(t, router, "/receipt/R100/download", "+1 (555) 012-3456")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != "attachment; filename=receipt_R100.pdf" {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	if renderer.renderCalls != 1 {
		t.Errorf("expected exactly one render, got %d", renderer.renderCalls)
	}
	body := rr.Body.String()
	for _, want := range []string{"Jane Doe", "42.50", "R100"} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered document should contain %q", want)
		}
	}
}

func TestDownloadNotFound(t *testing.T) {
	renderer := &mockRenderer{}
	router := newTestRouter(newMockReceiptRepo(janeDoe()), renderer)

	rr := postForm(t, router, "/receipt/UNKNOWN/download", "5550123456")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if renderer.renderCalls != 0 {
		t.Errorf("nothing may be rendered without a verified receipt")
	}
}

func TestDownloadPhoneMismatch(t *testing.T) {
	renderer := &mockRenderer{}
	router := newTestRouter(newMockReceiptRepo(janeDoe()), renderer)

	rr := postForm(t, router, "/receipt/R100/download", "+1 (555) 012-3457")

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	if renderer.renderCalls != 0 {
		t.Errorf("nothing may be rendered without a verified receipt")
	}
}

func TestDownloadMissingPhone(t *testing.T) {
	router := newTestRouter(newMockReceiptRepo(janeDoe()), &mockRenderer{})

	rr := postForm(t, router, "/receipt/R100/download", "")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestDownloadRenderFailure(t *testing.T) {
	renderer := &mockRenderer{failWith: domain.ErrRender}
	router := newTestRouter(newMockReceiptRepo(janeDoe()), renderer)

	rr := postForm(t, router, "/receipt/R100/download", "+1 (555) 012-3456")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "%PDF") {
		t.Errorf("a failed render must not leak partial output")
	}
}

func TestStoreUnavailable(t *testing.T) {
	repo := newMockReceiptRepo(janeDoe())
	repo.available = false
	router := newTestRouter(repo, &mockRenderer{})

	// Verify path: 200 with the unavailable error page.
	rr := postForm(t, router, "/receipt/R100/verify", "+1 (555) 012-3456")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "not available") {
		t.Errorf("verify page should report the store as unavailable")
	}

	// Download path: 500.
	rr = postForm(t, router, "/receipt/R100/download", "+1 (555) 012-3456")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	// Health stays green regardless of the store.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	hr := httptest.NewRecorder()
	router.ServeHTTP(hr, req)
	if hr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", hr.Code)
	}
}

func TestHealthPayload(t *testing.T) {
	router := newTestRouter(newMockReceiptRepo(), &mockRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	want := `{"status":"healthy","service":"Receipt Downloader"}`
	if got := strings.TrimSpace(rr.Body.String()); got != want {
		t.Errorf("health payload = %s, want %s", got, want)
	}
}
