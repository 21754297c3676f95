package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/receipt-downloader/internal/domain"
	"github.com/diagnosis/receipt-downloader/internal/http/response"
	"github.com/diagnosis/receipt-downloader/internal/render"
	"github.com/diagnosis/receipt-downloader/internal/service"
	"github.com/diagnosis/receipt-downloader/internal/utils"
	"github.com/diagnosis/receipt-downloader/internal/web"
	"github.com/diagnosis/receipt-downloader/pkg/logger"
)

type ReceiptHandler struct {
	Verify   service.VerifyService
	Renderer render.Renderer
}

func NewReceiptHandler(verify service.VerifyService, renderer render.Renderer) *ReceiptHandler {
	return &ReceiptHandler{Verify: verify, Renderer: renderer}
}

func (h *ReceiptHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.form)
	r.Post("/{id}/verify", h.verify)
	r.Post("/{id}/download", h.download)

	return r
}

// Home is the instructions page mounted at /.
func (h *ReceiptHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "receipt_form.html", map[string]any{
		"Title":   "Receipt Downloader",
		"Message": "Enter a receipt ID in the URL: /receipt/{receipt_id}",
	})
}

func (h *ReceiptHandler) form(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.renderPage(w, r, "receipt_form.html", map[string]any{
		"Title":     "Verify Receipt " + id,
		"ReceiptID": id,
	})
}

func (h *ReceiptHandler) verify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	phone := utils.NormalizeString(r.FormValue("phone_number"))

	rec, err := h.Verify.Verify(r.Context(), id, phone)
	if err != nil {
		h.renderErrorPage(w, r, id, err)
		return
	}

	h.renderPage(w, r, "receipt_display.html", map[string]any{
		"Receipt": rec,
		"Phone":   phone,
	})
}

func (h *ReceiptHandler) download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	phone := r.FormValue("phone_number")

	// Full re-verification: a prior verify call buys nothing here.
	rec, err := h.Verify.Verify(r.Context(), id, phone)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			response.BadRequest(w, "phone_number is required")
		case errors.Is(err, domain.ErrReceiptNotFound):
			response.NotFound(w, "Receipt not found")
		case errors.Is(err, domain.ErrPhoneMismatch):
			response.Forbidden(w, "Phone number does not match")
		case errors.Is(err, domain.ErrStoreUnavailable):
			logger.ErrorContext(r.Context(), "store unavailable on download", "receipt_id", id, "error", err)
			response.WriteError(w, http.StatusInternalServerError,
				"Database connection not available", response.CodeStoreUnavailable)
		default:
			logger.ErrorContext(r.Context(), "download verification failed", "receipt_id", id, "error", err)
			response.InternalError(w, "Error verifying receipt")
		}
		return
	}

	doc, err := render.Document(rec)
	if err != nil {
		logger.ErrorContext(r.Context(), "receipt document build failed", "receipt_id", id, "error", err)
		response.WriteError(w, http.StatusInternalServerError,
			"Error generating PDF", response.CodeRenderFailed)
		return
	}

	pdf, err := h.Renderer.RenderPDF(r.Context(), doc)
	if err != nil {
		logger.ErrorContext(r.Context(), "pdf render failed", "receipt_id", id, "error", err)
		response.WriteError(w, http.StatusInternalServerError,
			"Error generating PDF", response.CodeRenderFailed)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=receipt_%s.pdf", safeFilename(rec.ReceiptID)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}

// Errors on the verify path render as 200 HTML by design; the page says
// what class of failure happened and nothing more.
func (h *ReceiptHandler) renderErrorPage(w http.ResponseWriter, r *http.Request, id string, err error) {
	var msg string
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		msg = "Please enter a valid phone number."
	case errors.Is(err, domain.ErrReceiptNotFound):
		msg = "Receipt not found. Please check the receipt ID."
	case errors.Is(err, domain.ErrPhoneMismatch):
		msg = "Phone number does not match our records. Please check and try again."
	case errors.Is(err, domain.ErrStoreUnavailable):
		logger.ErrorContext(r.Context(), "store unavailable on verify", "receipt_id", id, "error", err)
		msg = "Database connection not available. Please check configuration."
	default:
		logger.ErrorContext(r.Context(), "verification failed", "receipt_id", id, "error", err)
		msg = "An error occurred while verifying your receipt. Please try again later."
	}

	h.renderPage(w, r, "error.html", map[string]any{
		"Error":     msg,
		"ReceiptID": id,
	})
}

func (h *ReceiptHandler) renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.Render(w, name, data); err != nil {
		logger.ErrorContext(r.Context(), "template render failed", "template", name, "error", err)
	}
}

// safeFilename keeps the Content-Disposition header well-formed whatever
// the stored receipt id contains.
func safeFilename(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}
