package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shaderlpay/backend/internal/service"
)

// ReceiptHandler serves lazily materialized receipts.
type ReceiptHandler struct {
	receiptService service.ReceiptService
}

// NewReceiptHandler creates a ReceiptHandler.
func NewReceiptHandler(receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Get handles GET /api/payments/{id}/receipt. Composes and stores the
// receipt on first request.
func (h *ReceiptHandler) Get(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.receiptService.GetOrCompose(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// Regenerate handles POST /api/payments/{id}/receipt/regenerate — recomposes
// after a receipt-config edit.
func (h *ReceiptHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.receiptService.Regenerate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}
