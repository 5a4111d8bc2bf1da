package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shaderlpay/backend/internal/model"
	"github.com/shaderlpay/backend/internal/service"
)

// PaymentHandler is the public contribution intake plus the gateway webhook.
type PaymentHandler struct {
	paymentService service.PaymentService
	webhookKey     string // shared key authenticating gateway callbacks
}

// NewPaymentHandler creates a PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService, webhookKey string) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, webhookKey: webhookKey}
}

// Submit handles POST /api/events/{slug}/contributions (public).
func (h *PaymentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers model.AnswerSet `json:"answers"`
		Amount  string          `json:"amount"`
		Method  string          `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	payment, err := h.paymentService.Submit(r.Context(), chi.URLParam(r, "slug"),
		req.Answers, req.Amount, req.Method)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

// Webhook handles POST /api/webhooks/gateway. The external payment gateway
// calls back with a final status; the shared key in X-Webhook-Key
// authenticates it.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.webhookKey == "" || r.Header.Get("X-Webhook-Key") != h.webhookKey {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req struct {
		PaymentID  string `json:"payment_id"`
		Status     string `json:"status"`
		GatewayRef string `json:"gateway_ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	payment, err := h.paymentService.GatewayCallback(r.Context(), req.PaymentID, req.Status, req.GatewayRef)
	if err != nil {
		slog.Error("gateway callback failed", "payment_id", req.PaymentID, "error", err)
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}
