package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shaderlpay/backend/internal/model"
	"github.com/shaderlpay/backend/internal/repository"
	"github.com/shaderlpay/backend/internal/service"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Mock PaymentService
// ---------------------------------------------------------------------------

type mockPaymentService struct {
	submitFunc   func(ctx context.Context, eventSlug string, answers model.AnswerSet, amount, method string) (*model.Payment, error)
	getByIDFunc  func(ctx context.Context, id string) (*model.Payment, error)
	callbackFunc func(ctx context.Context, paymentID, status, gatewayRef string) (*model.Payment, error)
}

func (m *mockPaymentService) Submit(ctx context.Context, eventSlug string, answers model.AnswerSet, amount, method string) (*model.Payment, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, eventSlug, answers, amount, method)
	}
	return nil, nil
}
func (m *mockPaymentService) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockPaymentService) GatewayCallback(ctx context.Context, paymentID, status, gatewayRef string) (*model.Payment, error) {
	if m.callbackFunc != nil {
		return m.callbackFunc(ctx, paymentID, status, gatewayRef)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Submit tests
// ---------------------------------------------------------------------------

func TestPaymentHandler_Submit_Success(t *testing.T) {
	mock := &mockPaymentService{
		submitFunc: func(ctx context.Context, eventSlug string, answers model.AnswerSet, amount, method string) (*model.Payment, error) {
			return &model.Payment{
				ID: "p1", EventID: "e1", Amount: decimal.NewFromInt(5000),
				Method: model.MethodMomo, Status: model.PaymentPending, Answers: answers,
			}, nil
		},
	}
	h := NewPaymentHandler(mock, "whk")

	body := `{"answers":{"f_name":"Ada","payment_amount":"5000"},"amount":"5000","method":"momo"}`
	req := withChiParams(
		httptest.NewRequest(http.MethodPost, "/api/events/fair-abc123/contributions", strings.NewReader(body)),
		map[string]string{"slug": "fair-abc123"})
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d — body: %s", rec.Code, rec.Body.String())
	}
	var resp model.Payment
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != model.PaymentPending || !resp.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("unexpected payment: %+v", resp)
	}
}

func TestPaymentHandler_Submit_ValidationFailureListsFields(t *testing.T) {
	mock := &mockPaymentService{
		submitFunc: func(ctx context.Context, eventSlug string, answers model.AnswerSet, amount, method string) (*model.Payment, error) {
			return nil, &service.ValidationError{Fields: map[string]string{
				"f_name":         "Name is required",
				"payment_amount": "Amount out of range",
			}}
		},
	}
	h := NewPaymentHandler(mock, "whk")

	req := withChiParams(
		httptest.NewRequest(http.MethodPost, "/api/events/fair-abc123/contributions",
			strings.NewReader(`{"answers":{},"amount":"50","method":"momo"}`)),
		map[string]string{"slug": "fair-abc123"})
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "validation_failed" {
		t.Errorf("expected validation_failed, got %q", resp.Error)
	}
	if len(resp.Fields) != 2 {
		t.Errorf("expected both violations on the wire, got %v", resp.Fields)
	}
}

func TestPaymentHandler_Submit_InvalidJSON(t *testing.T) {
	h := NewPaymentHandler(&mockPaymentService{}, "whk")
	req := withChiParams(
		httptest.NewRequest(http.MethodPost, "/api/events/x/contributions", strings.NewReader("{")),
		map[string]string{"slug": "x"})
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// Webhook tests
// ---------------------------------------------------------------------------

func webhookRequest(key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/gateway", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-Webhook-Key", key)
	}
	return req
}

func TestPaymentHandler_Webhook_RequiresSharedKey(t *testing.T) {
	h := NewPaymentHandler(&mockPaymentService{}, "whk")

	rec := httptest.NewRecorder()
	h.Webhook(rec, webhookRequest("", `{}`))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key: expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Webhook(rec, webhookRequest("wrong", `{}`))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: expected 401, got %d", rec.Code)
	}
}

func TestPaymentHandler_Webhook_RejectedWhenUnconfigured(t *testing.T) {
	h := NewPaymentHandler(&mockPaymentService{}, "")
	rec := httptest.NewRecorder()
	h.Webhook(rec, webhookRequest("anything", `{}`))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unconfigured key must reject all callers, got %d", rec.Code)
	}
}

func TestPaymentHandler_Webhook_AppliesCallback(t *testing.T) {
	var gotID, gotStatus, gotRef string
	mock := &mockPaymentService{
		callbackFunc: func(ctx context.Context, paymentID, status, gatewayRef string) (*model.Payment, error) {
			gotID, gotStatus, gotRef = paymentID, status, gatewayRef
			return &model.Payment{ID: paymentID, Status: status}, nil
		},
	}
	h := NewPaymentHandler(mock, "whk")

	body := `{"payment_id":"p1","status":"completed","gateway_ref":"gw-42"}`
	rec := httptest.NewRecorder()
	h.Webhook(rec, webhookRequest("whk", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if gotID != "p1" || gotStatus != "completed" || gotRef != "gw-42" {
		t.Errorf("callback args not forwarded: %q %q %q", gotID, gotStatus, gotRef)
	}
}

func TestPaymentHandler_Webhook_ConflictSurfaced(t *testing.T) {
	mock := &mockPaymentService{
		callbackFunc: func(ctx context.Context, paymentID, status, gatewayRef string) (*model.Payment, error) {
			return nil, service.ErrConflict
		},
	}
	h := NewPaymentHandler(mock, "whk")

	rec := httptest.NewRecorder()
	h.Webhook(rec, webhookRequest("whk", `{"payment_id":"p1","status":"completed"}`))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}
