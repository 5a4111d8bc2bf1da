package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shaderlpay/backend/internal/model"
	"github.com/shaderlpay/backend/internal/service"
	"github.com/shaderlpay/backend/pkg/auth"
	"github.com/shopspring/decimal"
)

// parseDeadline parses "YYYY-MM-DD" or RFC3339 into *time.Time; empty
// strings and unparseable input yield nil.
func parseDeadline(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}

func parseMethods(in []string) ([]model.PaymentMethod, error) {
	var out []model.PaymentMethod
	for _, s := range in {
		m, err := model.ParsePaymentMethod(s)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// eventRequest is the JSON body for create and update.
type eventRequest struct {
	Type            string               `json:"type"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	ImageURL        string               `json:"image_url"`
	FundraisingGoal *string              `json:"fundraising_goal"`
	Deadline        *string              `json:"deadline"`
	Methods         []string             `json:"methods"`
	Fields          []*model.FieldDef    `json:"fields"`
	ReceiptConfig   *model.ReceiptConfig `json:"receipt_config"`
}

func (req *eventRequest) toEvent() (*model.Event, error) {
	methods, err := parseMethods(req.Methods)
	if err != nil {
		return nil, err
	}
	event := &model.Event{
		Type:          req.Type,
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Methods:       methods,
		Fields:        req.Fields,
		ReceiptConfig: req.ReceiptConfig,
	}
	if req.Deadline != nil {
		event.Deadline = parseDeadline(*req.Deadline)
	}
	if req.FundraisingGoal != nil && *req.FundraisingGoal != "" {
		goal, err := decimal.NewFromString(*req.FundraisingGoal)
		if err != nil || !goal.IsPositive() {
			return nil, &service.ValidationError{Fields: map[string]string{
				"fundraising_goal": "fundraising goal must be a positive amount",
			}}
		}
		event.FundraisingGoal = &goal
	}
	return event, nil
}

// EventHandler is the HTTP surface for event lifecycle and schema editing.
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Create handles POST /api/events (auth required).
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title_required"})
		return
	}

	event, err := req.toEvent()
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := h.eventService.Create(r.Context(), principal, event); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// Get handles GET /api/events/{slug} (public — the contribution page).
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	event, err := h.eventService.GetBySlug(r.Context(), slug)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Update handles PUT /api/events/{id} (auth required, owner or school admin).
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}
	event, err := req.toEvent()
	if err != nil {
		writeErr(w, err)
		return
	}
	event.ID = chi.URLParam(r, "id")

	if err := h.eventService.Update(r.Context(), principal, event); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /api/events/{id}. Cascades to fields, payments and
// receipts.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	if err := h.eventService.Delete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Publish handles PATCH /api/events/{id}/publish.
func (h *EventHandler) Publish(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	event, err := h.eventService.Publish(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Lock handles PATCH /api/events/{id}/lock with body {"locked": bool}.
func (h *EventHandler) Lock(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req struct {
		Locked bool `json:"locked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	event, err := h.eventService.SetLocked(r.Context(), principal, chi.URLParam(r, "id"), req.Locked)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdatePaymentMethods handles PUT /api/events/{id}/payment-methods with
// body {"methods": ["momo", ...]}. The system-managed fields are diffed and
// patched against the new set.
func (h *EventHandler) UpdatePaymentMethods(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req struct {
		Methods []string `json:"methods"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}
	methods, err := parseMethods(req.Methods)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_method"})
		return
	}

	event, err := h.eventService.UpdatePaymentMethods(r.Context(), principal, chi.URLParam(r, "id"), methods)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// AddConditionalField handles POST /api/events/{id}/fields/conditional.
func (h *EventHandler) AddConditionalField(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req struct {
		Label          string `json:"label"`
		TriggerFieldID string `json:"trigger_field_id"`
		TriggerValue   string `json:"trigger_value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	event, err := h.eventService.AddConditionalField(r.Context(), principal,
		chi.URLParam(r, "id"), req.Label, req.TriggerFieldID, req.TriggerValue)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdateReceiptConfig handles PUT /api/events/{id}/receipt-config.
func (h *EventHandler) UpdateReceiptConfig(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var cfg model.ReceiptConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	event, err := h.eventService.UpdateReceiptConfig(r.Context(), principal, chi.URLParam(r, "id"), &cfg)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// VisibleFields handles POST /api/events/{slug}/visible-fields: given the
// contributor's partial answers, returns the fields currently visible. Used
// by the form renderer to re-evaluate conditional fields.
func (h *EventHandler) VisibleFields(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers model.AnswerSet `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	event, err := h.eventService.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fields": service.VisibleFields(event.Fields, req.Answers),
	})
}
