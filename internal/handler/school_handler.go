package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shaderlpay/backend/internal/model"
	"github.com/shaderlpay/backend/internal/service"
	"github.com/shaderlpay/backend/pkg/auth"
)

// SchoolHandler covers school applications and their admin review.
type SchoolHandler struct {
	schoolService service.SchoolService
}

// NewSchoolHandler creates a SchoolHandler.
func NewSchoolHandler(schoolService service.SchoolService) *SchoolHandler {
	return &SchoolHandler{schoolService: schoolService}
}

// Apply handles POST /api/schools/apply (auth required).
func (h *SchoolHandler) Apply(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req struct {
		SchoolName string `json:"school_name"`
		Contact    string `json:"contact"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	app, err := h.schoolService.Apply(r.Context(), principal, req.SchoolName, req.Contact)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// requireSuperAdmin guards the review endpoints.
func requireSuperAdmin(w http.ResponseWriter, r *http.Request) bool {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return false
	}
	if principal.Role != model.RoleSuperAdmin {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return false
	}
	return true
}

// ListApplications handles GET /api/admin/school-applications.
func (h *SchoolHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	if !requireSuperAdmin(w, r) {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	apps, err := h.schoolService.ListApplications(r.Context(),
		r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// Approve handles PATCH /api/admin/school-applications/{id}/approve.
func (h *SchoolHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if !requireSuperAdmin(w, r) {
		return
	}

	school, err := h.schoolService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, school)
}

// Reject handles PATCH /api/admin/school-applications/{id}/reject.
func (h *SchoolHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if !requireSuperAdmin(w, r) {
		return
	}

	if err := h.schoolService.Reject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
