package handler

import (
	"log/slog"
	"net/http"

	"github.com/shaderlpay/backend/internal/service"
	"github.com/shaderlpay/backend/pkg/auth"
)

// DashboardHandler serves the principal's scoped event list with statistics.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Dashboard handles GET /api/me/events (auth required). Scope and totals are
// recomputed from a fresh snapshot on every call.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	result, err := h.dashboardService.Dashboard(r.Context(), principal)
	if err != nil {
		slog.Error("dashboard failed", "principal_id", principal.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	writeJSON(w, http.StatusOK, result)
}
