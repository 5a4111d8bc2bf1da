package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health    *HealthHandler
	Event     *EventHandler
	Payment   *PaymentHandler
	Receipt   *ReceiptHandler
	Dashboard *DashboardHandler
	School    *SchoolHandler
	AdminUser *AdminUserHandler
	Upload    *UploadHandler
}

// NewRouter wires all routes. authWrap is the auth middleware (JWT in
// production, DevAuth when AUTH_REQUIRED=false).
func NewRouter(h Handlers, frontendURL string, authWrap func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/health", h.Health.Health)

	// Public contribution surface.
	r.Get("/api/events/{slug}", h.Event.Get)
	r.Post("/api/events/{slug}/visible-fields", h.Event.VisibleFields)
	r.Post("/api/events/{slug}/contributions", h.Payment.Submit)
	r.Get("/api/payments/{id}/receipt", h.Receipt.Get)

	// Gateway callback — authenticated by shared key, not a user session.
	r.Post("/api/webhooks/gateway", h.Payment.Webhook)

	// Authenticated surface.
	r.Group(func(r chi.Router) {
		r.Use(authWrap)

		r.Get("/api/me/events", h.Dashboard.Dashboard)
		r.Post("/api/events", h.Event.Create)
		r.Put("/api/events/{id}", h.Event.Update)
		r.Delete("/api/events/{id}", h.Event.Delete)
		r.Patch("/api/events/{id}/publish", h.Event.Publish)
		r.Patch("/api/events/{id}/lock", h.Event.Lock)
		r.Put("/api/events/{id}/payment-methods", h.Event.UpdatePaymentMethods)
		r.Post("/api/events/{id}/fields/conditional", h.Event.AddConditionalField)
		r.Put("/api/events/{id}/receipt-config", h.Event.UpdateReceiptConfig)
		r.Post("/api/payments/{id}/receipt/regenerate", h.Receipt.Regenerate)
		r.Post("/api/uploads", h.Upload.Upload)
		r.Post("/api/schools/apply", h.School.Apply)

		// Admin routes (handlers enforce the super-admin role).
		r.Get("/api/admin/school-applications", h.School.ListApplications)
		r.Patch("/api/admin/school-applications/{id}/approve", h.School.Approve)
		r.Patch("/api/admin/school-applications/{id}/reject", h.School.Reject)
		r.Get("/api/admin/users", h.AdminUser.List)
		r.Patch("/api/admin/users/{id}/suspend", h.AdminUser.Suspend)
		r.Delete("/api/admin/users/{id}", h.AdminUser.Delete)
	})

	return r
}
