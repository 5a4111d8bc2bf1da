package repository

import (
	"context"
	"time"

	"github.com/shaderlpay/backend/internal/model"
)

// EventRepository persists events together with their field schemas. Create
// and Update write the event row and its field rows as one transaction — a
// partial write (event without fields) is an invariant violation.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	ListForScope(ctx context.Context, scope model.Scope) ([]*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	UpdateStatus(ctx context.Context, id, status string, isLocked bool) error
	Delete(ctx context.Context, id string) error
	CountByOrganizer(ctx context.Context, organizerID string) (int, error)
	LockExpired(ctx context.Context, now time.Time) (int, error)
}

// PaymentRepository persists contributions. Rows are appended, never merged;
// concurrent submissions to the same event need no discipline beyond insert
// atomicity.
type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, id, status, gatewayRef string) error
	ListByEventIDs(ctx context.Context, eventIDs []string) ([]*model.Payment, error)
}

// ReceiptRepository stores lazily materialized receipts.
type ReceiptRepository interface {
	GetByPaymentID(ctx context.Context, paymentID string) (*model.Receipt, error)
	Upsert(ctx context.Context, r *model.Receipt) error
	ListByEventIDs(ctx context.Context, eventIDs []string) ([]*model.Receipt, error)
}

// SchoolRepository handles schools and their applications. Approve runs as
// one transaction: create the school, mark the application approved, grant
// the applicant school-admin access.
type SchoolRepository interface {
	GetSchool(ctx context.Context, id string) (*model.School, error)
	CreateApplication(ctx context.Context, a *model.SchoolApplication) error
	GetApplication(ctx context.Context, id string) (*model.SchoolApplication, error)
	ListApplications(ctx context.Context, status string, limit, offset int) ([]*model.SchoolApplication, error)
	Approve(ctx context.Context, applicationID, schoolCode string) (*model.School, error)
	Reject(ctx context.Context, applicationID string) error
}

// UserRepository persists platform users.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	List(ctx context.Context, limit, offset int) ([]*model.User, error)
	Suspend(ctx context.Context, id string, suspend bool) error
	Delete(ctx context.Context, id string) error
}
