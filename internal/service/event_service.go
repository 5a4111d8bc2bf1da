package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shaderlpay/backend/internal/model"
	"github.com/shaderlpay/backend/internal/repository"
)

// EventService is the business logic around event lifecycle and its field
// schema.
type EventService interface {
	Create(ctx context.Context, principal model.Principal, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	ListForPrincipal(ctx context.Context, principal model.Principal) ([]*model.Event, error)
	Update(ctx context.Context, principal model.Principal, event *model.Event) error
	Publish(ctx context.Context, principal model.Principal, id string) (*model.Event, error)
	SetLocked(ctx context.Context, principal model.Principal, id string, locked bool) (*model.Event, error)
	Delete(ctx context.Context, principal model.Principal, id string) error
	UpdatePaymentMethods(ctx context.Context, principal model.Principal, id string, methods []model.PaymentMethod) (*model.Event, error)
	AddConditionalField(ctx context.Context, principal model.Principal, id, label, triggerFieldID, triggerValue string) (*model.Event, error)
	UpdateReceiptConfig(ctx context.Context, principal model.Principal, id string, cfg *model.ReceiptConfig) (*model.Event, error)
}

// EventServiceImpl implements EventService over an EventRepository.
type EventServiceImpl struct {
	eventRepo repository.EventRepository
}

// NewEventService creates an EventServiceImpl (DI: EventRepository injected).
func NewEventService(eventRepo repository.EventRepository) EventService {
	return &EventServiceImpl{eventRepo: eventRepo}
}

var reSlug = regexp.MustCompile(`[^a-z0-9]+`)

// ensureFieldIDs assigns ids to newly authored fields that arrived without
// one. System-managed prefixes are reserved for reconciliation.
func ensureFieldIDs(fields []*model.FieldDef) {
	for _, f := range fields {
		if f.ID == "" {
			f.ID = "f_" + uuid.NewString()[:8]
		}
	}
}

// Slugify derives a URL slug from a title plus a short random suffix, so two
// events named alike never collide.
func Slugify(title string) string {
	s := strings.Trim(reSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if s == "" {
		s = "event"
	}
	if len(s) > 48 {
		s = s[:48]
	}
	return s + "-" + uuid.NewString()[:8]
}

// Create persists a new event atomically with its field schema. Events start
// pending; payment-derived fields are reconciled against the selected methods
// before the write.
func (s *EventServiceImpl) Create(ctx context.Context, principal model.Principal, event *model.Event) error {
	event.OrganizerID = principal.ID
	if principal.Role == model.RoleSchoolOrganizer || principal.Role == model.RoleSchoolAdmin {
		event.SchoolID = principal.SchoolID
	}
	event.SetStatus(model.EventPending)
	if event.Slug == "" {
		event.Slug = Slugify(event.Title)
	}

	ensureFieldIDs(event.Fields)
	event.Fields = ReconcilePaymentFields(event.Fields, event.Methods)
	if err := ValidateFieldSchema(event.Fields); err != nil {
		return err
	}
	return s.eventRepo.Create(ctx, event)
}

func (s *EventServiceImpl) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *EventServiceImpl) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return s.eventRepo.GetBySlug(ctx, slug)
}

func (s *EventServiceImpl) ListForPrincipal(ctx context.Context, principal model.Principal) ([]*model.Event, error) {
	return s.eventRepo.ListForScope(ctx, EventScope(principal))
}

// manageable loads the event and checks the principal may mutate it.
func (s *EventServiceImpl) manageable(ctx context.Context, principal model.Principal, id string) (*model.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManage(principal, event) {
		return nil, ErrForbidden
	}
	return event, nil
}

// Update replaces the mutable parts of an event. System-managed fields are
// re-reconciled so a schema edit can never drop them out of sync with the
// selected payment methods.
func (s *EventServiceImpl) Update(ctx context.Context, principal model.Principal, event *model.Event) error {
	existing, err := s.manageable(ctx, principal, event.ID)
	if err != nil {
		return err
	}

	// Immutable / server-owned columns.
	event.Slug = existing.Slug
	event.OrganizerID = existing.OrganizerID
	event.SchoolID = existing.SchoolID
	event.SetStatus(existing.Status)

	ensureFieldIDs(event.Fields)
	event.Fields = ReconcilePaymentFields(event.Fields, event.Methods)
	if err := ValidateFieldSchema(event.Fields); err != nil {
		return err
	}
	return s.eventRepo.Update(ctx, event)
}

// Publish moves a pending event to approved.
func (s *EventServiceImpl) Publish(ctx context.Context, principal model.Principal, id string) (*model.Event, error) {
	event, err := s.manageable(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventPending {
		return nil, fmt.Errorf("%w: event is %s", ErrConflict, event.Status)
	}
	event.SetStatus(model.EventApproved)
	if err := s.eventRepo.UpdateStatus(ctx, id, event.Status, event.IsLocked); err != nil {
		return nil, err
	}
	return event, nil
}

// SetLocked toggles an event between approved and locked. Allowed for the
// owner and for a school admin of the event's school.
func (s *EventServiceImpl) SetLocked(ctx context.Context, principal model.Principal, id string, locked bool) (*model.Event, error) {
	event, err := s.manageable(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if locked {
		event.SetStatus(model.EventLocked)
	} else {
		event.SetStatus(model.EventApproved)
	}
	if err := s.eventRepo.UpdateStatus(ctx, id, event.Status, event.IsLocked); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes the event; its fields, payments and receipts cascade.
func (s *EventServiceImpl) Delete(ctx context.Context, principal model.Principal, id string) error {
	if _, err := s.manageable(ctx, principal, id); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, id)
}

// UpdatePaymentMethods swaps the event's payment-method set and diff-and-
// patches the system-managed fields, preserving user-authored ones.
func (s *EventServiceImpl) UpdatePaymentMethods(ctx context.Context, principal model.Principal, id string, methods []model.PaymentMethod) (*model.Event, error) {
	event, err := s.manageable(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	event.Methods = methods
	event.Fields = ReconcilePaymentFields(event.Fields, methods)
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// AddConditionalField appends a conditional field to the event's schema.
func (s *EventServiceImpl) AddConditionalField(ctx context.Context, principal model.Principal, id, label, triggerFieldID, triggerValue string) (*model.Event, error) {
	event, err := s.manageable(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	field, err := AddConditionalField(event.Fields, label, triggerFieldID, triggerValue)
	if err != nil {
		return nil, err
	}
	event.Fields = append(event.Fields, field)
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateReceiptConfig stores presentation settings for receipts. Purely
// presentational — it never affects payment validity.
func (s *EventServiceImpl) UpdateReceiptConfig(ctx context.Context, principal model.Principal, id string, cfg *model.ReceiptConfig) (*model.Event, error) {
	event, err := s.manageable(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	event.ReceiptConfig = cfg
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}
