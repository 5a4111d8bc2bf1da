package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the closed set of supported payment channels.
type PaymentMethod string

const (
	MethodMomo PaymentMethod = "momo"
	MethodOM   PaymentMethod = "om"
	MethodCard PaymentMethod = "card"
	MethodBank PaymentMethod = "bank"
)

// ParsePaymentMethod validates a method string from a request body.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case MethodMomo, MethodOM, MethodCard, MethodBank:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// Event statuses.
const (
	EventPending  = "pending"
	EventApproved = "approved"
	EventLocked   = "locked"
)

// Event is a fundraising campaign with its own form schema, payment methods
// and receipt configuration.
type Event struct {
	ID              string           `json:"id"`
	Slug            string           `json:"slug"`
	OrganizerID     string           `json:"organizer_id"`
	SchoolID        string           `json:"school_id,omitempty"`
	Type            string           `json:"type"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	ImageURL        string           `json:"image_url,omitempty"`
	Status          string           `json:"status"`
	IsLocked        bool             `json:"is_locked"`
	FundraisingGoal *decimal.Decimal `json:"fundraising_goal,omitempty"`
	Deadline        *time.Time       `json:"deadline,omitempty"`
	Methods         []PaymentMethod  `json:"methods"`
	Fields          []*FieldDef      `json:"fields,omitempty"`
	ReceiptConfig   *ReceiptConfig   `json:"receipt_config,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	// Transient: not stored on the events row, loaded by dashboard queries.
	Payments      []*Payment      `json:"-"`
	Receipts      []*Receipt      `json:"-"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
}

// SetStatus keeps the is_locked flag and status column in lockstep
// (is_locked == true iff status == locked).
func (e *Event) SetStatus(status string) {
	e.Status = status
	e.IsLocked = status == EventLocked
}

// FieldByID looks a field up in the event's schema.
func (e *Event) FieldByID(id string) *FieldDef {
	for _, f := range e.Fields {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// HasMethod reports whether m is among the event's selected payment methods.
func (e *Event) HasMethod(m PaymentMethod) bool {
	for _, em := range e.Methods {
		if em == m {
			return true
		}
	}
	return false
}
