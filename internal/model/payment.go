package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses. A payment is created pending and only an external gateway
// callback moves it to completed or failed.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment records one contribution against an event. Answers are stored
// verbatim as an open-ended blob — custom fields are never normalized into
// columns.
type Payment struct {
	ID         string          `json:"id"`
	EventID    string          `json:"event_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     PaymentMethod   `json:"method"`
	Answers    AnswerSet       `json:"answers"`
	Status     string          `json:"status"`
	GatewayRef string          `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// IsFinal reports whether the payment has reached a terminal status.
func (p *Payment) IsFinal() bool {
	return p.Status == PaymentCompleted || p.Status == PaymentFailed
}
