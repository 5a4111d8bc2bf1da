package rabbitmq

import (
	"context"
	"time"

	"github.com/shaderlpay/backend/internal/model"
)

// PaymentEvents adapts a Producer to the payment-status publishing seam.
// Routing key is "payment.<status>".
type PaymentEvents struct {
	producer *Producer
}

// NewPaymentEvents wraps a Producer.
func NewPaymentEvents(p *Producer) *PaymentEvents {
	return &PaymentEvents{producer: p}
}

type paymentStatusMessage struct {
	PaymentID  string    `json:"payment_id"`
	EventID    string    `json:"event_id"`
	Amount     string    `json:"amount"`
	Method     string    `json:"method"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PublishStatus broadcasts a payment status change.
func (e *PaymentEvents) PublishStatus(ctx context.Context, p *model.Payment) error {
	return e.producer.Publish(ctx, "payment."+p.Status, paymentStatusMessage{
		PaymentID:  p.ID,
		EventID:    p.EventID,
		Amount:     p.Amount.String(),
		Method:     string(p.Method),
		Status:     p.Status,
		OccurredAt: time.Now().UTC(),
	})
}
