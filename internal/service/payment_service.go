package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaderlpay/backend/internal/model"
	"github.com/shaderlpay/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// PaymentEventPublisher broadcasts payment status changes (e.g. to the
// notification pipeline). Optional; nil means events are dropped.
type PaymentEventPublisher interface {
	PublishStatus(ctx context.Context, p *model.Payment) error
}

// PaymentService validates and records contributions against an event's live
// field schema.
type PaymentService interface {
	Submit(ctx context.Context, eventSlug string, answers model.AnswerSet, amount, method string) (*model.Payment, error)
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	GatewayCallback(ctx context.Context, paymentID, status, gatewayRef string) (*model.Payment, error)
}

// PaymentServiceImpl implements PaymentService.
type PaymentServiceImpl struct {
	eventRepo   repository.EventRepository
	paymentRepo repository.PaymentRepository
	publisher   PaymentEventPublisher // nil = not configured
}

// NewPaymentService creates a PaymentServiceImpl.
func NewPaymentService(
	er repository.EventRepository,
	pr repository.PaymentRepository,
	publisher PaymentEventPublisher,
) PaymentService {
	return &PaymentServiceImpl{eventRepo: er, paymentRepo: pr, publisher: publisher}
}

// Submit resolves the event by slug, validates the amount and the answers
// against the current field schema, and appends a pending payment carrying
// the raw answers verbatim. No receipt is generated here — receipts are a
// distinct, on-demand projection.
func (s *PaymentServiceImpl) Submit(ctx context.Context, eventSlug string, answers model.AnswerSet, amount, method string) (*model.Payment, error) {
	event, err := s.eventRepo.GetBySlug(ctx, eventSlug)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventApproved {
		return nil, fmt.Errorf("%w: event is %s", ErrConflict, event.Status)
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil || !amt.IsPositive() {
		return nil, ErrInvalidAmount
	}

	m, err := model.ParsePaymentMethod(method)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if !event.HasMethod(m) {
		return nil, &ValidationError{Fields: map[string]string{
			"method": fmt.Sprintf("%s is not accepted for this event", m),
		}}
	}

	if verr := ValidateAnswers(event.Fields, answers); verr != nil {
		return nil, verr
	}

	payment := &model.Payment{
		EventID: event.ID,
		Amount:  amt,
		Method:  m,
		Answers: answers,
		Status:  model.PaymentPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentServiceImpl) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

// GatewayCallback applies the external gateway's final verdict to a pending
// payment. A payment already in a terminal status is left untouched
// (callbacks may be delivered more than once).
func (s *PaymentServiceImpl) GatewayCallback(ctx context.Context, paymentID, status, gatewayRef string) (*model.Payment, error) {
	if status != model.PaymentCompleted && status != model.PaymentFailed {
		return nil, fmt.Errorf("%w: gateway status %q", ErrConflict, status)
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.IsFinal() {
		if payment.Status != status {
			return nil, fmt.Errorf("%w: payment already %s", ErrConflict, payment.Status)
		}
		return payment, nil // idempotent redelivery
	}

	if err := s.paymentRepo.UpdateStatus(ctx, paymentID, status, gatewayRef); err != nil {
		return nil, err
	}
	payment.Status = status
	payment.GatewayRef = gatewayRef

	// Fire-and-forget: a broken broker must never fail the callback.
	if s.publisher != nil {
		if err := s.publisher.PublishStatus(ctx, payment); err != nil {
			slog.Warn("payment event publish failed", "payment_id", paymentID, "error", err)
		}
	}
	return payment, nil
}
