package service

import (
	"context"

	"github.com/shaderlpay/backend/internal/model"
	"github.com/shaderlpay/backend/internal/repository"
)

// defaultReceiptConfig renders every answered field when the organizer never
// configured a receipt.
func defaultReceiptConfig(fields []*model.FieldDef) *model.ReceiptConfig {
	cfg := &model.ReceiptConfig{Layout: "one", Align: "left"}
	for _, f := range fields {
		cfg.IncludeFields = append(cfg.IncludeFields, f.ID)
	}
	return cfg
}

// Compose deterministically projects a payment's answers into a receipt.
// Pure: identical (payment, fields, cfg, baseURL, slug) inputs always yield
// the same receipt, so a config edit can regenerate receipts without going
// back to the payment gateway. Fields outside cfg.IncludeFields never appear;
// answers absent at intake render as an em dash. The QR payload is only ever
// the public event URL, never payment secrets.
func Compose(payment *model.Payment, fields []*model.FieldDef, cfg *model.ReceiptConfig, baseURL, eventSlug string) *model.Receipt {
	if cfg == nil {
		cfg = defaultReceiptConfig(fields)
	}

	byID := make(map[string]*model.FieldDef, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}

	receipt := &model.Receipt{
		PaymentID:   payment.ID,
		IncludeQR:   cfg.IncludeQR,
		Layout:      cfg.Layout,
		Align:       cfg.Align,
		AccentColor: cfg.AccentColor,
		School:      cfg.School,
	}
	if cfg.IncludeQR {
		receipt.QRPayload = baseURL + "/event/" + eventSlug
	}

	for _, fieldID := range cfg.IncludeFields {
		f, ok := byID[fieldID]
		if !ok {
			continue
		}
		value := payment.Answers[fieldID]
		if value == "" {
			value = "—"
		}
		receipt.RenderedFields = append(receipt.RenderedFields, model.RenderedField{
			Label: f.Label,
			Value: value,
		})
	}
	return receipt
}

// ReceiptService materializes receipts on demand.
type ReceiptService interface {
	GetOrCompose(ctx context.Context, paymentID string) (*model.Receipt, error)
	Regenerate(ctx context.Context, paymentID string) (*model.Receipt, error)
}

// ReceiptServiceImpl implements ReceiptService.
type ReceiptServiceImpl struct {
	paymentRepo repository.PaymentRepository
	eventRepo   repository.EventRepository
	receiptRepo repository.ReceiptRepository
	baseURL     string
}

// NewReceiptService creates a ReceiptServiceImpl.
func NewReceiptService(
	pr repository.PaymentRepository,
	er repository.EventRepository,
	rr repository.ReceiptRepository,
	baseURL string,
) ReceiptService {
	return &ReceiptServiceImpl{paymentRepo: pr, eventRepo: er, receiptRepo: rr, baseURL: baseURL}
}

// GetOrCompose returns the stored receipt, composing and persisting it on
// first request.
func (s *ReceiptServiceImpl) GetOrCompose(ctx context.Context, paymentID string) (*model.Receipt, error) {
	if receipt, err := s.receiptRepo.GetByPaymentID(ctx, paymentID); err == nil {
		return receipt, nil
	}
	return s.Regenerate(ctx, paymentID)
}

// Regenerate recomposes the receipt from the current payment, field schema
// and receipt config, overwriting any stored copy.
func (s *ReceiptServiceImpl) Regenerate(ctx context.Context, paymentID string) (*model.Receipt, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, payment.EventID)
	if err != nil {
		return nil, err
	}

	receipt := Compose(payment, event.Fields, event.ReceiptConfig, s.baseURL, event.Slug)
	if err := s.receiptRepo.Upsert(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}
