package service

import (
	"context"

	"github.com/shaderlpay/backend/internal/model"
	"github.com/shaderlpay/backend/internal/repository"
)

// DashboardService computes the event set and derived statistics a principal
// may see. Totals are recomputed from a fresh snapshot on every call — no
// cached running totals, so no staleness window to reason about.
type DashboardService interface {
	Dashboard(ctx context.Context, principal model.Principal) (*model.DashboardResult, error)
}

// DashboardServiceImpl implements DashboardService.
type DashboardServiceImpl struct {
	eventRepo   repository.EventRepository
	paymentRepo repository.PaymentRepository
	receiptRepo repository.ReceiptRepository
}

// NewDashboardService creates a DashboardServiceImpl.
func NewDashboardService(
	er repository.EventRepository,
	pr repository.PaymentRepository,
	rr repository.ReceiptRepository,
) DashboardService {
	return &DashboardServiceImpl{eventRepo: er, paymentRepo: pr, receiptRepo: rr}
}

// Dashboard loads the principal's scoped events with their payments and
// receipts, then folds them into per-event and overall statistics.
func (s *DashboardServiceImpl) Dashboard(ctx context.Context, principal model.Principal) (*model.DashboardResult, error) {
	events, err := s.eventRepo.ListForScope(ctx, EventScope(principal))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(events))
	byID := make(map[string]*model.Event, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
		byID[e.ID] = e
	}

	payments, err := s.paymentRepo.ListByEventIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		if e, ok := byID[p.EventID]; ok {
			e.Payments = append(e.Payments, p)
		}
	}

	receipts, err := s.receiptRepo.ListByEventIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	paymentEvent := make(map[string]string, len(payments))
	for _, p := range payments {
		paymentEvent[p.ID] = p.EventID
	}
	for _, rc := range receipts {
		if e, ok := byID[paymentEvent[rc.PaymentID]]; ok {
			e.Receipts = append(e.Receipts, rc)
		}
	}

	result := &model.DashboardResult{Stats: Aggregate(events)}
	for _, e := range events {
		current := CompletedSum(e)
		e.CurrentAmount = current
		transactions := 0
		for _, p := range e.Payments {
			if p.Status == model.PaymentCompleted {
				transactions++
			}
		}
		result.Events = append(result.Events, &model.EventStats{
			Event:         e,
			CurrentAmount: current,
			Transactions:  transactions,
			Progress:      Progress(current, e.FundraisingGoal),
		})
	}
	return result, nil
}
