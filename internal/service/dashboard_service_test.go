package service

import (
	"context"
	"testing"

	"github.com/shaderlpay/backend/internal/model"
	"github.com/shopspring/decimal"
)

func TestDashboardService_ComputesScopedStats(t *testing.T) {
	goal := decimal.NewFromInt(10000)
	events := []*model.Event{
		{ID: "e1", OrganizerID: "7", SchoolID: "3", FundraisingGoal: &goal},
		{ID: "e2", OrganizerID: "7", SchoolID: "3"},
	}
	payments := []*model.Payment{
		{ID: "p1", EventID: "e1", Amount: decimal.NewFromInt(2500), Status: model.PaymentCompleted},
		{ID: "p2", EventID: "e1", Amount: decimal.NewFromInt(9999), Status: model.PaymentPending},
		{ID: "p3", EventID: "e2", Amount: decimal.NewFromInt(1000), Status: model.PaymentCompleted},
	}
	receipts := []*model.Receipt{
		{ID: "r1", PaymentID: "p1", ContributorID: "c1"},
		{ID: "r3", PaymentID: "p3"},
	}

	var gotScope model.Scope
	eventRepo := &mockEventRepository{
		listForScopeFunc: func(ctx context.Context, scope model.Scope) ([]*model.Event, error) {
			gotScope = scope
			return events, nil
		},
	}
	paymentRepo := &mockPaymentRepository{
		listByEventIDsFunc: func(ctx context.Context, eventIDs []string) ([]*model.Payment, error) {
			return payments, nil
		},
	}
	receiptRepo := &mockReceiptRepository{
		listByEventIDsFunc: func(ctx context.Context, eventIDs []string) ([]*model.Receipt, error) {
			return receipts, nil
		},
	}
	svc := NewDashboardService(eventRepo, paymentRepo, receiptRepo)

	principal := model.Principal{ID: "7", Role: model.RoleSchoolOrganizer, SchoolID: "3"}
	result, err := svc.Dashboard(context.Background(), principal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotScope.OrganizerID != "7" || gotScope.SchoolID != "3" || gotScope.SchoolMode != model.SchoolBoth {
		t.Errorf("unexpected scope %+v", gotScope)
	}

	if !result.Stats.TotalRevenue.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("expected revenue 3500, got %s", result.Stats.TotalRevenue)
	}
	if result.Stats.TotalTransactions != 2 {
		t.Errorf("expected 2 transactions, got %d", result.Stats.TotalTransactions)
	}
	if result.Stats.ContributorCount != 2 {
		t.Errorf("expected 2 contributors (1 named + 1 anonymous), got %d", result.Stats.ContributorCount)
	}

	if len(result.Events) != 2 {
		t.Fatalf("expected 2 event entries, got %d", len(result.Events))
	}
	e1 := result.Events[0]
	if !e1.CurrentAmount.Equal(decimal.NewFromInt(2500)) || e1.Transactions != 1 {
		t.Errorf("e1: unexpected figures %+v", e1)
	}
	if e1.Progress != 25 {
		t.Errorf("e1: expected progress 25, got %d", e1.Progress)
	}
	e2 := result.Events[1]
	if e2.Progress != 100 {
		t.Errorf("e2 has no goal, expected progress 100, got %d", e2.Progress)
	}
}

func TestDashboardService_EmptyScope(t *testing.T) {
	svc := NewDashboardService(&mockEventRepository{}, &mockPaymentRepository{}, &mockReceiptRepository{})
	result, err := svc.Dashboard(context.Background(), model.Principal{ID: "u1", Role: model.RoleOrganizer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Events) != 0 || result.Stats.TotalTransactions != 0 {
		t.Errorf("expected empty dashboard, got %+v", result)
	}
}
