package service

import (
	"math"

	"github.com/shaderlpay/backend/internal/model"
	"github.com/shopspring/decimal"
)

// Aggregate folds a snapshot of events (with payments and receipts loaded)
// into dashboard totals. Only completed payments count toward revenue.
// Contributors are counted by distinct non-empty receipt contributor id;
// anonymous receipts still count, each as its own contributor.
func Aggregate(events []*model.Event) model.Stats {
	stats := model.Stats{TotalRevenue: decimal.Zero, AvgContribution: decimal.Zero}

	seen := map[string]bool{}
	anonymous := 0
	for _, e := range events {
		for _, p := range e.Payments {
			if p.Status != model.PaymentCompleted {
				continue
			}
			stats.TotalRevenue = stats.TotalRevenue.Add(p.Amount)
			stats.TotalTransactions++
		}
		for _, r := range e.Receipts {
			if r.ContributorID == "" {
				anonymous++
				continue
			}
			seen[r.ContributorID] = true
		}
	}

	stats.ContributorCount = len(seen) + anonymous
	if stats.TotalTransactions > 0 {
		stats.AvgContribution = stats.TotalRevenue.
			Div(decimal.NewFromInt(int64(stats.TotalTransactions))).
			Round(2)
	}
	return stats
}

// Progress reports funding progress as a capped percentage. An event with no
// explicit goal is reported as fully progressed — a documented convention of
// the dashboard, not an error state.
func Progress(current decimal.Decimal, goal *decimal.Decimal) int {
	if goal == nil || goal.IsZero() {
		return 100
	}
	pct := current.Div(*goal).Mul(decimal.NewFromInt(100))
	rounded := int(math.Round(pct.InexactFloat64()))
	if rounded > 100 {
		return 100
	}
	return rounded
}

// CompletedSum totals an event's completed payments.
func CompletedSum(e *model.Event) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range e.Payments {
		if p.Status == model.PaymentCompleted {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}
