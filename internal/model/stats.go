package model

import "github.com/shopspring/decimal"

// Stats summarizes a set of events for a dashboard. Recomputed from scratch
// on every read; there is no cached running total to invalidate.
type Stats struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalTransactions int             `json:"total_transactions"`
	ContributorCount  int             `json:"contributor_count"`
	AvgContribution   decimal.Decimal `json:"avg_contribution"`
}

// EventStats carries per-event derived figures alongside the event itself.
type EventStats struct {
	Event         *Event          `json:"event"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Transactions  int             `json:"transactions"`
	Progress      int             `json:"progress"`
}

// DashboardResult is the payload of GET /api/me/events.
type DashboardResult struct {
	Events []*EventStats `json:"events"`
	Stats  Stats         `json:"stats"`
}
