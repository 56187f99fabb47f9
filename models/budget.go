package models

import "github.com/shopspring/decimal"

type Budget struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	CategoryID    int64           `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	CategoryColor string          `json:"category_color,omitempty"`
	AmountLimit   decimal.Decimal `json:"amount_limit"`
	Month         string          `json:"month"`
}

type BudgetRequest struct {
	UserID   int64           `json:"user_id" binding:"required"`
	Category string          `json:"category" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Month    string          `json:"month"`
}

// Budget status values, thresholds at 75/90/100 percent of the limit.
const (
	BudgetOnTrack    = "on_track"
	BudgetCaution    = "caution"
	BudgetWarning    = "warning"
	BudgetOverBudget = "over_budget"
)

type BudgetStatus struct {
	Category    string          `json:"category"`
	Color       string          `json:"color,omitempty"`
	Limit       decimal.Decimal `json:"limit"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed float64         `json:"percent_used"`
	Status      string          `json:"status"`
}

type BudgetReport struct {
	Month          string          `json:"month"`
	TotalBudget    decimal.Decimal `json:"total_budget"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
	OverallStatus  string          `json:"overall_status"`
	Categories     []BudgetStatus  `json:"categories"`
}
