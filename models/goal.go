package models

import "github.com/shopspring/decimal"

type Goal struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    string          `json:"target_date,omitempty"`
}

type GoalRequest struct {
	UserID       int64           `json:"user_id" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	TargetAmount decimal.Decimal `json:"target_amount" binding:"required"`
	TargetDate   string          `json:"target_date"`
}

type UpdateGoalRequest struct {
	UserID      int64           `json:"user_id" binding:"required"`
	AmountToAdd decimal.Decimal `json:"amount_to_add" binding:"required"`
}

// Goal progress buckets at 25/50/75/100 percent.
const (
	GoalJustStarted = "just_started"
	GoalInProgress  = "in_progress"
	GoalHalfway     = "halfway"
	GoalAlmostThere = "almost_there"
	GoalCompleted   = "completed"
)

type GoalStatus struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Target    decimal.Decimal `json:"target"`
	Saved     decimal.Decimal `json:"saved"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   float64         `json:"percent"`
	Deadline  string          `json:"deadline,omitempty"`
	Status    string          `json:"status"`
}
