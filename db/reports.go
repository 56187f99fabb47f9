package db

import (
	"sort"

	"github.com/shopspring/decimal"

	"financial-guardian/api/models"
)

// BudgetReportForMonth computes spent-vs-limit status for every budget in a
// YYYY-MM month.
func BudgetReportForMonth(userID int64, month string) (*models.BudgetReport, error) {
	budgets, err := GetUserBudgets(userID, month)
	if err != nil {
		return nil, err
	}

	report := &models.BudgetReport{
		Month:      month,
		Categories: []models.BudgetStatus{},
	}

	for _, b := range budgets {
		spent, err := CategorySpendForMonth(userID, b.CategoryID, month)
		if err != nil {
			return nil, err
		}

		percent := 0.0
		if b.AmountLimit.IsPositive() {
			percent, _ = spent.Div(b.AmountLimit).Mul(decimal.NewFromInt(100)).Round(1).Float64()
		}

		status := models.BudgetOnTrack
		switch {
		case spent.GreaterThan(b.AmountLimit):
			status = models.BudgetOverBudget
		case percent > 90:
			status = models.BudgetWarning
		case percent > 75:
			status = models.BudgetCaution
		}

		report.Categories = append(report.Categories, models.BudgetStatus{
			Category:    b.CategoryName,
			Color:       b.CategoryColor,
			Limit:       b.AmountLimit,
			Spent:       spent.Round(2),
			Remaining:   b.AmountLimit.Sub(spent).Round(2),
			PercentUsed: percent,
			Status:      status,
		})

		report.TotalBudget = report.TotalBudget.Add(b.AmountLimit)
		report.TotalSpent = report.TotalSpent.Add(spent)
	}

	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].PercentUsed > report.Categories[j].PercentUsed
	})

	report.TotalRemaining = report.TotalBudget.Sub(report.TotalSpent).Round(2)
	report.OverallStatus = models.BudgetOnTrack
	if report.TotalSpent.GreaterThan(report.TotalBudget) {
		report.OverallStatus = models.BudgetOverBudget
	}
	return report, nil
}

// GoalsStatus derives progress buckets for every goal.
func GoalsStatus(userID int64) ([]models.GoalStatus, error) {
	goals, err := GetUserGoals(userID)
	if err != nil {
		return nil, err
	}

	statuses := make([]models.GoalStatus, 0, len(goals))
	for _, g := range goals {
		percent := 0.0
		if g.TargetAmount.IsPositive() {
			percent, _ = g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(1).Float64()
		}

		status := models.GoalJustStarted
		switch {
		case percent >= 100:
			status = models.GoalCompleted
		case percent >= 75:
			status = models.GoalAlmostThere
		case percent >= 50:
			status = models.GoalHalfway
		case percent >= 25:
			status = models.GoalInProgress
		}

		statuses = append(statuses, models.GoalStatus{
			ID:        g.ID,
			Name:      g.Name,
			Target:    g.TargetAmount,
			Saved:     g.CurrentAmount,
			Remaining: g.TargetAmount.Sub(g.CurrentAmount).Round(2),
			Percent:   percent,
			Deadline:  g.TargetDate,
			Status:    status,
		})
	}
	return statuses, nil
}
