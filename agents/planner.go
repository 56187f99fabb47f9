package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"financial-guardian/api/db"
	"financial-guardian/api/llm"
)

const plannerPrompt = `You are a Financial Planner Agent. You manage monthly budgets and savings goals.

CAPABILITIES:
1. set_budget / remove_budget / check_budget_status - manage monthly category budgets
2. create_savings_goal / add_to_goal / remove_goal / get_goals_status - manage savings goals

RULES:
1. Use tools for every data change - NEVER claim something was saved without calling the tool
2. When updating a goal by name, first call get_goals_status to find its ID
3. Use Indian Rupees (₹) for all currency
4. Confirm what you did in 1-2 sentences and STOP
5. If no goal matches a mentioned purchase, say so instead of guessing`

func plannerAgent() *Agent {
	return &Agent{
		Name:   AgentPlanner,
		Prompt: plannerPrompt,
		Tools: []Tool{
			{
				Spec: llm.ToolSpec{
					Name:        "set_budget",
					Description: "Set or update a monthly budget for a specific category.",
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"category_name": map[string]any{"type": "string", "description": "Name of the category (e.g., \"Food & Dining\", \"Shopping\")"},
							"amount":        map[string]any{"type": "number", "description": "Budget limit amount in INR"},
							"month":         map[string]any{"type": "string", "description": "Month in YYYY-MM format (defaults to current month)"},
						},
						"required": []string{"category_name", "amount"},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					category := argString(args, "category_name")
					amount := argDecimal(args, "amount")
					month := monthOrCurrent(args)

					categoryID, err := db.GetOrCreateCategory(userID, category, "expense")
					if err != nil {
						return nil, err
					}
					budgetID, err := db.SaveBudget(userID, categoryID, amount, month)
					if err != nil {
						return nil, err
					}
					return map[string]any{
						"status":    "success",
						"message":   fmt.Sprintf("Budget set for %s: ₹%s for %s", category, amount.StringFixed(2), month),
						"budget_id": budgetID,
						"category":  category,
						"amount":    amount,
						"month":     month,
					}, nil
				},
			},
			{
				Spec: llm.ToolSpec{
					Name:        "remove_budget",
					Description: "Remove/delete a budget for a specific category.",
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"category_name": map[string]any{"type": "string"},
							"month":         map[string]any{"type": "string", "description": "Month in YYYY-MM format (defaults to current month)"},
						},
						"required": []string{"category_name"},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					category := argString(args, "category_name")
					month := monthOrCurrent(args)

					categoryID, err := db.GetOrCreateCategory(userID, category, "expense")
					if err != nil {
						return nil, err
					}
					removed, err := db.DeleteBudget(userID, categoryID, month)
					if err != nil {
						return nil, err
					}
					if !removed {
						return map[string]any{
							"status":  "not_found",
							"message": fmt.Sprintf("No budget found for %s in %s", category, month),
						}, nil
					}
					return map[string]any{
						"status":  "success",
						"message": fmt.Sprintf("Budget removed for %s (%s)", category, month),
					}, nil
				},
			},
			{
				Spec: llm.ToolSpec{
					Name:        "check_budget_status",
					Description: "Check the status of all budgets for a month - shows spent vs limit.",
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"month": map[string]any{"type": "string", "description": "Month in YYYY-MM format (defaults to current month)"},
						},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					month := monthOrCurrent(args)
					report, err := db.BudgetReportForMonth(userID, month)
					if err != nil {
						return nil, err
					}
					if len(report.Categories) == 0 {
						return map[string]any{
							"status":  "no_budgets",
							"month":   month,
							"message": "No budgets set for this month.",
						}, nil
					}
					return report, nil
				},
			},
			{
				Spec: llm.ToolSpec{
					Name:        "create_savings_goal",
					Description: "Create a new savings goal.",
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"name":          map[string]any{"type": "string", "description": "Name of the goal (e.g., \"MacBook Pro\", \"Vacation Fund\")"},
							"target_amount": map[string]any{"type": "number", "description": "Target amount to save in INR"},
							"target_date":   map[string]any{"type": "string", "description": "Optional deadline in YYYY-MM-DD format"},
						},
						"required": []string{"name", "target_amount"},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					name := argString(args, "name")
					target := argDecimal(args, "target_amount")
					goalID, err := db.SaveGoal(userID, name, target, argString(args, "target_date"))
					if err != nil {
						return nil, err
					}
					return map[string]any{
						"status":  "success",
						"message": fmt.Sprintf("Goal '%s' created with target ₹%s", name, target.StringFixed(2)),
						"goal_id": goalID,
					}, nil
				},
			},
			{
				Spec: llm.ToolSpec{
					Name:        "add_to_goal",
					Description: "Add funds/progress to an existing savings goal.",
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"goal_id": map[string]any{"type": "integer", "description": "The ID of the goal to update"},
							"amount":  map[string]any{"type": "number", "description": "Amount to add to the goal in INR"},
						},
						"required": []string{"goal_id", "amount"},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					goalID := argInt(args, "goal_id")
					amount := argDecimal(args, "amount")

					goal, err := db.GetGoal(userID, goalID)
					if err != nil {
						return nil, err
					}
					if goal == nil {
						return map[string]any{
							"status":  "error",
							"message": fmt.Sprintf("Goal with ID %d not found", goalID),
						}, nil
					}

					if _, err := db.AddGoalProgress(userID, goalID, amount); err != nil {
						return nil, err
					}

					newAmount := goal.CurrentAmount.Add(amount)
					percent := 0.0
					if goal.TargetAmount.IsPositive() {
						percent, _ = newAmount.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100)).Round(1).Float64()
					}
					return map[string]any{
						"status":           "success",
						"message":          fmt.Sprintf("Added ₹%s to '%s'", amount.StringFixed(2), goal.Name),
						"goal_name":        goal.Name,
						"previous_amount":  goal.CurrentAmount,
						"added":            amount,
						"new_amount":       newAmount,
						"target":           goal.TargetAmount,
						"percent_complete": percent,
					}, nil
				},
			},
			{
				Spec: llm.ToolSpec{
					Name:        "remove_goal",
					Description: "Delete a savings goal.",
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"goal_id": map[string]any{"type": "integer"},
						},
						"required": []string{"goal_id"},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					goalID := argInt(args, "goal_id")
					removed, err := db.DeleteGoal(userID, goalID)
					if err != nil {
						return nil, err
					}
					if !removed {
						return map[string]any{
							"status":  "error",
							"message": fmt.Sprintf("Goal with ID %d not found", goalID),
						}, nil
					}
					return map[string]any{"status": "success", "message": "Goal deleted successfully"}, nil
				},
			},
			{
				Spec: llm.ToolSpec{
					Name:        "get_goals_status",
					Description: "Get the status of all savings goals.",
					Parameters: map[string]any{
						"type":       "object",
						"properties": map[string]any{},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					statuses, err := db.GoalsStatus(userID)
					if err != nil {
						return nil, err
					}
					if len(statuses) == 0 {
						return map[string]any{
							"status":  "no_goals",
							"message": "No savings goals found. Create one to start tracking!",
						}, nil
					}

					totalTarget, totalSaved := decimal.Zero, decimal.Zero
					for _, s := range statuses {
						totalTarget = totalTarget.Add(s.Target)
						totalSaved = totalSaved.Add(s.Saved)
					}
					overall := 0.0
					if totalTarget.IsPositive() {
						overall, _ = totalSaved.Div(totalTarget).Mul(decimal.NewFromInt(100)).Round(1).Float64()
					}
					return map[string]any{
						"status":          "success",
						"total_goals":     len(statuses),
						"total_target":    totalTarget,
						"total_saved":     totalSaved,
						"overall_percent": overall,
						"goals":           statuses,
					}, nil
				},
			},
		},
	}
}

func monthOrCurrent(args map[string]any) string {
	if m := argString(args, "month"); m != "" {
		return m
	}
	return time.Now().Format("2006-01")
}
