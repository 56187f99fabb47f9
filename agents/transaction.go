package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"financial-guardian/api/db"
	"financial-guardian/api/llm"
	"financial-guardian/api/models"
)

const transactionPrompt = `You are a Transaction Agent. You record manual transactions and report on liabilities.

CAPABILITIES:
1. add_expense / add_income - record manual entries
2. get_recent_transactions - list recent transactions
3. get_liabilities_summary - loans and credit card dues
4. get_financial_snapshot - 30-day cash flow plus liabilities

RULES:
1. Use tools for every data change - NEVER claim something was recorded without calling the tool
2. Use Indian Rupees (₹) for all currency
3. Confirm what you recorded in 1-2 sentences and STOP
4. When a purchase mentions a purpose (e.g. "for my gaming PC"), still record only the expense; goal updates are another agent's job`

func transactionAgent() *Agent {
	return &Agent{
		Name:   AgentTransaction,
		Prompt: transactionPrompt,
		Tools: []Tool{
			{
				Spec: llm.ToolSpec{
					Name:        "add_expense",
					Description: "Record a manual expense/purchase.",
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"amount":        map[string]any{"type": "number", "description": "Amount spent in INR"},
							"category_name": map[string]any{"type": "string", "description": "Category (e.g., \"Shopping\", \"Electronics\", \"Food & Dining\")"},
							"description":   map[string]any{"type": "string", "description": "Optional description of the purchase"},
							"date":          map[string]any{"type": "string", "description": "Optional date in YYYY-MM-DD format (defaults to today)"},
						},
						"required": []string{"amount", "category_name"},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					amount := argDecimal(args, "amount")
					category := argString(args, "category_name")
					date := dateOrToday(args)
					narration := argString(args, "description")
					if narration == "" {
						narration = category + " expense"
					}

					txnID, err := db.AddManualTransaction(userID, amount, category, models.TxnTypeDebit, date, narration)
					if err != nil {
						return nil, err
					}
					return map[string]any{
						"status":         "success",
						"message":        fmt.Sprintf("Recorded expense: ₹%s for %s", amount.StringFixed(2), category),
						"transaction_id": txnID,
						"transaction": map[string]any{
							"amount":      amount,
							"category":    category,
							"description": narration,
							"date":        date,
							"type":        "expense",
						},
					}, nil
				},
			},
			{
				Spec: llm.ToolSpec{
					Name:        "add_income",
					Description: "Record a manual income entry.",
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"amount":      map[string]any{"type": "number", "description": "Amount received in INR"},
							"source":      map[string]any{"type": "string", "description": "Source of income (e.g., \"Salary\", \"Freelance\", \"Gift\")"},
							"description": map[string]any{"type": "string"},
							"date":        map[string]any{"type": "string", "description": "Optional date in YYYY-MM-DD format (defaults to today)"},
						},
						"required": []string{"amount", "source"},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					amount := argDecimal(args, "amount")
					source := argString(args, "source")
					date := dateOrToday(args)
					narration := argString(args, "description")
					if narration == "" {
						narration = "Income from " + source
					}

					txnID, err := db.AddManualTransaction(userID, amount, source, models.TxnTypeCredit, date, narration)
					if err != nil {
						return nil, err
					}
					return map[string]any{
						"status":         "success",
						"message":        fmt.Sprintf("Recorded income: ₹%s from %s", amount.StringFixed(2), source),
						"transaction_id": txnID,
					}, nil
				},
			},
			{
				Spec: llm.ToolSpec{
					Name:        "get_recent_transactions",
					Description: "Get recent transactions for the user.",
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"limit": map[string]any{"type": "integer", "description": "Number of transactions to return (default 10)"},
						},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					limit := int(argInt(args, "limit"))
					if limit <= 0 {
						limit = 10
					}
					txns, err := db.GetUserTransactions(userID, db.TxnFilter{Limit: limit})
					if err != nil {
						return nil, err
					}
					if len(txns) == 0 {
						return map[string]any{"status": "no_transactions", "message": "No transactions found."}, nil
					}
					return map[string]any{
						"status":       "success",
						"count":        len(txns),
						"transactions": txns,
					}, nil
				},
			},
			{
				Spec: llm.ToolSpec{
					Name:        "get_liabilities_summary",
					Description: "Get summary of all liabilities (loans, credit cards).",
					Parameters: map[string]any{
						"type":       "object",
						"properties": map[string]any{},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					return liabilitiesSummary(userID)
				},
			},
			{
				Spec: llm.ToolSpec{
					Name:        "get_financial_snapshot",
					Description: "Get a quick financial snapshot - recent spending, income, and liabilities.",
					Parameters: map[string]any{
						"type":       "object",
						"properties": map[string]any{},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					return financialSnapshot(userID)
				},
			},
		},
	}
}

func dateOrToday(args map[string]any) string {
	if d := argString(args, "date"); d != "" {
		return d
	}
	return time.Now().Format("2006-01-02")
}

func liabilitiesSummary(userID int64) (any, error) {
	loans, err := db.GetUserLoans(userID)
	if err != nil {
		return nil, err
	}
	cards, err := db.GetUserCreditCards(userID)
	if err != nil {
		return nil, err
	}
	loanTotal, cardTotal := db.LiabilityTotals(loans, cards)

	return map[string]any{
		"status":            "success",
		"total_liabilities": loanTotal.Add(cardTotal),
		"loans": map[string]any{
			"count":             len(loans),
			"total_outstanding": loanTotal,
			"details":           loans,
		},
		"credit_cards": map[string]any{
			"count":     len(cards),
			"total_due": cardTotal,
			"details":   cards,
		},
	}, nil
}

func financialSnapshot(userID int64) (any, error) {
	since := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	txns, err := db.GetUserTransactions(userID, db.TxnFilter{StartDate: since})
	if err != nil {
		return nil, err
	}

	income, expenses := decimal.Zero, decimal.Zero
	for _, t := range txns {
		switch t.Type {
		case models.TxnTypeCredit:
			income = income.Add(t.Amount)
		case models.TxnTypeDebit:
			expenses = expenses.Add(t.Amount)
		}
	}
	net := income.Sub(expenses)
	flow := "negative"
	if net.Sign() >= 0 {
		flow = "positive"
	}

	loans, err := db.GetUserLoans(userID)
	if err != nil {
		return nil, err
	}
	cards, err := db.GetUserCreditCards(userID)
	if err != nil {
		return nil, err
	}
	loanTotal, cardTotal := db.LiabilityTotals(loans, cards)

	return map[string]any{
		"status": "success",
		"period": "Last 30 days",
		"cash_flow": map[string]any{
			"total_income":   income.Round(2),
			"total_expenses": expenses.Round(2),
			"net_flow":       net.Round(2),
			"status":         flow,
		},
		"liabilities": map[string]any{
			"total_loans":      loanTotal,
			"credit_card_dues": cardTotal,
			"total":            loanTotal.Add(cardTotal),
		},
		"transaction_count": len(txns),
	}, nil
}
