package agents

import (
	"context"

	"financial-guardian/api/analytics"
	"financial-guardian/api/llm"
)

const analystPrompt = `You are a Financial Analyst Agent. Your ONLY job is to analyze transaction data.

CAPABILITIES:
1. get_spending_breakdown - Analyze spending by category
2. detect_spending_anomalies - Find unusual transactions
3. forecast_balance - Predict future cash flow

RULES:
1. Use tools to fetch data - NEVER make up numbers or guess
2. Call ONE tool at a time, wait for result
3. After getting data, summarize findings clearly and STOP
4. If data shows "no_data" or "insufficient_data", inform the user politely
5. Use Indian Rupees (₹) for all currency
6. Be concise - max 3-4 sentences for the summary
7. If the user asks something outside your scope, say "I can only help with spending analysis, anomaly detection, and cash flow forecasting."

IMPORTANT: After receiving tool results, provide your analysis and END your response. Do not call more tools unless absolutely necessary.`

func analystAgent() *Agent {
	return &Agent{
		Name:   AgentAnalyst,
		Prompt: analystPrompt,
		Tools: []Tool{
			{
				Spec: llm.ToolSpec{
					Name:        "get_spending_breakdown",
					Description: "Get spending breakdown by category for the last N days.",
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"days":     map[string]any{"type": "integer", "description": "Number of days to analyze (default 30)"},
							"category": map[string]any{"type": "string", "description": "Optional specific category to filter by"},
						},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					return analytics.AnalyzeSpendingPatterns(userID, daysOrDefault(args), argString(args, "category"))
				},
			},
			{
				Spec: llm.ToolSpec{
					Name:        "detect_spending_anomalies",
					Description: "Detect unusual or high-value transactions in the specified period.",
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"days": map[string]any{"type": "integer", "description": "Number of days to analyze (default 30)"},
						},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					return analytics.DetectAnomalies(userID, daysOrDefault(args))
				},
			},
			{
				Spec: llm.ToolSpec{
					Name:        "forecast_balance",
					Description: "Predict future balance based on spending and income trends.",
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"days": map[string]any{"type": "integer", "description": "Number of historical days to base the forecast on (default 30)"},
						},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					return analytics.ForecastCashFlow(userID, daysOrDefault(args))
				},
			},
		},
	}
}

func daysOrDefault(args map[string]any) int {
	if d := argInt(args, "days"); d > 0 {
		return int(d)
	}
	return 30
}
