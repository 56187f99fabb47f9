// Package analytics computes spending breakdowns, anomaly reports, and
// cash-flow forecasts from stored transactions.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"financial-guardian/api/db"
	"financial-guardian/api/models"
)

// Analysis status values.
const (
	StatusSuccess          = "success"
	StatusNoData           = "no_data"
	StatusInsufficientData = "insufficient_data"
)

type Insight struct {
	Type     string         `json:"type"`     // trend | anomaly | alert | recommendation
	Severity string         `json:"severity"` // low | medium | high
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type SpendingCategory struct {
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"`
	Percentage       float64         `json:"percentage"`
	TransactionCount int             `json:"transaction_count"`
}

type SpendingAnalysis struct {
	Status     string             `json:"status"`
	TotalSpent decimal.Decimal    `json:"total_spent"`
	Period     string             `json:"period"`
	Categories []SpendingCategory `json:"categories"`
	Insights   []Insight          `json:"insights"`
}

type Anomaly struct {
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Narration string          `json:"narration"`
}

type AnomalyReport struct {
	Status            string    `json:"status"`
	AnomaliesDetected int       `json:"anomalies_detected"`
	Anomalies         []Anomaly `json:"anomalies"`
	Insights          []Insight `json:"insights"`
}

type CashFlowForecast struct {
	Status               string          `json:"status"`
	PeriodAnalyzed       string          `json:"period_analyzed"`
	TotalIncome          decimal.Decimal `json:"total_income"`
	TotalExpenses        decimal.Decimal `json:"total_expenses"`
	DailyAvgIncome       decimal.Decimal `json:"daily_avg_income"`
	DailyAvgExpense      decimal.Decimal `json:"daily_avg_expense"`
	Projected30DayIncome decimal.Decimal `json:"projected_30day_income"`
	Projected30DaySpend  decimal.Decimal `json:"projected_30day_expenses"`
	ProjectedNet         decimal.Decimal `json:"projected_net"`
	Trend                string          `json:"trend"`
}

func periodStart(days int) string {
	return time.Now().AddDate(0, 0, -days).Format("2006-01-02")
}

func debitsOnly(txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Type == models.TxnTypeDebit && t.Amount.IsPositive() {
			out = append(out, t)
		}
	}
	return out
}

// AnalyzeSpendingPatterns breaks down spending by category for the last N
// days, optionally filtered to a single category.
func AnalyzeSpendingPatterns(userID int64, days int, category string) (*SpendingAnalysis, error) {
	txns, err := db.GetUserTransactions(userID, db.TxnFilter{StartDate: periodStart(days)})
	if err != nil {
		return nil, err
	}

	debits := debitsOnly(txns)
	if category != "" {
		filtered := debits[:0]
		for _, t := range debits {
			if strings.EqualFold(t.Category, category) {
				filtered = append(filtered, t)
			}
		}
		debits = filtered
	}

	period := fmt.Sprintf("last_%d_days", days)
	if len(debits) == 0 {
		return &SpendingAnalysis{
			Status:     StatusNoData,
			TotalSpent: decimal.Zero,
			Period:     period,
			Categories: []SpendingCategory{},
			Insights: []Insight{{
				Type: "alert", Severity: "low",
				Message: "No spending data found for this period.",
			}},
		}, nil
	}

	spend := map[string]decimal.Decimal{}
	counts := map[string]int{}
	total := decimal.Zero
	for _, t := range debits {
		cat := t.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		spend[cat] = spend[cat].Add(t.Amount)
		counts[cat]++
		total = total.Add(t.Amount)
	}

	categories := make([]SpendingCategory, 0, len(spend))
	for cat, amount := range spend {
		pct := 0.0
		if total.IsPositive() {
			pct, _ = amount.Div(total).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		}
		categories = append(categories, SpendingCategory{
			Category:         cat,
			Amount:           amount.Round(2),
			Percentage:       pct,
			TransactionCount: counts[cat],
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Amount.GreaterThan(categories[j].Amount)
	})

	insights := []Insight{}
	if top := categories[0]; top.Percentage > 40 {
		insights = append(insights, Insight{
			Type: "trend", Severity: "medium",
			Message:  fmt.Sprintf("High spending in %s (%.1f%% of total).", top.Category, top.Percentage),
			Metadata: map[string]any{"category": top.Category, "percentage": top.Percentage},
		})
	}

	return &SpendingAnalysis{
		Status:     StatusSuccess,
		TotalSpent: total.Round(2),
		Period:     period,
		Categories: categories,
		Insights:   insights,
	}, nil
}

// DetectAnomalies flags debits above mean + 2 standard deviations. Needs at
// least 5 debits in the window.
func DetectAnomalies(userID int64, days int) (*AnomalyReport, error) {
	txns, err := db.GetUserTransactions(userID, db.TxnFilter{StartDate: periodStart(days)})
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return &AnomalyReport{
			Status:    StatusNoData,
			Anomalies: []Anomaly{},
			Insights: []Insight{{
				Type: "alert", Severity: "low",
				Message: "No transaction data found for anomaly detection in this period.",
			}},
		}, nil
	}

	debits := debitsOnly(txns)
	if len(debits) < 5 {
		return &AnomalyReport{Status: StatusInsufficientData, Anomalies: []Anomaly{}, Insights: []Insight{}}, nil
	}

	amounts := make([]float64, len(debits))
	for i, t := range debits {
		amounts[i], _ = t.Amount.Float64()
	}
	mean := meanOf(amounts)
	threshold := mean + 2*stdevOf(amounts, mean)

	anomalies := []Anomaly{}
	for _, t := range debits {
		if v, _ := t.Amount.Float64(); v > threshold {
			anomalies = append(anomalies, Anomaly{
				Date:      t.Date,
				Amount:    t.Amount,
				Category:  orUncategorized(t.Category),
				Narration: t.Narration,
			})
		}
	}

	insights := []Insight{}
	if len(anomalies) > 0 {
		severity := "medium"
		if len(anomalies) > 2 {
			severity = "high"
		}
		insights = append(insights, Insight{
			Type: "anomaly", Severity: severity,
			Message:  fmt.Sprintf("Detected %d unusual transactions above ₹%d.", len(anomalies), int(threshold)),
			Metadata: map[string]any{"threshold": threshold, "count": len(anomalies)},
		})
	}

	return &AnomalyReport{
		Status:            StatusSuccess,
		AnomaliesDetected: len(anomalies),
		Anomalies:         anomalies,
		Insights:          insights,
	}, nil
}

// ForecastCashFlow projects the next 30 days of income and spend from the
// daily averages of the analyzed window.
func ForecastCashFlow(userID int64, days int) (*CashFlowForecast, error) {
	txns, err := db.GetUserTransactions(userID, db.TxnFilter{StartDate: periodStart(days)})
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return &CashFlowForecast{Status: StatusNoData}, nil
	}

	totalDebits, totalCredits := decimal.Zero, decimal.Zero
	for _, t := range txns {
		switch t.Type {
		case models.TxnTypeDebit:
			totalDebits = totalDebits.Add(t.Amount)
		case models.TxnTypeCredit:
			totalCredits = totalCredits.Add(t.Amount)
		}
	}

	d := decimal.NewFromInt(int64(days))
	dailyExpense := totalDebits.Div(d)
	dailyIncome := totalCredits.Div(d)
	thirty := decimal.NewFromInt(30)
	projExpenses := dailyExpense.Mul(thirty)
	projIncome := dailyIncome.Mul(thirty)
	projNet := projIncome.Sub(projExpenses)

	trend := "negative"
	if projNet.IsPositive() {
		trend = "positive"
	}

	return &CashFlowForecast{
		Status:               StatusSuccess,
		PeriodAnalyzed:       fmt.Sprintf("last_%d_days", days),
		TotalIncome:          totalCredits.Round(2),
		TotalExpenses:        totalDebits.Round(2),
		DailyAvgIncome:       dailyIncome.Round(2),
		DailyAvgExpense:      dailyExpense.Round(2),
		Projected30DayIncome: projIncome.Round(2),
		Projected30DaySpend:  projExpenses.Round(2),
		ProjectedNet:         projNet.Round(2),
		Trend:                trend,
	}, nil
}

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stdevOf(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func orUncategorized(s string) string {
	if s == "" {
		return "Uncategorized"
	}
	return s
}
