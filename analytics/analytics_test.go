package analytics

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-guardian/api/db"
	"financial-guardian/api/models"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "fg-analytics-test")
	if err != nil {
		panic(err)
	}
	if err := db.Open(filepath.Join(dir, "test.db")); err != nil {
		panic(err)
	}
	code := m.Run()
	db.CloseDB()
	os.RemoveAll(dir)
	os.Exit(code)
}

func seedUser(t *testing.T, phone string) int64 {
	t.Helper()
	userID, err := db.GetOrCreateUser(phone)
	require.NoError(t, err)
	return userID
}

func addDebit(t *testing.T, userID int64, amount int64, category, date string) {
	t.Helper()
	_, err := db.AddManualTransaction(userID, decimal.NewFromInt(amount), category, models.TxnTypeDebit, date, "test debit")
	require.NoError(t, err)
}

func daysAgo(n int) string {
	return time.Now().AddDate(0, 0, -n).Format("2006-01-02")
}

func TestAnalyzeSpendingPatterns(t *testing.T) {
	userID := seedUser(t, "9100000001")

	addDebit(t, userID, 6000, "Food & Dining", daysAgo(5))
	addDebit(t, userID, 2000, "Food & Dining", daysAgo(10))
	addDebit(t, userID, 1000, "Shopping", daysAgo(3))
	addDebit(t, userID, 1000, "Commute", daysAgo(7))

	analysis, err := AnalyzeSpendingPatterns(userID, 30, "")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, analysis.Status)
	assert.True(t, analysis.TotalSpent.Equal(decimal.NewFromInt(10000)))
	require.NotEmpty(t, analysis.Categories)

	// Biggest category first.
	assert.Equal(t, "Food & Dining", analysis.Categories[0].Category)
	assert.InDelta(t, 80.0, analysis.Categories[0].Percentage, 0.1)
	assert.Equal(t, 2, analysis.Categories[0].TransactionCount)

	// Food is over 40% of total spend, so a trend insight must fire.
	var hasTrend bool
	for _, ins := range analysis.Insights {
		if ins.Type == "trend" {
			hasTrend = true
		}
	}
	assert.True(t, hasTrend, "expected a concentration trend insight")
}

func TestAnalyzeSpendingPatternsCategoryFilter(t *testing.T) {
	userID := seedUser(t, "9100000002")
	addDebit(t, userID, 500, "Food & Dining", daysAgo(2))
	addDebit(t, userID, 900, "Shopping", daysAgo(2))

	analysis, err := AnalyzeSpendingPatterns(userID, 30, "food & dining")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, analysis.Status)
	assert.True(t, analysis.TotalSpent.Equal(decimal.NewFromInt(500)))
	require.Len(t, analysis.Categories, 1)
	assert.Equal(t, "Food & Dining", analysis.Categories[0].Category)
}

func TestAnalyzeSpendingPatternsNoData(t *testing.T) {
	userID := seedUser(t, "9100000003")

	analysis, err := AnalyzeSpendingPatterns(userID, 30, "")
	require.NoError(t, err)
	assert.Equal(t, StatusNoData, analysis.Status)
	assert.True(t, analysis.TotalSpent.IsZero())
}

func TestDetectAnomalies(t *testing.T) {
	userID := seedUser(t, "9100000004")

	// Tight cluster of normal spends plus one extreme outlier.
	for i := 0; i < 10; i++ {
		addDebit(t, userID, 500, "Food & Dining", daysAgo(i+1))
	}
	addDebit(t, userID, 50000, "Shopping", daysAgo(4))

	report, err := DetectAnomalies(userID, 30)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, report.Status)
	require.Equal(t, 1, report.AnomaliesDetected)
	assert.True(t, report.Anomalies[0].Amount.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, "Shopping", report.Anomalies[0].Category)
}

func TestDetectAnomaliesInsufficientData(t *testing.T) {
	userID := seedUser(t, "9100000005")
	for i := 0; i < 3; i++ {
		addDebit(t, userID, 500, "Food & Dining", daysAgo(i+1))
	}

	report, err := DetectAnomalies(userID, 30)
	require.NoError(t, err)
	assert.Equal(t, StatusInsufficientData, report.Status)
	assert.Zero(t, report.AnomaliesDetected)
}

func TestForecastCashFlow(t *testing.T) {
	userID := seedUser(t, "9100000006")

	_, err := db.AddManualTransaction(userID, decimal.NewFromInt(90000), "Salary", models.TxnTypeCredit, daysAgo(15), "salary")
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		addDebit(t, userID, 5000, "Food & Dining", daysAgo(i*4+1))
	}

	forecast, err := ForecastCashFlow(userID, 30)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, forecast.Status)
	assert.True(t, forecast.TotalIncome.Equal(decimal.NewFromInt(90000)))
	assert.True(t, forecast.TotalExpenses.Equal(decimal.NewFromInt(30000)))
	assert.Equal(t, "positive", forecast.Trend)

	// Projections are daily averages scaled to 30 days.
	expectedSpend := decimal.NewFromInt(30000).Div(decimal.NewFromInt(30)).Mul(decimal.NewFromInt(30))
	assert.True(t, forecast.Projected30DaySpend.Sub(expectedSpend).Abs().LessThan(decimal.NewFromInt(1)),
		fmt.Sprintf("projected spend %s, expected about %s", forecast.Projected30DaySpend, expectedSpend))
}

func TestForecastCashFlowNoData(t *testing.T) {
	userID := seedUser(t, "9100000007")
	forecast, err := ForecastCashFlow(userID, 30)
	require.NoError(t, err)
	assert.Equal(t, StatusNoData, forecast.Status)
}
