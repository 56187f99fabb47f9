package db

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-guardian/api/models"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "fg-db-test")
	if err != nil {
		panic(err)
	}
	if err := Open(filepath.Join(dir, "test.db")); err != nil {
		panic(err)
	}
	code := m.Run()
	CloseDB()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestUser(t *testing.T, phone string) int64 {
	t.Helper()
	userID, err := GetOrCreateUser(phone)
	require.NoError(t, err)
	return userID
}

func TestGetOrCreateUser(t *testing.T) {
	first, err := GetOrCreateUser("9000000001")
	require.NoError(t, err)
	require.NotZero(t, first)

	second, err := GetOrCreateUser("9000000001")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	exists, err := UserExists(first)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = UserExists(99999999)
	require.NoError(t, err)
	assert.False(t, exists)

	missing, err := GetUserID("0000000000")
	require.NoError(t, err)
	assert.Zero(t, missing)
}

func TestSaveBudgetUpsert(t *testing.T) {
	userID := newTestUser(t, "9000000002")
	catID, err := GetOrCreateCategory(userID, "Food & Dining", "expense")
	require.NoError(t, err)

	_, err = SaveBudget(userID, catID, decimal.NewFromInt(5000), "2026-08")
	require.NoError(t, err)
	_, err = SaveBudget(userID, catID, decimal.NewFromInt(8000), "2026-08")
	require.NoError(t, err)

	budgets, err := GetUserBudgets(userID, "2026-08")
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].AmountLimit.Equal(decimal.NewFromInt(8000)),
		"second save should replace the limit, got %s", budgets[0].AmountLimit)

	deleted, err := DeleteBudget(userID, catID, "2026-08")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = DeleteBudget(userID, catID, "2026-08")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestBudgetReportStatuses(t *testing.T) {
	userID := newTestUser(t, "9000000003")
	month := time.Now().Format("2006-01")
	today := time.Now().Format("2006-01-02")

	foodID, err := GetOrCreateCategory(userID, "Food & Dining", "expense")
	require.NoError(t, err)
	shopID, err := GetOrCreateCategory(userID, "Shopping", "expense")
	require.NoError(t, err)

	_, err = SaveBudget(userID, foodID, decimal.NewFromInt(1000), month)
	require.NoError(t, err)
	_, err = SaveBudget(userID, shopID, decimal.NewFromInt(1000), month)
	require.NoError(t, err)

	// 95% of the food budget, 120% of the shopping budget.
	_, err = AddManualTransaction(userID, decimal.NewFromInt(950), "Food & Dining", models.TxnTypeDebit, today, "dinners")
	require.NoError(t, err)
	_, err = AddManualTransaction(userID, decimal.NewFromInt(1200), "Shopping", models.TxnTypeDebit, today, "shoes")
	require.NoError(t, err)

	report, err := BudgetReportForMonth(userID, month)
	require.NoError(t, err)
	require.Len(t, report.Categories, 2)

	// Sorted by percent used, worst first.
	assert.Equal(t, "Shopping", report.Categories[0].Category)
	assert.Equal(t, models.BudgetOverBudget, report.Categories[0].Status)
	assert.Equal(t, "Food & Dining", report.Categories[1].Category)
	assert.Equal(t, models.BudgetWarning, report.Categories[1].Status)

	assert.Equal(t, models.BudgetOverBudget, report.OverallStatus)
	assert.True(t, report.TotalSpent.Equal(decimal.NewFromInt(2150)))
}

func TestGoalLifecycle(t *testing.T) {
	userID := newTestUser(t, "9000000004")

	goalID, err := SaveGoal(userID, "New Laptop", decimal.NewFromInt(100000), "2027-01-01")
	require.NoError(t, err)

	updated, err := AddGoalProgress(userID, goalID, decimal.NewFromInt(30000))
	require.NoError(t, err)
	assert.True(t, updated)

	goal, err := GetGoal(userID, goalID)
	require.NoError(t, err)
	require.NotNil(t, goal)
	assert.True(t, goal.CurrentAmount.Equal(decimal.NewFromInt(30000)))

	statuses, err := GoalsStatus(userID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, models.GoalInProgress, statuses[0].Status)
	assert.InDelta(t, 30.0, statuses[0].Percent, 0.01)

	// Progress past the target caps at completed.
	_, err = AddGoalProgress(userID, goalID, decimal.NewFromInt(80000))
	require.NoError(t, err)
	statuses, err = GoalsStatus(userID)
	require.NoError(t, err)
	assert.Equal(t, models.GoalCompleted, statuses[0].Status)

	deleted, err := DeleteGoal(userID, goalID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := GetGoal(userID, goalID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestStoreTransactionsIdempotent(t *testing.T) {
	userID := newTestUser(t, "9000000005")

	txns := []models.Transaction{
		{
			SetuTxnID: "TXN-001",
			Date:      "2026-08-01",
			Type:      models.TxnTypeDebit,
			Amount:    decimal.NewFromInt(450),
			Category:  "Food & Dining",
			Narration: "UPI-SWIGGY",
			Source:    models.SourceSetu,
		},
		{
			SetuTxnID: "TXN-002",
			Date:      "2026-08-02",
			Type:      models.TxnTypeCredit,
			Amount:    decimal.NewFromInt(85000),
			Category:  "Salary",
			Narration: "NEFT-SALARY",
			Source:    models.SourceSetu,
		},
	}

	stored, err := StoreTransactions(userID, txns)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	// Replaying the same payload stores nothing new.
	stored, err = StoreTransactions(userID, txns)
	require.NoError(t, err)
	assert.Equal(t, 0, stored)

	all, err := GetUserTransactions(userID, TxnFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	latest, err := LatestTransactionDate(userID)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-02", latest)
}

func TestTransactionFilters(t *testing.T) {
	userID := newTestUser(t, "9000000006")

	for i, date := range []string{"2026-08-01", "2026-08-10", "2026-08-20"} {
		_, err := AddManualTransaction(userID, decimal.NewFromInt(int64(100+i)), "Shopping", models.TxnTypeDebit, date, "item")
		require.NoError(t, err)
	}

	windowed, err := GetUserTransactions(userID, TxnFilter{StartDate: "2026-08-05", EndDate: "2026-08-15"})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, "2026-08-10", windowed[0].Date)

	limited, err := GetUserTransactions(userID, TxnFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	// Newest first.
	assert.Equal(t, "2026-08-20", limited[0].Date)
}

func TestInsightCache(t *testing.T) {
	userID := newTestUser(t, "9000000007")

	missing, err := GetCachedInsight(userID, "spending_patterns")
	require.NoError(t, err)
	assert.Nil(t, missing)

	payload := map[string]any{"status": "success", "total": 1234}
	require.NoError(t, SaveInsight(userID, "spending_patterns", payload, time.Hour))

	cached, err := GetCachedInsight(userID, "spending_patterns")
	require.NoError(t, err)
	require.NotNil(t, cached)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(cached, &decoded))
	assert.Equal(t, "success", decoded["status"])

	// Expired entries are invisible and sweepable.
	require.NoError(t, SaveInsight(userID, "anomalies", payload, -time.Minute))
	expired, err := GetCachedInsight(userID, "anomalies")
	require.NoError(t, err)
	assert.Nil(t, expired)

	swept, err := SweepExpiredInsights()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, swept, int64(1))
}

func TestLiabilities(t *testing.T) {
	userID := newTestUser(t, "9000000008")

	_, err := CreateLoan(models.Loan{
		UserID:           userID,
		Name:             "Home Loan",
		LoanType:         "home",
		PrincipalAmount:  decimal.NewFromInt(5000000),
		RemainingBalance: decimal.NewFromInt(4200000),
		EMIAmount:        decimal.NewFromInt(45000),
		InterestRate:     8.5,
		NextDueDate:      "2026-09-05",
	})
	require.NoError(t, err)

	_, err = CreateCreditCard(models.CreditCard{
		UserID:         userID,
		CardName:       "Platinum",
		CreditLimit:    decimal.NewFromInt(300000),
		CurrentBalance: decimal.NewFromInt(45000),
		DueDate:        "2026-09-15",
	})
	require.NoError(t, err)

	loans, err := GetUserLoans(userID)
	require.NoError(t, err)
	cards, err := GetUserCreditCards(userID)
	require.NoError(t, err)

	loanTotal, cardTotal := LiabilityTotals(loans, cards)
	assert.True(t, loanTotal.Equal(decimal.NewFromInt(4200000)))
	assert.True(t, cardTotal.Equal(decimal.NewFromInt(45000)))
}

func TestConversations(t *testing.T) {
	userID := newTestUser(t, "9000000009")

	conv, err := GetOrCreateConversation(userID, "session-abc")
	require.NoError(t, err)
	again, err := GetOrCreateConversation(userID, "session-abc")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)

	require.NoError(t, AppendMessage(conv.ID, "user", "hello"))
	require.NoError(t, AppendMessage(conv.ID, "assistant", "hi, how can I help?"))

	msgs, err := GetMessages(conv.ID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "assistant", msgs[1].Role)
}

func TestSeedDemoUserIdempotent(t *testing.T) {
	require.NoError(t, SeedDemoUser())

	userID, err := GetUserID("9876543210")
	require.NoError(t, err)
	require.NotZero(t, userID)

	txns, err := GetUserTransactions(userID, TxnFilter{})
	require.NoError(t, err)
	firstCount := len(txns)
	assert.Greater(t, firstCount, 50, "seed should produce a meaningful history")

	goals, err := GetUserGoals(userID)
	require.NoError(t, err)
	assert.Len(t, goals, 3)

	// Second run must not duplicate anything.
	require.NoError(t, SeedDemoUser())
	txns, err = GetUserTransactions(userID, TxnFilter{})
	require.NoError(t, err)
	assert.Equal(t, firstCount, len(txns))
}
