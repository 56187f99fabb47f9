package handlers

import (
	"net/http"
	"time"

	"financial-guardian/api/db"
	"financial-guardian/api/logger"
	"financial-guardian/api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HandleGetSnapshot aggregates the dashboard view: 30-day cash flow, goals,
// budgets, recent transactions, and liabilities in one response.
func HandleGetSnapshot(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	since := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	txns, err := db.GetUserTransactions(userID, db.TxnFilter{StartDate: since})
	if err != nil {
		logger.Get().Error("Failed to load transactions for snapshot",
			zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build snapshot"})
		return
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

	recent := txns
	if len(recent) > 10 {
		recent = recent[:10]
	}

	goals, err := db.GoalsStatus(userID)
	if err != nil {
		logger.Get().Error("Failed to load goals for snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build snapshot"})
		return
	}

	budgets, err := db.BudgetReportForMonth(userID, time.Now().Format("2006-01"))
	if err != nil {
		logger.Get().Error("Failed to load budgets for snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build snapshot"})
		return
	}

	report, err := liabilitiesReport(userID)
	if err != nil {
		logger.Get().Error("Failed to load liabilities for snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build snapshot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period": "last_30_days",
		"cash_flow": gin.H{
			"total_income":   income.Round(2),
			"total_expenses": expenses.Round(2),
			"net_flow":       income.Sub(expenses).Round(2),
		},
		"recent_transactions": recent,
		"goals":               goals,
		"budgets":             budgets,
		"liabilities":         report,
	})
}

// HandleGetLiabilities returns loans and credit cards with totals.
func HandleGetLiabilities(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	report, err := liabilitiesReport(userID)
	if err != nil {
		logger.Get().Error("Failed to load liabilities",
			zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load liabilities"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func liabilitiesReport(userID int64) (*models.LiabilitiesReport, error) {
	loans, err := db.GetUserLoans(userID)
	if err != nil {
		return nil, err
	}
	cards, err := db.GetUserCreditCards(userID)
	if err != nil {
		return nil, err
	}
	loanTotal, cardTotal := db.LiabilityTotals(loans, cards)

	return &models.LiabilitiesReport{
		Loans:              loans,
		CreditCards:        cards,
		TotalLoanBalance:   loanTotal,
		TotalCreditCardDue: cardTotal,
		TotalLiabilities:   loanTotal.Add(cardTotal),
	}, nil
}
