package handlers

import (
	"net/http"
	"strconv"
	"time"

	"financial-guardian/api/db"
	"financial-guardian/api/logger"
	"financial-guardian/api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func queryUserID(c *gin.Context) (int64, bool) {
	raw := c.Query("user_id")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid user_id query parameter is required"})
		return 0, false
	}
	return userID, true
}

func monthOrCurrent(month string) string {
	if month == "" {
		return time.Now().Format("2006-01")
	}
	return month
}

// HandleGetBudgets returns the month's budget report with per-category
// spend and status.
func HandleGetBudgets(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}
	month := monthOrCurrent(c.Query("month"))

	report, err := db.BudgetReportForMonth(userID, month)
	if err != nil {
		logger.Get().Error("Failed to build budget report",
			zap.Int64("user_id", userID), zap.String("month", month), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load budgets"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleSaveBudget creates or replaces a category budget for a month.
// Serves both POST and PUT since the write is an upsert.
func HandleSaveBudget(c *gin.Context) {
	var req models.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}
	month := monthOrCurrent(req.Month)

	categoryID, err := db.GetOrCreateCategory(req.UserID, req.Category, "expense")
	if err != nil {
		logger.Get().Error("Failed to resolve category",
			zap.String("category", req.Category), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save budget"})
		return
	}

	budgetID, err := db.SaveBudget(req.UserID, categoryID, req.Amount, month)
	if err != nil {
		logger.Get().Error("Failed to save budget",
			zap.Int64("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save budget"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       budgetID,
		"category": req.Category,
		"amount":   req.Amount,
		"month":    month,
	})
}

// HandleDeleteBudget removes the budget for a category and month.
func HandleDeleteBudget(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}
	category := c.Param("category")
	month := monthOrCurrent(c.Query("month"))

	categoryID, err := db.GetOrCreateCategory(userID, category, "expense")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete budget"})
		return
	}

	deleted, err := db.DeleteBudget(userID, categoryID, month)
	if err != nil {
		logger.Get().Error("Failed to delete budget",
			zap.Int64("user_id", userID), zap.String("category", category), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete budget"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "no budget for that category and month"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "category": category, "month": month})
}
