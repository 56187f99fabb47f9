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

// defaultTxnLimit caps listings when the client does not pass one.
const defaultTxnLimit = 50

// HandleGetTransactions lists transactions, newest first, with optional
// start_date / end_date / limit query filters.
func HandleGetTransactions(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	filter := db.TxnFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Limit:     defaultTxnLimit,
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		filter.Limit = limit
	}

	txns, err := db.GetUserTransactions(userID, filter)
	if err != nil {
		logger.Get().Error("Failed to load transactions",
			zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns, "count": len(txns)})
}

// HandleAddManualTransaction records a user-entered expense or income.
func HandleAddManualTransaction(c *gin.Context) {
	var req models.ManualTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	txnType := c.DefaultQuery("type", models.TxnTypeDebit)
	if txnType != models.TxnTypeDebit && txnType != models.TxnTypeCredit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be DEBIT or CREDIT"})
		return
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	txnID, err := db.AddManualTransaction(req.UserID, req.Amount, req.Category, txnType, date, req.Narration)
	if err != nil {
		logger.Get().Error("Failed to add manual transaction",
			zap.Int64("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       txnID,
		"amount":   req.Amount,
		"category": req.Category,
		"type":     txnType,
		"date":     date,
	})
}

// HandleGetManualTransactions lists only user-entered transactions.
func HandleGetManualTransactions(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	txns, err := db.GetUserTransactions(userID, db.TxnFilter{})
	if err != nil {
		logger.Get().Error("Failed to load transactions",
			zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}

	manual := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Source == models.SourceManual {
			manual = append(manual, t)
		}
	}
	c.JSON(http.StatusOK, gin.H{"transactions": manual, "count": len(manual)})
}
