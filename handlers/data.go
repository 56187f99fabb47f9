package handlers

import (
	"net/http"
	"time"

	"financial-guardian/api/db"
	"financial-guardian/api/logger"
	"financial-guardian/api/models"
	"financial-guardian/api/setu"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// freshnessWindow is how long synced data counts as fresh.
const freshnessWindow = 24 * time.Hour

// HandleSyncSetu ingests a raw Setu FI data payload: parses the deposit
// transactions, categorizes them, and stores them idempotently.
func HandleSyncSetu(c *gin.Context) {
	var req models.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := db.GetOrCreateUser(req.PhoneNumber)
	if err != nil {
		logger.Get().Error("Failed to resolve user for sync",
			zap.String("phone_number", req.PhoneNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
		return
	}

	txns, err := setu.Parse(req.RawData)
	if err != nil {
		logger.Get().Error("Failed to parse Setu payload",
			zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid Setu payload: " + err.Error()})
		return
	}

	stored, err := db.StoreTransactions(userID, txns)
	if err != nil {
		logger.Get().Error("Failed to store synced transactions",
			zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store transactions"})
		return
	}

	if err := db.StoreRawFinancialData(userID, req.RawData); err != nil {
		logger.Get().Warn("Failed to archive raw financial data",
			zap.Int64("user_id", userID), zap.Error(err))
	}
	if err := db.TouchUser(userID); err != nil {
		logger.Get().Warn("Failed to update sync timestamp",
			zap.Int64("user_id", userID), zap.Error(err))
	}

	logger.Get().Info("Setu sync complete",
		zap.Int64("user_id", userID),
		zap.Int("parsed", len(txns)),
		zap.Int("stored", stored))

	c.JSON(http.StatusOK, gin.H{
		"user_id":             userID,
		"transactions_parsed": len(txns),
		"transactions_stored": stored,
	})
}

// HandleDataFreshness reports whether the user's synced data is recent
// enough to skip a new fetch.
func HandleDataFreshness(c *gin.Context) {
	var req models.FreshnessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := db.GetUserID(req.PhoneNumber)
	if err != nil {
		logger.Get().Error("Failed to look up user for freshness check",
			zap.String("phone_number", req.PhoneNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check freshness"})
		return
	}
	if userID == 0 {
		c.JSON(http.StatusOK, models.FreshnessResponse{
			IsFresh: false,
			Message: "user has never synced",
		})
		return
	}

	lastSync, err := db.LastSynced(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check freshness"})
		return
	}

	c.JSON(http.StatusOK, models.FreshnessResponse{
		IsFresh:  !lastSync.IsZero() && time.Since(lastSync) < freshnessWindow,
		LastSync: lastSync.Format(time.RFC3339),
	})
}
