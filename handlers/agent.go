package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"financial-guardian/api/analytics"
	"financial-guardian/api/db"
	"financial-guardian/api/logger"
	"financial-guardian/api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// insightTTL is how long cached analysis results stay valid.
const insightTTL = time.Hour

// HandleAnalyze runs one analytics routine directly, bypassing the chat
// pipeline. Results are cached per user and analysis type.
func HandleAnalyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysisType := req.AnalysisType
	switch analysisType {
	case "":
		analysisType = "spending_patterns"
	case "cash_flow_forecast":
		analysisType = "forecast"
	}
	days := req.Days
	if days <= 0 {
		days = 30
	}

	if cached, err := db.GetCachedInsight(req.UserID, analysisType); err == nil && cached != nil {
		c.JSON(http.StatusOK, gin.H{
			"analysis_type": analysisType,
			"cached":        true,
			"result":        json.RawMessage(cached),
		})
		return
	}

	var result any
	var err error
	switch analysisType {
	case "spending_patterns":
		result, err = analytics.AnalyzeSpendingPatterns(req.UserID, days, "")
	case "anomalies":
		result, err = analytics.DetectAnomalies(req.UserID, days)
	case "forecast":
		result, err = analytics.ForecastCashFlow(req.UserID, days)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "analysis_type must be one of spending_patterns, anomalies, forecast",
		})
		return
	}
	if err != nil {
		logger.Get().Error("Analysis failed",
			zap.Int64("user_id", req.UserID),
			zap.String("analysis_type", analysisType),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}

	if err := db.SaveInsight(req.UserID, analysisType, result, insightTTL); err != nil {
		logger.Get().Warn("Failed to cache insight",
			zap.Int64("user_id", req.UserID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis_type": analysisType,
		"cached":        false,
		"result":        result,
	})
}
