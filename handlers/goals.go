package handlers

import (
	"net/http"
	"strconv"

	"financial-guardian/api/db"
	"financial-guardian/api/logger"
	"financial-guardian/api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func paramGoalID(c *gin.Context) (int64, bool) {
	goalID, err := strconv.ParseInt(c.Param("goalID"), 10, 64)
	if err != nil || goalID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal ID"})
		return 0, false
	}
	return goalID, true
}

// HandleGetGoals returns every goal with progress status.
func HandleGetGoals(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	goals, err := db.GoalsStatus(userID)
	if err != nil {
		logger.Get().Error("Failed to load goals",
			zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load goals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals, "count": len(goals)})
}

func HandleCreateGoal(c *gin.Context) {
	var req models.GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TargetAmount.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_amount must be positive"})
		return
	}

	goalID, err := db.SaveGoal(req.UserID, req.Name, req.TargetAmount, req.TargetDate)
	if err != nil {
		logger.Get().Error("Failed to create goal",
			zap.Int64("user_id", req.UserID), zap.String("name", req.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create goal"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":            goalID,
		"name":          req.Name,
		"target_amount": req.TargetAmount,
		"target_date":   req.TargetDate,
	})
}

// HandleUpdateGoal adds saved money to a goal.
func HandleUpdateGoal(c *gin.Context) {
	goalID, ok := paramGoalID(c)
	if !ok {
		return
	}

	var req models.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AmountToAdd.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_to_add must be positive"})
		return
	}

	updated, err := db.AddGoalProgress(req.UserID, goalID, req.AmountToAdd)
	if err != nil {
		logger.Get().Error("Failed to update goal",
			zap.Int64("goal_id", goalID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update goal"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
		return
	}

	goal, err := db.GetGoal(req.UserID, goalID)
	if err != nil || goal == nil {
		c.JSON(http.StatusOK, gin.H{"updated": true})
		return
	}
	c.JSON(http.StatusOK, goal)
}

func HandleDeleteGoal(c *gin.Context) {
	goalID, ok := paramGoalID(c)
	if !ok {
		return
	}
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	deleted, err := db.DeleteGoal(userID, goalID)
	if err != nil {
		logger.Get().Error("Failed to delete goal",
			zap.Int64("goal_id", goalID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete goal"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "id": goalID})
}
