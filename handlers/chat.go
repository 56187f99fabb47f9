package handlers

import (
	"context"
	"net/http"
	"time"

	"financial-guardian/api/agents"
	"financial-guardian/api/db"
	"financial-guardian/api/llm"
	"financial-guardian/api/logger"
	"financial-guardian/api/models"
	"financial-guardian/api/sse"
	"financial-guardian/api/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleChatMessage runs the full supervisor pipeline synchronously and
// returns the final answer in one response.
func HandleChatMessage(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := resolveUser(req.UserID, req.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	ctx := c.Request.Context()

	lang, english, err := llm.DetectAndTranslate(ctx, LLMClient, req.Message)
	if err != nil {
		logger.Get().Warn("Language detection failed, assuming English",
			zap.Error(err))
		lang, english = "en", req.Message
	}

	conversation, err := db.GetOrCreateConversation(userID, sessionID)
	if err != nil {
		logger.Get().Error("Failed to load conversation",
			zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
		return
	}
	history := conversationHistory(conversation.ID)
	if err := db.AppendMessage(conversation.ID, "user", req.Message); err != nil {
		logger.Get().Error("Failed to persist user message", zap.Error(err))
	}

	result, err := Assistant.Process(ctx, userID, english, history, nil)
	if err != nil {
		logger.Get().Error("Supervisor failed",
			zap.Int64("user_id", userID), zap.Error(err))
		// Chat failures surface as success=false, not a 500.
		c.JSON(http.StatusOK, models.ChatResponse{
			Success: false,
			Error:   "I ran into a problem answering that. Please try again.",
		})
		return
	}

	response := result.Response
	if lang != "en" {
		translated, err := llm.TranslateResponse(ctx, LLMClient, response, lang)
		if err != nil {
			logger.Get().Warn("Response translation failed, replying in English",
				zap.String("language", lang), zap.Error(err))
		} else {
			response = translated
		}
	}

	if err := db.AppendMessage(conversation.ID, "assistant", response); err != nil {
		logger.Get().Error("Failed to persist assistant message", zap.Error(err))
	}

	c.JSON(http.StatusOK, models.ChatResponse{
		Response:   response,
		AgentsUsed: result.AgentsUsed,
		Data:       collectAgentData(result),
		UIActions:  uiActionsFor(result),
		Success:    true,
	})
}

// HandleChatStream enqueues the query on the worker pool and returns the
// session ID the client should open an SSE connection for.
func HandleChatStream(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := resolveUser(req.UserID, req.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	ChatPool.Submit(worker.ChatJob{
		SessionID: sessionID,
		UserID:    userID,
		Query:     req.Message,
	})

	c.JSON(http.StatusAccepted, gin.H{"session_id": sessionID})
}

// ProcessChatJob is the worker pool's job body: it runs the supervisor and
// streams progress plus the final answer over the session's SSE channel.
func ProcessChatJob(ctx context.Context, job worker.ChatJob) {
	send := func(eventType, agent, message string, agentsUsed []string, last bool) {
		sse.SendEvent(models.StreamEvent{
			SessionID: job.SessionID,
			Type:      eventType,
			Agent:     agent,
			Message:   message,
			Agents:    agentsUsed,
			Last:      last,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	lang, english, err := llm.DetectAndTranslate(ctx, LLMClient, job.Query)
	if err != nil {
		lang, english = "en", job.Query
	}

	conversation, err := db.GetOrCreateConversation(job.UserID, job.SessionID)
	if err != nil {
		logger.Get().Error("Failed to load conversation for chat job",
			zap.String("session_id", job.SessionID), zap.Error(err))
		send(models.StreamEventError, "", "Something went wrong. Please try again.", nil, true)
		return
	}
	history := conversationHistory(conversation.ID)
	if err := db.AppendMessage(conversation.ID, "user", job.Query); err != nil {
		logger.Get().Error("Failed to persist user message", zap.Error(err))
	}

	progress := func(event, agent string) {
		send(event, agent, "", nil, false)
	}

	result, err := Assistant.Process(ctx, job.UserID, english, history, progress)
	if err != nil {
		logger.Get().Error("Supervisor failed for chat job",
			zap.String("session_id", job.SessionID), zap.Error(err))
		send(models.StreamEventError, "", "I ran into a problem answering that. Please try again.", nil, true)
		return
	}

	response := result.Response
	if lang != "en" {
		if translated, err := llm.TranslateResponse(ctx, LLMClient, response, lang); err == nil {
			response = translated
		}
	}

	if err := db.AppendMessage(conversation.ID, "assistant", response); err != nil {
		logger.Get().Error("Failed to persist assistant message", zap.Error(err))
	}

	send(models.StreamEventResponse, "", response, result.AgentsUsed, true)
}

// historyWindow caps how many prior turns are replayed to the agents.
const historyWindow = 10

func conversationHistory(conversationID int64) []llm.Message {
	msgs, err := db.GetMessages(conversationID, historyWindow)
	if err != nil {
		logger.Get().Warn("Failed to load conversation history",
			zap.Int64("conversation_id", conversationID), zap.Error(err))
		return nil
	}
	history := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}
	return history
}

func resolveUser(userID int64, phoneNumber string) (int64, error) {
	if userID > 0 {
		exists, err := db.UserExists(userID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, errUnknownUser
		}
		return userID, nil
	}
	if phoneNumber != "" {
		return db.GetOrCreateUser(phoneNumber)
	}
	return 0, errNoUserIdentity
}

// uiActionsFor maps mutating tool calls to the frontend views they stale.
func uiActionsFor(result *agents.Result) []models.UIAction {
	targets := map[string]string{
		"set_budget":          "budgets",
		"remove_budget":       "budgets",
		"create_savings_goal": "goals",
		"add_to_goal":         "goals",
		"remove_goal":         "goals",
		"add_expense":         "transactions",
		"add_income":          "transactions",
	}

	seen := map[string]bool{}
	var actions []models.UIAction
	for _, out := range result.Outputs {
		for _, call := range out.ToolCalls {
			target, ok := targets[call]
			if !ok || seen[target] {
				continue
			}
			seen[target] = true
			actions = append(actions, models.UIAction{Type: "refresh", Target: target})
		}
	}
	return actions
}

func collectAgentData(result *agents.Result) map[string]any {
	data := map[string]any{}
	for name, out := range result.Outputs {
		if out.Data != nil {
			data[name] = out.Data
		}
	}
	if len(data) == 0 {
		return nil
	}
	return data
}
