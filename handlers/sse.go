package handlers

import (
	"io"
	"net/http"

	"financial-guardian/api/logger"
	"financial-guardian/api/sse"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleSSE streams agent progress events for a session until the final
// response (or an error) arrives.
func HandleSSE(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionID is required"})
		return
	}

	stream := sse.Register(sessionID)
	logger.Get().Info("SSE connection established",
		zap.String("session_id", sessionID))

	defer func() {
		sse.Unregister(sessionID)
		logger.Get().Info("SSE connection closed",
			zap.String("session_id", sessionID))
	}()

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.String(http.StatusInternalServerError, "Streaming unsupported!")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-stream.Messages:
			if !ok {
				return false
			}
			c.Writer.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()
			return msg != "[DONE]"
		case <-c.Request.Context().Done():
			return false
		case <-stream.Done:
			return false
		}
	})
}
