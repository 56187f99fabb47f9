package handlers

import (
	"net/http"

	"financial-guardian/api/db"
	"financial-guardian/api/qdrant"

	"github.com/gin-gonic/gin"
)

// HandleRoot identifies the service.
func HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "Financial Guardian API",
		"status":  "running",
	})
}

// HandleHealth reports per-component status. Qdrant and the LLM being down
// degrade the service rather than fail it, so the endpoint stays 200 as
// long as the database answers.
func HandleHealth(c *gin.Context) {
	components := gin.H{}
	healthy := true

	if err := db.Ping(); err != nil {
		components["database"] = "down"
		healthy = false
	} else {
		components["database"] = "ok"
	}

	if qdrant.Available() {
		components["qdrant"] = "ok"
	} else {
		components["qdrant"] = "unavailable"
	}

	type availabler interface{ Available() bool }
	if c2, ok := LLMClient.(availabler); ok && c2.Available() {
		components["llm"] = "ok"
	} else {
		components["llm"] = "unconfigured"
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}
	c.JSON(status, gin.H{"status": overall, "components": components})
}
