package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// GetHealth is the liveness endpoint of this process, not of the monitored services.
func GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "ok",
		"uptime":  time.Since(startedAt).Round(time.Second).String(),
	})
}
