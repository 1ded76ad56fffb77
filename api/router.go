package api

import (
	"net/http"
	"time"

	"statuspage-cron/api/v1/health"
	"statuspage-cron/api/v1/monitor"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewServer builds the HTTP server exposing the trigger and status routes.
func NewServer(port string, h *monitor.Handler) *http.Server {
	r := gin.Default()

	// open CORS so dashboards can read /incidents and /history
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	SetupRoutes(r, h)

	return &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func SetupRoutes(r *gin.Engine, h *monitor.Handler) {
	// external cron pingers hit /cron directly
	r.GET("/cron", h.RunCycle)
	r.GET("/health", health.GetHealth)

	v1 := r.Group("/api/v1")
	{
		healthApi := v1.Group("/health")
		{
			healthApi.GET("", health.GetHealth)
		}

		v1.GET("/cron", h.RunCycle)
		v1.POST("/cron", h.RunCycle)
		v1.GET("/daily", h.RunDailySummary)
		v1.POST("/daily", h.RunDailySummary)
		v1.GET("/incidents", h.ListIncidents)
		v1.GET("/history/:service", h.GetHistory)
	}
}
