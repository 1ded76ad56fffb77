package monitor

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"statuspage-cron/models"
	v1 "statuspage-cron/services/v1"

	"github.com/gin-gonic/gin"
)

// Runner runs monitoring passes on demand.
type Runner interface {
	RunCycle(ctx context.Context) ([]models.ReportEntry, error)
	RunDailySummary(ctx context.Context) (models.DailySummary, error)
}

type IncidentLister interface {
	Snapshot() map[string]string
}

type HistoryReader interface {
	History(ctx context.Context, name string, limit int) ([]models.CheckRecord, error)
}

type Handler struct {
	runner    Runner
	incidents IncidentLister
	history   HistoryReader
}

// NewHandler wires the routes. history may be nil when Redis is not configured.
func NewHandler(runner Runner, incidents IncidentLister, history HistoryReader) *Handler {
	return &Handler{runner: runner, incidents: incidents, history: history}
}

// RunCycle only uses the request context to wait for a running pass; once
// started, the cycle completes even if the caller hangs up.
func (h *Handler) RunCycle(c *gin.Context) {
	results, err := h.runner.RunCycle(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  http.StatusServiceUnavailable,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "monitored",
		"results": results,
	})
}

func (h *Handler) RunDailySummary(c *gin.Context) {
	summary, err := h.runner.RunDailySummary(c.Request.Context())

	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"status":  http.StatusOK,
			"message": "all systems operational",
			"summary": summary,
		})
	case errors.Is(err, v1.ErrNotStarted):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  http.StatusServiceUnavailable,
			"message": err.Error(),
		})
	case errors.Is(err, v1.ErrNotAllOperational):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  http.StatusServiceUnavailable,
			"message": "not all systems are operational",
			"summary": summary,
		})
	default:
		c.JSON(http.StatusBadGateway, gin.H{
			"status":  http.StatusBadGateway,
			"message": err.Error(),
			"summary": summary,
		})
	}
}

func (h *Handler) ListIncidents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    http.StatusOK,
		"incidents": h.incidents.Snapshot(),
	})
}

func (h *Handler) GetHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  http.StatusNotFound,
			"message": "check history is disabled",
		})
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  http.StatusBadRequest,
				"message": "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	records, err := h.history.History(c.Request.Context(), c.Param("service"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  http.StatusInternalServerError,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"service": c.Param("service"),
		"history": records,
	})
}
