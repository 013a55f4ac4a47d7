package handlers

import (
	"log"
	"net/http"
	"strconv"

	"tasklist/backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsHandler serves the aggregate productivity reads. Every endpoint is
// parameterized by the requesting user; counters that were never written
// read as zero.
type MetricsHandler struct {
	reader *metrics.Reader
}

func NewMetricsHandler(reader *metrics.Reader) *MetricsHandler {
	return &MetricsHandler{reader: reader}
}

func (h *MetricsHandler) StatusBreakdown(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}
	breakdown, err := h.reader.StatusBreakdown(requester.String())
	if err != nil {
		counterReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

func (h *MetricsHandler) CreatedToday(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}
	count, err := h.reader.CreatedToday(requester.String())
	if err != nil {
		counterReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created_today": count})
}

func (h *MetricsHandler) TopTags(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	tags, err := h.reader.TopTags(requester.String(), limit)
	if err != nil {
		counterReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *MetricsHandler) CompletedByDay(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
		return
	}
	series, err := h.reader.CompletedByDay(requester.String(), days)
	if err != nil {
		counterReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

func (h *MetricsHandler) AverageCompletionTime(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}
	average, err := h.reader.AverageCompletionTime(requester.String())
	if err != nil {
		counterReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, average)
}

func (h *MetricsHandler) WeeklyCompletionRate(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}
	rate, err := h.reader.WeeklyCompletionRate(requester.String())
	if err != nil {
		counterReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

func counterReadError(c *gin.Context, err error) {
	log.Printf("metrics read failed: %v", err)
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics temporarily unavailable"})
}
