package handlers

import (
	"net/http"

	"tasklist/backend/internal/worker"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes maintenance operations. Recompute requests go
// through the maintenance queue so invocations are serialized; the queue's
// single consumer runs them one at a time.
type AdminHandler struct {
	queue *worker.JobQueue
}

func NewAdminHandler(queue *worker.JobQueue) *AdminHandler {
	return &AdminHandler{queue: queue}
}

func (h *AdminHandler) TriggerRecompute(c *gin.Context) {
	if err := h.queue.Enqueue(worker.JobTypeMetricsRecompute, nil); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue recompute"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "metrics recompute scheduled"})
}
