package handler

import (
	"net/http"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/apierror"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AdminHandler exposes operational endpoints (dead-letter queue maintenance).
type AdminHandler struct {
	rdb *redis.Client
}

func NewAdminHandler(rdb *redis.Client) *AdminHandler {
	return &AdminHandler{rdb: rdb}
}

var requeueableQueues = map[string]string{
	"alerts":   worker.QueueAlerts,
	"receipts": worker.QueueReceipts,
}

// RequeueDLQ moves every dead-lettered job for the named queue back onto its
// live list so the worker pool picks them up again.
func (h *AdminHandler) RequeueDLQ(c *gin.Context) {
	target, ok := requeueableQueues[c.Param("queue")]
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{
			"queue": "must be one of: alerts, receipts",
		}))
		return
	}

	moved, err := worker.RequeueDLQ(c.Request.Context(), h.rdb, target)
	if err != nil {
		log.Error().Err(err).Str("queue", target).Msg("dlq requeue failed")
		c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"queue": target, "requeued": moved})
}
