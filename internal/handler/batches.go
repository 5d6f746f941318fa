package handler

import (
	"net/http"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/apierror"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type BatchesHandler struct{ svc service.BatchService }

func NewBatchesHandler(svc service.BatchService) *BatchesHandler {
	return &BatchesHandler{svc: svc}
}

func (h *BatchesHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req dto.CreateBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateBatch(c.Request.Context(), owner, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BatchesHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetBatch(c.Request.Context(), owner, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchesHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var filter dto.BatchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListBatches(c.Request.Context(), owner, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchesHandler) Close(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.CloseBatch(c.Request.Context(), owner, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Daily logs ────────────────────────────────────────────────────────────────

func (h *BatchesHandler) RecordLog(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	batchID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RecordDailyLogRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordDailyLog(c.Request.Context(), owner, batchID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BatchesHandler) AmendLog(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	logID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AmendDailyLogRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AmendDailyLog(c.Request.Context(), owner, logID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchesHandler) ListLogs(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	batchID, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListDailyLogs(c.Request.Context(), owner, batchID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
