package handler

import (
	"net/http"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/apierror"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/dto"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CropsHandler struct{ svc service.CropService }

func NewCropsHandler(svc service.CropService) *CropsHandler {
	return &CropsHandler{svc: svc}
}

// ── Parcels ───────────────────────────────────────────────────────────────────

func (h *CropsHandler) CreateParcel(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req dto.CreateParcelRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateParcel(c.Request.Context(), owner, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CropsHandler) ListParcels(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListParcels(c.Request.Context(), owner)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *CropsHandler) UpdateParcel(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateParcelRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateParcel(c.Request.Context(), owner, id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CropsHandler) DeleteParcel(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteParcel(c.Request.Context(), owner, id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Crops ─────────────────────────────────────────────────────────────────────

func (h *CropsHandler) CreateCrop(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req dto.CreateCropRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCrop(c.Request.Context(), owner, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CropsHandler) GetCrop(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetCrop(c.Request.Context(), owner, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CropsHandler) ListCrops(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var filter dto.CropFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListCrops(c.Request.Context(), owner, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CropsHandler) UpdateCropStatus(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCropStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateCropStatus(c.Request.Context(), owner, id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
