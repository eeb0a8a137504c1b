package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mediashelf/mediashelf-backend/internal/models"
	"github.com/mediashelf/mediashelf-backend/internal/services"
	"github.com/mediashelf/mediashelf-backend/internal/utils"
)

type MediaHandler struct {
	mediaService *services.MediaService
}

func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

func (h *MediaHandler) ListMedia(c *gin.Context) {
	var filter services.MediaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.SendBindError(c, err)
		return
	}

	page, err := h.mediaService.ListMedia(c.Request.Context(), filter)
	if err != nil {
		sendServiceError(c, "Failed to retrieve media", err)
		return
	}

	utils.SendSuccess(c, "Media retrieved successfully", page)
}

func (h *MediaHandler) GetMedia(c *gin.Context) {
	media, err := h.mediaService.GetMedia(c.Request.Context(), c.Param("media_id"))
	if err != nil {
		sendServiceError(c, "Failed to retrieve media", err)
		return
	}

	utils.SendSuccess(c, "Media retrieved successfully", media)
}

func (h *MediaHandler) CreateMedia(c *gin.Context) {
	var req models.CreateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindError(c, err)
		return
	}

	media, err := h.mediaService.CreateMedia(c.Request.Context(), &req)
	if err != nil {
		sendServiceError(c, "Failed to create media", err)
		return
	}

	utils.SendCreated(c, "Media created successfully", media)
}

func (h *MediaHandler) UpdateMedia(c *gin.Context) {
	var req models.UpdateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindError(c, err)
		return
	}

	media, err := h.mediaService.UpdateMedia(c.Request.Context(), c.Param("media_id"), &req)
	if err != nil {
		sendServiceError(c, "Failed to update media", err)
		return
	}

	utils.SendSuccess(c, "Media updated successfully", media)
}

func (h *MediaHandler) RecomputeMedia(c *gin.Context) {
	agg, err := h.mediaService.RecomputeMedia(c.Request.Context(), c.Param("media_id"))
	if err != nil {
		sendServiceError(c, "Failed to recompute media", err)
		return
	}

	utils.SendSuccess(c, "Media aggregate recomputed successfully", agg)
}
