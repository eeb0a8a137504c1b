package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mediashelf/mediashelf-backend/internal/services"
	"github.com/mediashelf/mediashelf-backend/internal/utils"
)

type LikeHandler struct {
	likeService *services.LikeService
}

func NewLikeHandler(likeService *services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

func (h *LikeHandler) LikeReview(c *gin.Context) {
	result, err := h.likeService.LikeReview(c.Request.Context(), callerID(c), c.Param("review_id"))
	if err != nil {
		sendServiceError(c, "Failed to like review", err)
		return
	}

	utils.SendSuccess(c, "Review liked successfully", result)
}

func (h *LikeHandler) UnlikeReview(c *gin.Context) {
	result, err := h.likeService.UnlikeReview(c.Request.Context(), callerID(c), c.Param("review_id"))
	if err != nil {
		sendServiceError(c, "Failed to unlike review", err)
		return
	}

	utils.SendSuccess(c, "Review unliked successfully", result)
}
