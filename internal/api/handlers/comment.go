package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mediashelf/mediashelf-backend/internal/services"
	"github.com/mediashelf/mediashelf-backend/internal/utils"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindError(c, err)
		return
	}

	result, err := h.commentService.AddComment(c.Request.Context(), callerID(c), req)
	if err != nil {
		sendServiceError(c, "Failed to add comment", err)
		return
	}

	utils.SendCreated(c, "Comment added successfully", result)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	result, err := h.commentService.DeleteComment(c.Request.Context(), c.Param("comment_id"), callerID(c))
	if err != nil {
		sendServiceError(c, "Failed to delete comment", err)
		return
	}

	utils.SendSuccess(c, "Comment deleted successfully", result)
}
