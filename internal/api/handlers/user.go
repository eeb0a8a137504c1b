package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mediashelf/mediashelf-backend/internal/services"
	"github.com/mediashelf/mediashelf-backend/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) UpdateName(c *gin.Context) {
	var req services.UpdateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindError(c, err)
		return
	}

	user, err := h.userService.UpdateName(c.Request.Context(), callerID(c), req.Name)
	if err != nil {
		sendServiceError(c, "Failed to update name", err)
		return
	}

	utils.SendSuccess(c, "Name updated successfully", user)
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	result, err := h.userService.DeleteUser(c.Request.Context(), callerID(c))
	if err != nil {
		sendServiceError(c, "Failed to delete account", err)
		return
	}

	utils.SendSuccess(c, "Account deleted successfully", result)
}
