package utils

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SendError(c *gin.Context, statusCode int, message string, err error) {
	response := APIResponse{
		Success: false,
		Message: message,
	}

	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(statusCode, response)
}

// StatusForKind maps an error kind name to its HTTP status.
func StatusForKind(kind string) int {
	switch {
	case kind == "validation", kind == "self_reference":
		return http.StatusBadRequest
	case kind == "not_found":
		return http.StatusNotFound
	case kind == "forbidden":
		return http.StatusForbidden
	case strings.HasPrefix(kind, "already_"), strings.HasPrefix(kind, "not_"):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// SendServiceError writes a domain error. Internal failures are reported
// without their cause.
func SendServiceError(c *gin.Context, message, kind string, err error) {
	status := StatusForKind(kind)
	response := APIResponse{
		Success: false,
		Message: message,
		Kind:    kind,
	}
	if status == http.StatusInternalServerError {
		response.Error = "internal error"
		if err != nil {
			_ = c.Error(err)
		}
	} else if err != nil {
		response.Error = err.Error()
	}
	c.JSON(status, response)
}

// SendBindError reports a request body or query that failed to bind.
func SendBindError(c *gin.Context, err error) {
	var msg string
	if err != nil {
		msg = err.Error()
	}
	c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Message: "Invalid request data",
		Error:   msg,
		Kind:    "validation",
	})
}

func SendUnauthorized(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, message, nil)
}

func SendForbidden(c *gin.Context, message string) {
	SendError(c, http.StatusForbidden, message, nil)
}
