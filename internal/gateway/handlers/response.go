package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/gateway/middleware"
	"syntra-bizops/internal/tenant"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

// --- Helper for mapping service errors ---
func handleServiceError(c *gin.Context, err error) {
	resp := errorResponse(apperr.Message(err))
	if code := apperr.CodeOf(err); code != "" {
		resp.Error = strings.ToUpper(code)
	} else {
		resp.Error = strings.ToUpper(apperr.KindOf(err).String())
	}

	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		c.JSON(http.StatusBadRequest, resp)
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, resp)
	case apperr.KindForbidden:
		c.JSON(http.StatusForbidden, resp)
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, resp)
	case apperr.KindInsufficientStock:
		c.JSON(http.StatusUnprocessableEntity, resp)
	case apperr.KindSalaryNotSet:
		c.JSON(http.StatusPreconditionFailed, resp)
	default:
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// caller returns the authenticated identity or writes a 401.
func caller(c *gin.Context) (tenant.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Authentication required"))
		return tenant.Identity{}, false
	}
	return id, true
}

func parseID(c *gin.Context, param, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid "+label+" ID"))
		return 0, false
	}
	return uint(id), true
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

type PeriodQuery struct {
	Year  int `form:"year" binding:"required,min=1"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

type listMeta struct {
	Count int `json:"count"`
}
