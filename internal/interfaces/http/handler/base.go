package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context, falling back to the header
func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// File sends an attachment download
func (h *BaseHandler) File(c *gin.Context, name, contentType string, content []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, content)
}

// Error sends an error response, deriving status code from error code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(
		dto.GetHTTPStatus(dto.NormalizeErrorCode(code)),
		dto.NewErrorResponse(code, message, getRequestID(c)),
	)
}

// ValidationError sends a 400 validation error response with "path - message" entries
func (h *BaseHandler) ValidationError(c *gin.Context, errors ...string) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		errors,
	))
}

// HandleError converts domain errors to HTTP responses. Anything else is
// answered as an internal error without exposing its text.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	log := logger.GetGinLogger(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		log.Debug("Request rejected", zap.String("code", domainErr.Code), zap.Error(err))
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}
	log.Error("Unhandled handler error", zap.Error(err))
	h.Error(c, dto.ErrCodeInternal, shared.ErrInternal.Message)
}

// BindJSON binds the request body, answering 400 on failure
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// BindQuery binds query parameters, answering 400 on failure
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// ParamID parses a positive integer path parameter, answering 400 on failure
func (h *BaseHandler) ParamID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 || id > uint64(^uint(0)) {
		h.ValidationError(c, name+" - Must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
