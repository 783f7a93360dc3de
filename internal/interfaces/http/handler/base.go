package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldline/backend/internal/domain/ledger"
	"github.com/fieldline/backend/internal/domain/sales"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// HandleError maps service errors onto the response envelope
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	var validationErr *sales.ValidationError
	if errors.As(err, &validationErr) {
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeValidation, validationErr.Message)
		return
	}

	var storageErr *ledger.StorageError
	if errors.As(err, &storageErr) {
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "storage operation failed")
		return
	}

	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "internal server error")
}
