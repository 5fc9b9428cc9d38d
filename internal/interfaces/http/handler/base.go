package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/interfaces/http/dto"
	"github.com/oms/backend/internal/interfaces/http/middleware"
)

// defaultTenantID serves requests that carry neither a token nor an
// X-Tenant-ID header, so a bare development setup works out of the box.
var defaultTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// BaseHandler carries the response helpers every resource handler embeds.
type BaseHandler struct{}

// getRequestID reads the id stamped by the RequestID middleware, falling
// back to the wire header when the middleware did not run.
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// getTenantID resolves the tenant scope: verified token claims first, the
// X-Tenant-ID header second, the development tenant last.
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	tenantIDStr := middleware.AuthTenantID(c)
	if tenantIDStr == "" {
		tenantIDStr = c.GetHeader("X-Tenant-ID")
	}
	if tenantIDStr == "" {
		return defaultTenantID, nil
	}
	return uuid.Parse(tenantIDStr)
}

// getActor resolves who performs a mutation, for history and audit rows.
// Falls back to an explicit header when the request is anonymous.
func getActor(c *gin.Context) string {
	if operator := middleware.AuthOperator(c); operator != "" {
		return operator
	}
	return c.GetHeader("X-Actor")
}

// Success answers 200 with data in the standard envelope.
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta answers 200 with a page of data and its pagination block.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created answers 201 with the newly created resource.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent answers 204.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest answers 400 for malformed input the binding layer let through.
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, message, getRequestID(c)))
}

// HandleDomainError maps a domain error onto its HTTP status and canonical
// code. Anything that is not a DomainError answers 500 without leaking the
// underlying message.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code),
			dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}

// HandleError is the nil-tolerant form of HandleDomainError.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	h.HandleDomainError(c, err)
}
