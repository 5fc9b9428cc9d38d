package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/oms/backend/internal/application/trade"
	"github.com/oms/backend/internal/domain/trade"
)

// StatusHandler handles order status catalog API endpoints
type StatusHandler struct {
	BaseHandler
	statusService *tradeapp.StatusService
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(statusService *tradeapp.StatusService) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
	}
}

// UpdateStatusDisplayRequest represents a status display update request
// @Description Request body for updating a status's display name and color
type UpdateStatusDisplayRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100" example:"In Kitchen"`
	Color string `json:"color" binding:"max=16" example:"#8e44ad"`
}

// List godoc
// @Summary      List the status catalog
// @Description  Retrieve the tenant's order status catalog in lifecycle order
// @Tags         statuses
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Success      200 {object} dto.Response{data=[]trade.StatusResponse}
// @Security     BearerAuth
// @Router       /statuses [get]
func (h *StatusHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	statuses, err := h.statusService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statuses)
}

// UpdateDisplay godoc
// @Summary      Update status display
// @Description  Change a status's display name and color. The code set and transitions are fixed.
// @Tags         statuses
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        code path string true "Status code" example:"PREPARING"
// @Param        request body UpdateStatusDisplayRequest true "Display update request"
// @Success      200 {object} dto.Response{data=trade.StatusResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /statuses/{code} [patch]
func (h *StatusHandler) UpdateDisplay(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req UpdateStatusDisplayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	status, err := h.statusService.UpdateDisplay(c.Request.Context(), tenantID, trade.OrderStatusCode(c.Param("code")), tradeapp.UpdateStatusDisplayRequest{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, status)
}

// RegisterRoutes registers status catalog routes
func (h *StatusHandler) RegisterRoutes(rg *gin.RouterGroup) {
	statuses := rg.Group("/statuses")
	{
		statuses.GET("", h.List)
		statuses.PATCH("/:code", h.UpdateDisplay)
	}
}
