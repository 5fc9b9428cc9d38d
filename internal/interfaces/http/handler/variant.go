package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/oms/backend/internal/application/catalog"
)

// VariantHandler handles variant stock API endpoints
type VariantHandler struct {
	BaseHandler
	variantService *catalogapp.VariantService
}

// NewVariantHandler creates a new VariantHandler
func NewVariantHandler(variantService *catalogapp.VariantService) *VariantHandler {
	return &VariantHandler{
		variantService: variantService,
	}
}

// RegisterVariantRequest represents a request to register a new variant
// @Description Request body for registering a variant. Stock starts at zero, cost unset.
type RegisterVariantRequest struct {
	SKU               string `json:"sku" binding:"required,min=1,max=100" example:"TSHIRT-M-BLUE"`
	Name              string `json:"name" binding:"required,min=1,max=200" example:"T-Shirt M Blue"`
	LowStockThreshold int64  `json:"low_stock_threshold" binding:"gte=0" example:"5"`
}

// UpdateVariantRequest represents a request to update variant identity fields
// @Description Request body for updating a variant. Omitted fields are left unchanged.
type UpdateVariantRequest struct {
	Name              *string `json:"name"`
	LowStockThreshold *int64  `json:"low_stock_threshold"`
}

// VariantListQuery captures variant list query parameters
type VariantListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	LowStock bool   `form:"low_stock"`
}

// Register godoc
// @Summary      Register a new variant
// @Description  Register a variant's identity. Stock begins at 0/0 and cost unset; only the ledger mutates them.
// @Tags         variants
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body RegisterVariantRequest true "Variant registration request"
// @Success      201 {object} dto.Response{data=catalog.VariantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /variants [post]
func (h *VariantHandler) Register(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req RegisterVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	variant, err := h.variantService.Register(c.Request.Context(), tenantID, catalogapp.RegisterVariantRequest{
		SKU:               req.SKU,
		Name:              req.Name,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, variant)
}

// GetByID godoc
// @Summary      Get variant stock view
// @Tags         variants
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Variant ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.VariantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /variants/{id} [get]
func (h *VariantHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	variant, err := h.variantService.Get(c.Request.Context(), tenantID, variantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, variant)
}

// List godoc
// @Summary      List variant stock
// @Description  Retrieve a paginated stock listing with optional search and low-stock filter
// @Tags         variants
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in SKU and name"
// @Param        low_stock query bool false "Only variants at or below their threshold"
// @Success      200 {object} dto.Response{data=[]catalog.VariantResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /variants [get]
func (h *VariantHandler) List(c *gin.Context) {
	h.list(c, false)
}

// LowStock godoc
// @Summary      Low-stock overview
// @Description  Retrieve variants whose available stock is at or below their low-stock threshold
// @Tags         variants
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]catalog.VariantResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /variants/low-stock [get]
func (h *VariantHandler) LowStock(c *gin.Context) {
	h.list(c, true)
}

func (h *VariantHandler) list(c *gin.Context, lowStockOnly bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query VariantListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}

	filter := catalogapp.VariantListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Search:   query.Search,
		LowStock: query.LowStock || lowStockOnly,
	}

	variants, total, err := h.variantService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, variants, total, query.Page, query.PageSize)
}

// Update godoc
// @Summary      Update variant identity fields
// @Tags         variants
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Variant ID" format(uuid)
// @Param        request body UpdateVariantRequest true "Variant update request"
// @Success      200 {object} dto.Response{data=catalog.VariantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /variants/{id} [patch]
func (h *VariantHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	var req UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	variant, err := h.variantService.Update(c.Request.Context(), tenantID, variantID, catalogapp.UpdateVariantRequest{
		Name:              req.Name,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, variant)
}

// RegisterRoutes registers variant routes
func (h *VariantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	variants := rg.Group("/variants")
	{
		variants.POST("", h.Register)
		variants.GET("", h.List)
		variants.GET("/low-stock", h.LowStock)
		variants.GET("/:id", h.GetByID)
		variants.PATCH("/:id", h.Update)
	}
}
