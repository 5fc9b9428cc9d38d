package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oms/backend/internal/application/event"
)

// OutboxHandler exposes the admin surface of the transactional outbox:
// dead-letter inspection and manual requeueing. It is mounted under
// /system and is not tenant scoped.
type OutboxHandler struct {
	BaseHandler
	service *event.OutboxService
}

func NewOutboxHandler(service *event.OutboxService) *OutboxHandler {
	return &OutboxHandler{service: service}
}

func (h *OutboxHandler) RegisterRoutes(r *gin.RouterGroup) {
	outbox := r.Group("/system/outbox")
	{
		outbox.GET("/stats", h.GetStats)
		outbox.GET("/dead", h.ListDeadEntries)
		outbox.POST("/dead/retry-all", h.RetryAllDeadEntries)
		outbox.GET("/:id", h.GetEntry)
		outbox.POST("/:id/retry", h.RetryDeadEntry)
	}
}

// GetStats godoc
// @Summary Outbox status counts
// @Description Returns how many outbox entries sit in each pipeline status.
// @Tags outbox
// @Produce json
// @Success 200 {object} APIResponse[event.OutboxStatsDTO]
// @Router /system/outbox/stats [get]
func (h *OutboxHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ListDeadEntries godoc
// @Summary List dead-letter entries
// @Description Pages through outbox entries that exhausted their delivery attempts.
// @Tags outbox
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} APIResponse[event.OutboxListResult]
// @Router /system/outbox/dead [get]
func (h *OutboxHandler) ListDeadEntries(c *gin.Context) {
	var filter event.OutboxFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	result, err := h.service.GetDeadLetterEntries(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetEntry godoc
// @Summary Get an outbox entry
// @Tags outbox
// @Produce json
// @Param id path string true "Outbox entry ID"
// @Success 200 {object} APIResponse[event.OutboxEntryDTO]
// @Failure 404 {object} ErrorResponse
// @Router /system/outbox/{id} [get]
func (h *OutboxHandler) GetEntry(c *gin.Context) {
	id, ok := h.entryID(c)
	if !ok {
		return
	}

	entry, err := h.service.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// RetryDeadEntry godoc
// @Summary Requeue a dead entry
// @Description Resets a dead entry so the relay delivers it again on the next poll.
// @Tags outbox
// @Produce json
// @Param id path string true "Outbox entry ID"
// @Success 200 {object} APIResponse[event.OutboxEntryDTO]
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /system/outbox/{id}/retry [post]
func (h *OutboxHandler) RetryDeadEntry(c *gin.Context) {
	id, ok := h.entryID(c)
	if !ok {
		return
	}

	entry, err := h.service.RetryDeadEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// RetryAllDeadEntries godoc
// @Summary Requeue every dead entry
// @Tags outbox
// @Produce json
// @Success 200 {object} APIResponse[handler.RetriedCount]
// @Router /system/outbox/dead/retry-all [post]
func (h *OutboxHandler) RetryAllDeadEntries(c *gin.Context) {
	count, err := h.service.RetryAllDeadEntries(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RetriedCount{Retried: count})
}

// RetriedCount reports how many entries a bulk retry touched.
type RetriedCount struct {
	Retried int64 `json:"retried"`
}

func (h *OutboxHandler) entryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid outbox entry ID")
		return uuid.Nil, false
	}
	return id, true
}
