package handlers

import (
	"net/http"
	"strconv"

	"taskmos/config"
	deliveryRepo "taskmos/database/repository/delivery"
	eventRepo "taskmos/database/repository/event"
	"taskmos/models"
	"taskmos/services/notification"
	"taskmos/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves notification event inspection and the manual
// render trigger.
type NotificationHandler struct {
	Render     notification.RenderService
	Events     eventRepo.EventRepository
	Deliveries deliveryRepo.DeliveryRepository
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(
	render notification.RenderService,
	events eventRepo.EventRepository,
	deliveries deliveryRepo.DeliveryRepository,
) *NotificationHandler {
	return &NotificationHandler{Render: render, Events: events, Deliveries: deliveries}
}

// RenderHandler runs one render batch and reports how many events succeeded.
func (h *NotificationHandler) RenderHandler(c *gin.Context) {
	rendered, err := h.Render.Render(c.Request.Context(), config.AppConfig.RenderBatchSize)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Render failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"rendered": rendered})
}

// ListEventsHandler lists events by status, newest first. Failed events
// stay inspectable here; there is no automatic retry for them.
func (h *NotificationHandler) ListEventsHandler(c *gin.Context) {
	status := c.DefaultQuery("status", models.EventStatusRendered)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	events, err := h.Events.ListByStatus(status, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list events", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetDeliveriesHandler lists delivery attempts for one event.
func (h *NotificationHandler) GetDeliveriesHandler(c *gin.Context) {
	id := c.Param("id")

	event, err := h.Events.GetByID(id)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to get event", err.Error())
		return
	}
	if event == nil {
		utils.JSONError(c, http.StatusNotFound, "Event not found", id)
		return
	}

	deliveries, err := h.Deliveries.ListByEvent(id)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list deliveries", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event, "deliveries": deliveries})
}
