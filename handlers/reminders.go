package handlers

import (
	"net/http"

	"taskmos/config"
	"taskmos/services/reminder"
	"taskmos/utils"

	"github.com/gin-gonic/gin"
)

// ReminderHandler serves the manual scan trigger.
type ReminderHandler struct {
	Service reminder.ReminderService
}

// NewReminderHandler creates a ReminderHandler.
func NewReminderHandler(service reminder.ReminderService) *ReminderHandler {
	return &ReminderHandler{Service: service}
}

// ScanHandler runs one reminder scan and reports how many events it created.
func (h *ReminderHandler) ScanHandler(c *gin.Context) {
	created, err := h.Service.Scan(c.Request.Context(), config.AppConfig.ReminderScanLimit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Scan failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"created_events": created,
		"interval_min":   config.AppConfig.ReminderScanIntervalMin,
	})
}
