package handlers

import (
	"net/http"
	"strconv"

	followupRepo "taskmos/database/repository/followup"
	"taskmos/services/followup"
	"taskmos/utils"

	"github.com/gin-gonic/gin"
)

// FollowupHandler serves the manual followup trigger and run history.
type FollowupHandler struct {
	Service followup.FollowupService
	Runs    followupRepo.FollowupRunRepository
}

// NewFollowupHandler creates a FollowupHandler.
func NewFollowupHandler(service followup.FollowupService, runs followupRepo.FollowupRunRepository) *FollowupHandler {
	return &FollowupHandler{Service: service, Runs: runs}
}

// RunHandler records one followup summary event for the given slot.
func (h *FollowupHandler) RunHandler(c *gin.Context) {
	slot := c.Query("slot")
	if !followup.ValidSlot(slot) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid slot", slot)
		return
	}
	if err := h.Service.Run(c.Request.Context(), slot); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Followup run failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "slot": slot})
}

// ListRunsHandler returns the recent followup run history.
func (h *FollowupHandler) ListRunsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	runs, err := h.Runs.List(limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list followup runs", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
