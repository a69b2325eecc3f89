package handlers

import (
	"net/http"
	"strconv"

	messageRepo "taskmos/database/repository/message"
	"taskmos/utils"

	"github.com/gin-gonic/gin"
)

// MessageHandler serves the feed.
type MessageHandler struct {
	Repo messageRepo.MessageRepository
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(repo messageRepo.MessageRepository) *MessageHandler {
	return &MessageHandler{Repo: repo}
}

// ListMessagesHandler returns feed entries ordered by creation time.
func (h *MessageHandler) ListMessagesHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	messages, err := h.Repo.List(limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list messages", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
