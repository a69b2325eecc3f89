package handlers

import (
	"net/http"
	"strconv"

	"taskmos/models"
	"taskmos/services/task"
	"taskmos/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TaskHandler serves the task CRUD endpoints.
type TaskHandler struct {
	Service task.TaskService
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(service task.TaskService) *TaskHandler {
	return &TaskHandler{Service: service}
}

// CreateTaskHandler creates a new task.
func (h *TaskHandler) CreateTaskHandler(c *gin.Context) {
	logger := utils.GetLogger()
	var t models.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if err := h.Service.Create(&t); err != nil {
		logger.Error("Failed to create task", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Failed to create task", err.Error())
		return
	}
	c.JSON(http.StatusCreated, t)
}

// GetTaskHandler returns one task.
func (h *TaskHandler) GetTaskHandler(c *gin.Context) {
	id := c.Param("id")
	t, err := h.Service.Get(id)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to get task", err.Error())
		return
	}
	if t == nil {
		utils.JSONError(c, http.StatusNotFound, "Task not found", id)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ListTasksHandler returns tasks for display.
func (h *TaskHandler) ListTasksHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	tasks, err := h.Service.List(limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list tasks", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// UpdateTaskHandler updates task fields.
func (h *TaskHandler) UpdateTaskHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.Param("id")

	existing, err := h.Service.Get(id)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to get task", err.Error())
		return
	}
	if existing == nil {
		utils.JSONError(c, http.StatusNotFound, "Task not found", id)
		return
	}

	var t models.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	t.ID = id // Ensure the ID is set.
	t.CreatedAt = existing.CreatedAt
	if err := h.Service.Update(&t); err != nil {
		logger.Error("Failed to update task", zap.String("id", id), zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Failed to update task", err.Error())
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTaskHandler deletes a task.
func (h *TaskHandler) DeleteTaskHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.Delete(id); err != nil {
		utils.JSONError(c, http.StatusNotFound, "Failed to delete task", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
