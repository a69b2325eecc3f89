package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups every endpoint handler for route registration.
type HandlerBundle struct {
	// Task endpoints.
	CreateTaskHandler gin.HandlerFunc
	GetTaskHandler    gin.HandlerFunc
	ListTasksHandler  gin.HandlerFunc
	UpdateTaskHandler gin.HandlerFunc
	DeleteTaskHandler gin.HandlerFunc

	// Reminder pipeline endpoints.
	ScanHandler gin.HandlerFunc

	// Notification endpoints.
	RenderHandler        gin.HandlerFunc
	ListEventsHandler    gin.HandlerFunc
	GetDeliveriesHandler gin.HandlerFunc

	// Followup endpoints.
	FollowupRunHandler      gin.HandlerFunc
	FollowupListRunsHandler gin.HandlerFunc

	// Feed endpoints.
	ListMessagesHandler gin.HandlerFunc
}
