package routes

import (
	"net/http"
	"time"

	"taskmos/handlers"
	"taskmos/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint onto the router.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterTaskRoutes(r, hb)
	RegisterPipelineRoutes(r, hb)
	RegisterFeedRoutes(r, hb)
	RegisterHealthRoute(r)
}

// RegisterTaskRoutes registers the task CRUD endpoints.
func RegisterTaskRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/tasks")
	{
		api.POST("", hb.CreateTaskHandler)
		api.GET("", hb.ListTasksHandler)
		api.GET("/:id", hb.GetTaskHandler)
		api.PATCH("/:id", hb.UpdateTaskHandler)
		api.DELETE("/:id", hb.DeleteTaskHandler)
	}
}

// RegisterPipelineRoutes registers the escalation pipeline endpoints.
func RegisterPipelineRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	reminders := r.Group("/api/reminders")
	{
		reminders.POST("/scan", hb.ScanHandler)
	}

	notifications := r.Group("/api/notifications")
	{
		notifications.POST("/render", hb.RenderHandler)
		notifications.GET("", hb.ListEventsHandler)
		notifications.GET("/:id/deliveries", hb.GetDeliveriesHandler)
	}

	followup := r.Group("/api/followup")
	{
		followup.POST("/run", hb.FollowupRunHandler)
		followup.GET("/runs", hb.FollowupListRunsHandler)
	}
}

// RegisterFeedRoutes registers the feed consumer endpoints.
func RegisterFeedRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/messages")
	{
		api.GET("", hb.ListMessagesHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}
