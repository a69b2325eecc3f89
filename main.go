package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmos/config"
	"taskmos/cron"
	"taskmos/database"
	deliveryRepoPkg "taskmos/database/repository/delivery"
	eventRepoPkg "taskmos/database/repository/event"
	followupRepoPkg "taskmos/database/repository/followup"
	messageRepoPkg "taskmos/database/repository/message"
	taskRepoPkg "taskmos/database/repository/task"
	"taskmos/handlers"
	"taskmos/middleware"
	"taskmos/routes"
	"taskmos/services/followup"
	"taskmos/services/llm"
	"taskmos/services/notification"
	"taskmos/services/reminder"
	"taskmos/services/task"
	"taskmos/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	taskRepo := taskRepoPkg.NewMongoTaskRepo()
	eventRepo := eventRepoPkg.NewMongoEventRepo()
	deliveryRepo := deliveryRepoPkg.NewMongoDeliveryRepo()
	messageRepo := messageRepoPkg.NewMongoMessageRepo()
	followupRepo := followupRepoPkg.NewMongoFollowupRunRepo()

	// Text-generation backend, selected once from configuration.
	backend, err := llm.NewBackendFromConfig()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize text-generation backend: %v", err)
	}
	generator := llm.NewCaller(backend)

	// services.
	taskService := &task.DefaultTaskService{
		Repo: taskRepo,
	}
	reminderService := reminder.NewReminderService(taskRepo, eventRepo)
	renderService := notification.NewRenderService(eventRepo, generator)
	followupService := followup.NewFollowupService(taskRepo, eventRepo, followupRepo)

	// Background pipeline: scheduler enqueues, worker executes sequentially.
	cron.StartScheduler()
	cron.InitPipelineWorker(reminderService, renderService, followupService)
	utils.StartHealthMonitor(utils.GetQueueClient(), database.MongoClient)

	// handlers.
	taskHandler := handlers.NewTaskHandler(taskService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	notificationHandler := handlers.NewNotificationHandler(renderService, eventRepo, deliveryRepo)
	followupHandler := handlers.NewFollowupHandler(followupService, followupRepo)
	messageHandler := handlers.NewMessageHandler(messageRepo)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		CreateTaskHandler: taskHandler.CreateTaskHandler,
		GetTaskHandler:    taskHandler.GetTaskHandler,
		ListTasksHandler:  taskHandler.ListTasksHandler,
		UpdateTaskHandler: taskHandler.UpdateTaskHandler,
		DeleteTaskHandler: taskHandler.DeleteTaskHandler,

		ScanHandler: reminderHandler.ScanHandler,

		RenderHandler:        notificationHandler.RenderHandler,
		ListEventsHandler:    notificationHandler.ListEventsHandler,
		GetDeliveriesHandler: notificationHandler.GetDeliveriesHandler,

		FollowupRunHandler:      followupHandler.RunHandler,
		FollowupListRunsHandler: followupHandler.ListRunsHandler,

		ListMessagesHandler: messageHandler.ListMessagesHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
