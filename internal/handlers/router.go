package handlers

import (
	"tasklist/backend/internal/middleware"
	"tasklist/backend/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint. Task and metrics routes require a
// requester identity; user registration and health probes do not.
func RegisterRoutes(r *gin.Engine, tasks *TaskHandler, users *UserHandler, metricsHandler *MetricsHandler, admin *AdminHandler) {
	r.GET("/health", monitoring.HealthHandler())
	r.GET("/monitoring/metrics", monitoring.MetricsHandler())

	r.POST("/users", users.Register)
	r.GET("/users", users.GetUsers)
	r.GET("/users/:user_id", users.GetUserByID)

	authed := r.Group("/", middleware.RequesterIdentity())

	taskRoutes := authed.Group("/tasks")
	{
		taskRoutes.POST("", tasks.CreateTask)
		taskRoutes.GET("", tasks.GetTasks)
		taskRoutes.GET("/search", tasks.SearchTasks)
		taskRoutes.GET("/:id", tasks.GetTaskByID)
		taskRoutes.PUT("/:id", tasks.UpdateTask)
		taskRoutes.DELETE("/:id", tasks.DeleteTask)
		taskRoutes.POST("/:id/comments", tasks.AddComment)
		taskRoutes.PUT("/:id/tags", tasks.ManageTags)
	}

	metricsRoutes := authed.Group("/metrics")
	{
		metricsRoutes.GET("/status-breakdown", metricsHandler.StatusBreakdown)
		metricsRoutes.GET("/created-today", metricsHandler.CreatedToday)
		metricsRoutes.GET("/top-tags", metricsHandler.TopTags)
		metricsRoutes.GET("/completed-by-day", metricsHandler.CompletedByDay)
		metricsRoutes.GET("/average-completion-time", metricsHandler.AverageCompletionTime)
		metricsRoutes.GET("/weekly-completion-rate", metricsHandler.WeeklyCompletionRate)
	}

	adminRoutes := authed.Group("/admin")
	{
		adminRoutes.POST("/recompute", admin.TriggerRecompute)
	}
}
