package server

import (
	"net/http"
	"time"

	"activity-tracking-svc/src/internal/dependency"
	"activity-tracking-svc/src/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(deps *dependency.Manager) {
	router := deps.Router
	router.Use(enableCORS)

	setupHealthEndpoint(deps)
	setupRootRedirect(deps)
	setupApiRoutes(deps)
}

func setupHealthEndpoint(deps *dependency.Manager) {
	router := deps.Router
	mongodb := deps.Mongodb
	redisClient := deps.Redis
	rabbitMQ := deps.RabbitMQ
	cfg := deps.Config

	router.GET("/health", func(c *gin.Context) {
		log.Info("Health check endpoint requested")

		mongoStatus := "ok"
		if err := mongodb.Client.Ping(c.Request.Context(), nil); err != nil {
			mongoStatus = "error: " + err.Error()
		}

		redisStatus := "ok"
		if err := redisClient.Client.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "error: " + err.Error()
		}

		c.JSON(200, gin.H{
			"status":    "ok",
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"mongodb":   mongoStatus,
			"redis":     redisStatus,
			"rabbitmq":  getStatus(rabbitMQ.IsConnected()),
			"timestamp": time.Now().UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	})
}

// setupRootRedirect sends the root path to the API reference page.
func setupRootRedirect(deps *dependency.Manager) {
	reference := deps.Config.App.ApiReference
	deps.Router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, reference)
	})
}

func setupApiRoutes(deps *dependency.Manager) {
	users := deps.UserHandler
	activities := deps.ActivityHandler

	api := deps.Router.Group("/api/v1")

	if deps.Config.Security.Enabled {
		authMiddleware := middleware.NewAuthMiddleware(deps.Config.Security.JwtKey)
		api.Use(authMiddleware.RequireAuth())
	}

	api.POST("/users", users.AddUser)
	api.GET("/users", users.GetAllUsers)
	api.GET("/users/:user_id", users.GetUserByID)
	api.PATCH("/users/:user_id", users.UpdateUser)
	api.DELETE("/users/:user_id", users.RemoveUser)

	api.POST("/users/:user_id/activities", activities.AddActivity)
	api.GET("/users/:user_id/activities", activities.GetAllActivities)
	api.GET("/users/:user_id/activities/:activity_id", activities.GetActivityByID)
	api.PATCH("/users/:user_id/activities/:activity_id", activities.UpdateActivity)
	api.DELETE("/users/:user_id/activities/:activity_id", activities.RemoveActivity)
}

func enableCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(204)
		return
	}

	c.Next()
}

func getStatus(b bool) string {
	if b {
		return "connected"
	}
	return "disconnected"
}
