package dependency

import (
	"activity-tracking-svc/src/clients"
	"activity-tracking-svc/src/internal/activity"
	"activity-tracking-svc/src/internal/background"
	"activity-tracking-svc/src/internal/cache"
	"activity-tracking-svc/src/internal/config"
	"activity-tracking-svc/src/internal/eventbus"
	"activity-tracking-svc/src/internal/user"

	"github.com/gin-gonic/gin"
)

// Manager wires every component in dependency order and hands out the
// references the server needs. No container, no service locator.
type Manager struct {
	Router          *gin.Engine
	Config          *config.Configuration
	Mongodb         *clients.MongoDB
	Redis           *clients.RedisClient
	RabbitMQ        *clients.RabbitMQ
	EventBus        *eventbus.Bus
	CacheService    cache.Service
	UserService     user.Service
	UserHandler     user.Handler
	ActivityService activity.Service
	ActivityHandler activity.Handler
	Background      *background.Service
}

func NewDependencyManager(router *gin.Engine,
	mongodb *clients.MongoDB,
	redisClient *clients.RedisClient,
	rabbitMQ *clients.RabbitMQ,
	cfg *config.Configuration) *Manager {
	bus := eventbus.New(rabbitMQ, &cfg.Queue)
	cacheService := cache.NewCacheService(redisClient.Client, cfg)

	userRepo := user.NewRepository(mongodb, cfg.Database.UserCollection, bus, cfg)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(cfg, userService, cacheService)

	activityRepo := activity.NewRepository(mongodb, cfg.Database.ActivityCollection, userRepo)
	activityService := activity.NewService(activityRepo)
	activityHandler := activity.NewHandler(cfg, activityService, cacheService)

	backgroundService := background.New(bus, activityService, cfg)

	return &Manager{
		Router:          router,
		Config:          cfg,
		Mongodb:         mongodb,
		Redis:           redisClient,
		RabbitMQ:        rabbitMQ,
		EventBus:        bus,
		CacheService:    cacheService,
		UserService:     userService,
		UserHandler:     userHandler,
		ActivityService: activityService,
		ActivityHandler: activityHandler,
		Background:      backgroundService,
	}
}
