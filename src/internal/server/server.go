package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"activity-tracking-svc/src/clients"
	"activity-tracking-svc/src/internal/config"
	"activity-tracking-svc/src/internal/dependency"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

type Server struct {
	cfg *config.Configuration
}

func New(cfg *config.Configuration) *Server {
	return &Server{cfg: cfg}
}

// Start connects the external collaborators, wires the dependency graph,
// serves HTTP and blocks until a shutdown signal arrives.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongodb, err := clients.NewMongoDB(ctx, &s.cfg.Database)
	if err != nil {
		return err
	}

	if err := mongodb.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Error("Failed to ensure database indexes")
	}

	redisClient, err := clients.NewRedisClient(ctx, &s.cfg.Redis)
	if err != nil {
		return err
	}

	rabbitMQ := clients.NewRabbitMQ(&s.cfg.Queue)
	if err := rabbitMQ.TryConnect(); err != nil {
		log.WithError(err).Warn("Broker unavailable on startup, reconnect timer will keep trying")
	}
	reconnectDone := make(chan struct{})
	rabbitMQ.StartReconnect(reconnectDone)

	gin.SetMode(s.cfg.Server.Mode)
	router := gin.Default()

	deps := dependency.NewDependencyManager(router, mongodb, redisClient, rabbitMQ, s.cfg)
	SetupRoutes(deps)
	deps.Background.Start()

	srv := &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeout) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		close(reconnectDone)
		return err
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.App.Timeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}

	close(reconnectDone)
	deps.Background.Stop()

	if err := redisClient.Close(); err != nil {
		log.WithError(err).Error("Failed to close Redis client")
	}

	if err := mongodb.Disconnect(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to disconnect MongoDB client")
	}

	log.Info("Application stopped")
	return nil
}
