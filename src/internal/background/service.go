package background

import (
	"context"
	"encoding/json"
	"time"

	"activity-tracking-svc/src/internal/activity"
	"activity-tracking-svc/src/internal/config"
	"activity-tracking-svc/src/internal/eventbus"

	"github.com/sirupsen/logrus"
)

// Service subscribes the integration-event handlers that materialize
// derived writes from externally published events. Handler failures are
// logged and discarded here; nothing is retried or dead-lettered.
type Service struct {
	bus        *eventbus.Bus
	activities activity.Service
	cfg        *config.Configuration
}

func New(bus *eventbus.Bus, activities activity.Service, cfg *config.Configuration) *Service {
	return &Service{
		bus:        bus,
		activities: activities,
		cfg:        cfg,
	}
}

// Start registers the event subscriptions. A failed subscribe is logged and
// not fatal: the broker may still be coming up and publish-side traffic must
// not be blocked on it.
func (s *Service) Start() {
	logrus.Debug("Starting background services")

	rabbitCfg := &s.cfg.Queue.RabbitMQ

	if err := s.bus.Subscribe(activity.SaveEventName, s.handleActivitySave, rabbitCfg.ActivitySaveKey); err != nil {
		logrus.WithError(err).Error("Error initializing services in background")
	}

	if err := s.bus.Subscribe(activity.RemoveEventName, s.handleActivityRemove, rabbitCfg.ActivityRemoveKey); err != nil {
		logrus.WithError(err).Error("Error initializing services in background")
	}
}

func (s *Service) handleActivitySave(body []byte) error {
	var event activity.SaveEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}
	if event.Activity == nil {
		return nil
	}

	ctx, cancel := s.handlerContext()
	defer cancel()

	if _, err := s.activities.Add(ctx, event.Activity); err != nil {
		logrus.WithError(err).Warn("Activity save event discarded")
	}
	return nil
}

func (s *Service) handleActivityRemove(body []byte) error {
	var event activity.RemoveEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}
	if event.ID == "" {
		return nil
	}

	ctx, cancel := s.handlerContext()
	defer cancel()

	if _, err := s.activities.Remove(ctx, event.ID); err != nil {
		logrus.WithError(err).Warn("Activity remove event discarded")
	}
	return nil
}

func (s *Service) handlerContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(s.cfg.App.Timeout)*time.Second)
}

// Stop disposes the event bus. Errors are swallowed inside Dispose; shutdown
// never fails.
func (s *Service) Stop() {
	logrus.Debug("Stopping background services")
	s.bus.Dispose()
}
