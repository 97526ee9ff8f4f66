package eventbus

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"activity-tracking-svc/src/clients"
	"activity-tracking-svc/src/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

var errDisconnected = errors.New("event bus is not connected")

// Event is any integration event carried over the broker. Name returns the
// event_name field used for dispatch on the consuming side.
type Event interface {
	Name() string
}

// Handler consumes the raw JSON body of one delivered event.
type Handler func(body []byte) error

// Publisher is the write-side contract repositories depend on.
type Publisher interface {
	Publish(event Event, routingKey string) error
}

// Bus publishes and consumes integration events over a topic exchange.
// At most one consumer loop runs per process: the first Subscribe starts it,
// later calls only register another handler and bind another routing key.
type Bus struct {
	rabbit *clients.RabbitMQ
	cfg    *config.RabbitMQConfig

	mu        sync.Mutex
	handlers  map[string]Handler
	consuming bool
}

func New(rabbit *clients.RabbitMQ, cfg *config.QueueConfig) *Bus {
	return &Bus{
		rabbit:   rabbit,
		cfg:      &cfg.RabbitMQ,
		handlers: make(map[string]Handler),
	}
}

// Publish sends the event under the given routing key. When no connection
// can be established the publish is skipped; reconnection is the connection
// component's responsibility, not the publisher's.
func (b *Bus) Publish(event Event, routingKey string) error {
	if !b.rabbit.IsConnected() {
		if err := b.rabbit.TryConnect(); err != nil {
			logrus.WithField("event", event.Name()).Warn("Broker unavailable, event publish skipped")
			return nil
		}
	}

	if err := b.rabbit.SetupExchange(); err != nil {
		logrus.WithError(err).WithField("event", event.Name()).Warn("Exchange declare failed, event publish skipped")
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	channel := b.rabbit.Channel()
	if channel == nil {
		logrus.WithField("event", event.Name()).Warn("Broker channel closed, event publish skipped")
		return nil
	}

	err = channel.Publish(
		b.cfg.Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		logrus.WithError(err).WithField("event", event.Name()).Error("Failed to publish event")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"event":       event.Name(),
		"routing_key": routingKey,
	}).Info("Published event")
	return nil
}

// Subscribe registers the handler for the event name and binds the routing
// key to the shared queue. The consumer loop is started once, on the first
// successful call.
func (b *Bus) Subscribe(eventName string, handler Handler, routingKey string) error {
	if !b.rabbit.IsConnected() {
		if err := b.rabbit.TryConnect(); err != nil {
			return err
		}
	}

	if err := b.rabbit.SetupExchange(); err != nil {
		return err
	}

	channel := b.rabbit.Channel()
	if channel == nil {
		return errDisconnected
	}

	queue, err := channel.QueueDeclare(
		b.cfg.Queue,
		b.cfg.Durable,
		b.cfg.AutoDelete,
		b.cfg.Exclusive,
		b.cfg.NoWait,
		nil,
	)
	if err != nil {
		return err
	}

	if err := channel.QueueBind(queue.Name, routingKey, b.cfg.Exchange, b.cfg.NoWait, nil); err != nil {
		return err
	}

	b.register(eventName, handler)

	if err := b.startConsumer(channel, queue.Name); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"event":       eventName,
		"routing_key": routingKey,
	}).Info("Subscribed event")
	return nil
}

func (b *Bus) register(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = handler
}

// startConsumer starts the single consumer goroutine. Subsequent calls are
// no-ops.
func (b *Bus) startConsumer(channel *amqp.Channel, queueName string) error {
	b.mu.Lock()
	if b.consuming {
		b.mu.Unlock()
		return nil
	}
	b.consuming = true
	b.mu.Unlock()

	deliveries, err := channel.Consume(
		queueName,
		b.cfg.Consumer,
		b.cfg.AutoAck,
		b.cfg.Exclusive,
		b.cfg.NoLocal,
		b.cfg.NoWait,
		nil,
	)
	if err != nil {
		b.mu.Lock()
		b.consuming = false
		b.mu.Unlock()
		return err
	}

	go func() {
		for delivery := range deliveries {
			b.dispatch(delivery.Body)
		}
		logrus.Info("Queue consumer stopped")
	}()

	logrus.Info("Queue consumer successfully created")
	return nil
}

// dispatch routes one delivered message to the handler registered for its
// event_name. Unknown event names are dropped; handler failures are logged
// and never reach the broker client.
func (b *Bus) dispatch(body []byte) {
	var envelope struct {
		EventName string `json:"event_name"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		logrus.WithError(err).Warn("Dropping undecodable bus message")
		return
	}
	if envelope.EventName == "" {
		logrus.Warn("Dropping bus message without event_name")
		return
	}

	b.mu.Lock()
	handler, ok := b.handlers[envelope.EventName]
	b.mu.Unlock()
	if !ok {
		logrus.WithField("event", envelope.EventName).Debug("No handler registered, dropping event")
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			logrus.WithField("event", envelope.EventName).Errorf("Event handler panicked: %v", rec)
		}
	}()

	if err := handler(body); err != nil {
		logrus.WithError(err).WithField("event", envelope.EventName).Error("Event handler failed")
	}
}

// Consuming reports whether the consumer loop has been started.
func (b *Bus) Consuming() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.consuming
}

// Dispose stops the consumer and closes the broker connection. Shutdown
// must not throw: failures are logged and swallowed.
func (b *Bus) Dispose() {
	b.mu.Lock()
	consuming := b.consuming
	b.consuming = false
	b.mu.Unlock()

	if consuming {
		if channel := b.rabbit.Channel(); channel != nil {
			if err := channel.Cancel(b.cfg.Consumer, false); err != nil {
				logrus.WithError(err).Warn("Failed to cancel queue consumer")
			}
		}
	}

	if err := b.rabbit.Close(); err != nil {
		logrus.WithError(err).Warn("Failed to close broker connection")
	}
}
