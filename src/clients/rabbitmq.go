package clients

import (
	"fmt"
	"sync"
	"time"

	"activity-tracking-svc/src/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

var log = logrus.StandardLogger()

type RabbitMQ struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     *config.QueueConfig
	closed  bool
}

func NewRabbitMQ(cfg *config.QueueConfig) *RabbitMQ {
	return &RabbitMQ{cfg: cfg}
}

// IsConnected reports whether a usable channel is currently open.
func (r *RabbitMQ) IsConnected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn != nil && !r.conn.IsClosed() && r.channel != nil
}

// Channel returns the shared channel, or nil when disconnected.
func (r *RabbitMQ) Channel() *amqp.Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil || r.conn.IsClosed() {
		return nil
	}
	return r.channel
}

// TryConnect dials the broker once. The reconnect timer started by
// StartReconnect keeps calling it while the connection is down.
func (r *RabbitMQ) TryConnect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn != nil && !r.conn.IsClosed() {
		return nil
	}

	log.WithField("url", r.cfg.RabbitMQ.Url).Info("Connecting to RabbitMQ...")
	conn, err := amqp.Dial(r.cfg.RabbitMQ.Url)
	if err != nil {
		log.WithError(err).Errorf("Failed to connect to RabbitMQ: %v", err)
		return err
	}

	channel, err := conn.Channel()
	if err != nil {
		log.WithError(err).Errorf("Failed to open a channel: %v", err)
		_ = conn.Close()
		return err
	}

	r.conn = conn
	r.channel = channel
	log.Infof("Connected to RabbitMQ at %s", r.cfg.RabbitMQ.Url)
	return nil
}

// StartReconnect runs the connect-with-retry-on-timer policy on its own
// goroutine, independent of in-flight requests. It stops when done is closed.
func (r *RabbitMQ) StartReconnect(done <-chan struct{}) {
	delay := time.Duration(r.cfg.RabbitMQ.ReconnectDelay) * time.Second
	if delay <= 0 {
		delay = 2 * time.Second
	}

	go func() {
		ticker := time.NewTicker(delay)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if !r.IsConnected() {
					_ = r.TryConnect()
				}
			}
		}
	}()
}

// SetupExchange declares the shared topic exchange. Declaration is
// idempotent on the broker side.
func (r *RabbitMQ) SetupExchange() error {
	channel := r.Channel()
	if channel == nil {
		return fmt.Errorf("rabbitmq channel is not open")
	}

	err := channel.ExchangeDeclare(
		r.cfg.RabbitMQ.Exchange,
		r.cfg.RabbitMQ.ExchangeType,
		r.cfg.RabbitMQ.Durable,
		r.cfg.RabbitMQ.AutoDelete,
		r.cfg.RabbitMQ.Internal,
		r.cfg.RabbitMQ.NoWait,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %v", err)
	}

	return nil
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			log.WithError(err).Error("Failed to close RabbitMQ channel")
		} else {
			log.Info("RabbitMQ channel closed")
		}
		r.channel = nil
	}

	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			log.WithError(err).Error("Failed to close RabbitMQ connection")
			return err
		}
		log.Info("RabbitMQ connection closed")
		r.conn = nil
	}

	return nil
}
