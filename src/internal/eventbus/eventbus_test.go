package eventbus

import (
	"encoding/json"
	"errors"
	"testing"

	"activity-tracking-svc/src/clients"
	"activity-tracking-svc/src/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() *Bus {
	cfg := &config.QueueConfig{}
	cfg.RabbitMQ.Exchange = "activity-tracking-service"
	cfg.RabbitMQ.ExchangeType = "topic"
	cfg.RabbitMQ.Queue = "task_queue"
	// amqp rejects the URI before touching the network
	cfg.RabbitMQ.Url = "not-a-valid-uri"
	return New(clients.NewRabbitMQ(cfg), cfg)
}

type testEvent struct {
	EventName string `json:"event_name"`
	Timestamp string `json:"timestamp"`
	Payload   string `json:"payload,omitempty"`
}

func (e testEvent) Name() string { return e.EventName }

func TestDispatchInvokesRegisteredHandlerOnce(t *testing.T) {
	bus := newTestBus()

	calls := 0
	bus.register("UserSaveEvent", func(body []byte) error {
		calls++
		var event testEvent
		require.NoError(t, json.Unmarshal(body, &event))
		assert.Equal(t, "lorem", event.Payload)
		return nil
	})

	body, err := json.Marshal(testEvent{EventName: "UserSaveEvent", Payload: "lorem"})
	require.NoError(t, err)

	bus.dispatch(body)
	assert.Equal(t, 1, calls)

	bus.dispatch(body)
	assert.Equal(t, 2, calls)
}

func TestDispatchRoutesByEventName(t *testing.T) {
	bus := newTestBus()

	var saveCalls, removeCalls int
	bus.register("ActivitySaveEvent", func(body []byte) error {
		saveCalls++
		return nil
	})
	bus.register("ActivityRemoveEvent", func(body []byte) error {
		removeCalls++
		return nil
	})

	save, _ := json.Marshal(testEvent{EventName: "ActivitySaveEvent"})
	remove, _ := json.Marshal(testEvent{EventName: "ActivityRemoveEvent"})

	bus.dispatch(save)
	bus.dispatch(remove)
	bus.dispatch(save)

	assert.Equal(t, 2, saveCalls)
	assert.Equal(t, 1, removeCalls)
}

func TestDispatchDropsUnknownEventNames(t *testing.T) {
	bus := newTestBus()

	calls := 0
	bus.register("UserSaveEvent", func(body []byte) error {
		calls++
		return nil
	})

	unknown, _ := json.Marshal(testEvent{EventName: "SomethingElseEvent"})
	bus.dispatch(unknown)
	bus.dispatch([]byte(`{"no_event_name": true}`))
	bus.dispatch([]byte(`not json at all`))

	assert.Zero(t, calls)
}

func TestDispatchSwallowsHandlerFailures(t *testing.T) {
	bus := newTestBus()

	bus.register("UserSaveEvent", func(body []byte) error {
		return errors.New("handler blew up")
	})
	bus.register("ActivitySaveEvent", func(body []byte) error {
		panic("handler panicked")
	})

	failing, _ := json.Marshal(testEvent{EventName: "UserSaveEvent"})
	panicking, _ := json.Marshal(testEvent{EventName: "ActivitySaveEvent"})

	assert.NotPanics(t, func() {
		bus.dispatch(failing)
		bus.dispatch(panicking)
	})
}

func TestSecondRegistrationDoesNotStartConsumer(t *testing.T) {
	bus := newTestBus()

	bus.register("ActivitySaveEvent", func(body []byte) error { return nil })
	assert.False(t, bus.Consuming())

	bus.register("ActivityRemoveEvent", func(body []byte) error { return nil })
	assert.False(t, bus.Consuming())

	// both routes are live in the registry
	save, _ := json.Marshal(testEvent{EventName: "ActivitySaveEvent"})
	remove, _ := json.Marshal(testEvent{EventName: "ActivityRemoveEvent"})
	bus.dispatch(save)
	bus.dispatch(remove)
}

func TestPublishSkippedWhenDisconnected(t *testing.T) {
	bus := newTestBus()

	event := testEvent{EventName: "UserSaveEvent"}
	assert.NoError(t, bus.Publish(event, "users.save"), "publish while disconnected is skipped, not failed")
}
