package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New()),
		Data:            "payload",
	}
}

// testHandler implements EventHandler for testing
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panics {
		panic("handler blew up")
	}
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("delivers event to subscribed handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		handler := newTestHandler("order.created")
		bus.Subscribe(handler, "order.created")

		evt := newTestEvent("order.created")
		err := bus.Publish(context.Background(), evt)

		require.NoError(t, err)
		assert.Len(t, handler.getHandled(), 1)
		assert.Equal(t, evt, handler.getHandled()[0])
	})

	t.Run("does not deliver to handlers of other types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		handler := newTestHandler("order.created")
		bus.Subscribe(handler, "order.created")

		err := bus.Publish(context.Background(), newTestEvent("review.submitted"))

		require.NoError(t, err)
		assert.Empty(t, handler.getHandled())
	})

	t.Run("uses the handler's own event types when none are given", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		handler := newTestHandler("review.submitted")
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), newTestEvent("review.submitted"))

		require.NoError(t, err)
		assert.Len(t, handler.getHandled(), 1)
	})

	t.Run("wildcard handler receives all events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		handler := newTestHandler()
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.created")))
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("review.submitted")))

		assert.Len(t, handler.getHandled(), 2)
	})

	t.Run("handler error does not stop the remaining handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		failing := newTestHandler("order.created")
		failing.err = errors.New("boom")
		healthy := newTestHandler("order.created")
		bus.Subscribe(failing, "order.created")
		bus.Subscribe(healthy, "order.created")

		err := bus.Publish(context.Background(), newTestEvent("order.created"))

		require.NoError(t, err)
		assert.Len(t, healthy.getHandled(), 1)
	})

	t.Run("handler panic is recovered", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		panicking := newTestHandler("order.created")
		panicking.panics = true
		healthy := newTestHandler("order.created")
		bus.Subscribe(panicking, "order.created")
		bus.Subscribe(healthy, "order.created")

		assert.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), newTestEvent("order.created"))
		})
		assert.Len(t, healthy.getHandled(), 1)
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	t.Run("removed handler no longer receives events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		handler := newTestHandler("order.created")
		bus.Subscribe(handler, "order.created")
		bus.Unsubscribe(handler)

		err := bus.Publish(context.Background(), newTestEvent("order.created"))

		require.NoError(t, err)
		assert.Empty(t, handler.getHandled())
	})
}

func TestInMemoryEventBus_Lifecycle(t *testing.T) {
	t.Run("starts and stops without error", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		assert.NoError(t, bus.Start(context.Background()))
		assert.NoError(t, bus.Stop(context.Background()))
	})
}
