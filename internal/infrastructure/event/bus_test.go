package event

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
}

func (h *recordingHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	h.received = append(h.received, ev)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType)}
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	t.Run("delivers to matching handler synchronously", func(t *testing.T) {
		h := &recordingHandler{types: []string{"a"}}
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(ctx, newTestEvent("a")))
		assert.Len(t, h.received, 1)
	})

	t.Run("does not deliver other event types", func(t *testing.T) {
		h := &recordingHandler{types: []string{"b"}}
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(ctx, newTestEvent("a")))
		assert.Empty(t, h.received)
	})

	t.Run("handler error does not stop other handlers", func(t *testing.T) {
		failing := &recordingHandler{types: []string{"c"}, err: errors.New("boom")}
		ok := &recordingHandler{types: []string{"c"}}
		bus.Subscribe(failing)
		bus.Subscribe(ok)

		require.NoError(t, bus.Publish(ctx, newTestEvent("c")))
		assert.Len(t, ok.received, 1)
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"a"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("a")))
	assert.Empty(t, h.received)
}
