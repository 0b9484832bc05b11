package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventRequestCreated, func(_ context.Context, ev Event) error {
		got = append(got, ev)
		return nil
	})

	err := d.Publish(context.Background(), Event{ID: "ev-1", Type: EventRequestCreated, RequestID: "req-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "req-1", got[0].RequestID)

	// no subscribers for this type; still fine
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventRequestCompleted}))
	assert.Len(t, got, 1)
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	second := false
	d.Subscribe(EventEquipmentScrapped, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventEquipmentScrapped, func(context.Context, Event) error {
		second = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventEquipmentScrapped}))
	assert.True(t, second)
}
