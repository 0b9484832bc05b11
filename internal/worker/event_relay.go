package worker

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/gearguard/internal/events"
	"github.com/spec-kit/gearguard/internal/persistence"
)

// EventRelay forwards domain events to a Redis pub/sub channel so external
// consumers can react without the core doing any delivery itself.
type EventRelay struct {
	redis   *persistence.Redis
	channel string
	logger  *zap.Logger
}

// NewEventRelay constructs the relay.
func NewEventRelay(redis *persistence.Redis, channel string, logger *zap.Logger) *EventRelay {
	return &EventRelay{redis: redis, channel: channel, logger: logger}
}

// Start subscribes the relay to every event type.
func (r *EventRelay) Start(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range events.AllTypes {
		dispatcher.Subscribe(eventType, r.forward)
	}
}

func (r *EventRelay) forward(ctx context.Context, event events.Event) error {
	if r.redis == nil || r.redis.Client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("marshal event", zap.Error(err), zap.String("type", string(event.Type)))
		return err
	}
	if err := r.redis.Client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.logger.Warn("publish event to redis", zap.Error(err), zap.String("type", string(event.Type)))
		return err
	}
	return nil
}
