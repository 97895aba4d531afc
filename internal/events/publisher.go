package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campusconnect/campus-backend/types"
	"github.com/google/uuid"
)

// PublishEventWithContext builds a standard types.Event around payload and
// publishes it on scope.
func PublishEventWithContext(publisher types.EventPublisher, ctx context.Context, eventType types.EventType, scope string, userID string, payload interface{}, source string) error {
	if publisher == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := types.Event{
		BaseEvent: types.BaseEvent{
			ID:        uuid.NewString(),
			Type:      eventType,
			Scope:     scope,
			UserID:    userID,
			Timestamp: time.Now(),
			Version:   1,
		},
		Metadata: types.EventMetadata{
			Source: source,
		},
		Payload: data,
	}

	if err := publisher.Publish(ctx, scope, event); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}
