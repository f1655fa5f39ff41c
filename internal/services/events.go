package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"spendwise/internal/amqp"
)

// publishActivity emits one audit event. The activity trail is best-effort:
// a publish failure is logged and the domain operation still succeeds.
func publishActivity(ctx context.Context, events *amqp.Client, userID int64, entityType string, entityID int64, action string, details any) {
	if events == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping activity event",
			"entity_type", entityType, "action", action)
		return
	}

	var payload json.RawMessage
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to marshal activity details",
				"entity_type", entityType, "entity_id", entityID, "error", err)
		} else {
			payload = b
		}
	}

	msg := amqp.NewActivityMessage(userID, entityType, entityID, action, payload)
	if err := events.PublishActivity(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish activity event",
			"entity_type", entityType, "entity_id", entityID, "action", action, "error", err)
	}
}
