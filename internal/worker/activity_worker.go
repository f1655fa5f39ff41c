// Package worker consumes activity events and persists them to the audit
// timeline. Keeping the write out of the request path means a slow or
// unavailable log never delays a domain mutation.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/storage"
)

type ActivityWorker struct {
	storage *storage.SQLiteRepository
}

func NewActivityWorker(storage *storage.SQLiteRepository) *ActivityWorker {
	return &ActivityWorker{storage: storage}
}

// HandleActivityMessage persists one activity event. Returning an error
// requeues the delivery, so the insert must be idempotent-enough to tolerate
// a redelivery (duplicate timeline rows are acceptable, lost ones are not).
func (w *ActivityWorker) HandleActivityMessage(ctx context.Context, msg *amqp.ActivityMessage) error {
	slog.InfoContext(ctx, "Processing activity event",
		"user_id", msg.UserID,
		"entity_type", msg.EntityType,
		"entity_id", msg.EntityID,
		"action", msg.Action)

	entry := core.ActivityLog{
		UserID:     msg.UserID,
		EntityType: msg.EntityType,
		EntityID:   msg.EntityID,
		Action:     msg.Action,
		Details:    string(msg.Details),
	}

	if err := w.storage.InsertActivity(ctx, entry); err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}
