package services

import (
	"context"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

// activityPageSize is the fixed page length of the activity timeline.
const activityPageSize = 20

// ActivityService reads the audit timeline. Writes happen only in the
// activity worker, fed by the AMQP event stream.
type ActivityService struct {
	storage *storage.SQLiteRepository
}

func NewActivityService(storage *storage.SQLiteRepository) *ActivityService {
	return &ActivityService{storage: storage}
}

// List returns one page of the user's activity, newest first. Page numbers
// start at 1; out-of-range pages return an empty slice.
func (s *ActivityService) List(ctx context.Context, userID int64, f storage.ActivityFilter, page int) ([]core.ActivityLog, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * activityPageSize
	return s.storage.ListActivity(ctx, userID, f, activityPageSize, offset)
}
