package worker

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "worker_test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestHandleActivityMessage(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.CreateProfile(ctx, core.Profile{
		Name: "Test Family", FamilyMembers: []string{"Alice"}, Currency: "EUR",
	})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	w := NewActivityWorker(repo)
	msg := amqp.NewActivityMessage(user.ID, core.EntityExpense, 9,
		core.ActionCreated, json.RawMessage(`{"amount":"12.50"}`))

	if err := w.HandleActivityMessage(ctx, msg); err != nil {
		t.Fatalf("HandleActivityMessage: %v", err)
	}

	logs, err := repo.ListActivity(ctx, user.ID, storage.ActivityFilter{}, 10, 0)
	if err != nil {
		t.Fatalf("ListActivity: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d log rows, want 1", len(logs))
	}
	got := logs[0]
	if got.EntityType != core.EntityExpense || got.EntityID != 9 || got.Action != core.ActionCreated {
		t.Errorf("unexpected log row: %+v", got)
	}
	if got.Details != `{"amount":"12.50"}` {
		t.Errorf("Details = %s, want the published payload", got.Details)
	}
}

func TestHandleActivityMessageEmptyDetails(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.CreateProfile(ctx, core.Profile{
		Name: "Test Family", FamilyMembers: []string{"Alice"}, Currency: "EUR",
	})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	w := NewActivityWorker(repo)
	msg := amqp.NewActivityMessage(user.ID, core.EntityCategory, 3, core.ActionDeleted, nil)

	if err := w.HandleActivityMessage(ctx, msg); err != nil {
		t.Fatalf("HandleActivityMessage: %v", err)
	}

	logs, err := repo.ListActivity(ctx, user.ID, storage.ActivityFilter{EntityType: core.EntityCategory}, 10, 0)
	if err != nil {
		t.Fatalf("ListActivity: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d log rows, want 1", len(logs))
	}
	if logs[0].Details != "{}" {
		t.Errorf("Details = %q, want empty object default", logs[0].Details)
	}
}
