package amqp

import (
	"encoding/json"
	"testing"
	"time"

	"spendwise/internal/core"
)

func TestNewActivityMessage(t *testing.T) {
	details := json.RawMessage(`{"amount":"12.34"}`)
	msg := NewActivityMessage(7, core.EntityExpense, 42, core.ActionCreated, details)

	if msg.UserID != 7 || msg.EntityID != 42 {
		t.Errorf("unexpected ids: %+v", msg)
	}
	if msg.EntityType != core.EntityExpense || msg.Action != core.ActionCreated {
		t.Errorf("unexpected type/action: %+v", msg)
	}
	if msg.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("timestamp should be recent")
	}
}

func TestActivityMessageJSON(t *testing.T) {
	msg := &ActivityMessage{
		UserID:     3,
		EntityType: core.EntityRecurring,
		EntityID:   11,
		Action:     core.ActionConfirmed,
		Details:    json.RawMessage(`{"due_date":"2024-02-01"}`),
		Timestamp:  time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := ActivityMessageFromJSON(body)
	if err != nil {
		t.Fatalf("ActivityMessageFromJSON() error = %v", err)
	}

	if parsed.UserID != msg.UserID || parsed.EntityID != msg.EntityID {
		t.Errorf("parsed ids = %+v, want %+v", parsed, msg)
	}
	if parsed.Action != msg.Action || parsed.EntityType != msg.EntityType {
		t.Errorf("parsed type/action = %+v, want %+v", parsed, msg)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("parsed timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
	if string(parsed.Details) != string(msg.Details) {
		t.Errorf("parsed details = %s, want %s", parsed.Details, msg.Details)
	}
}

func TestActivityMessageInvalidJSON(t *testing.T) {
	if _, err := ActivityMessageFromJSON([]byte(`{"user_id": "seven"}`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
