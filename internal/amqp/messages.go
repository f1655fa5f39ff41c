package amqp

import (
	"encoding/json"
	"time"
)

// ActivityMessage describes one domain mutation for the activity worker.
// Details carries a small JSON object with the human-relevant fields of the
// change; the worker persists it verbatim.
type ActivityMessage struct {
	UserID     int64           `json:"user_id"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Action     string          `json:"action"`
	Details    json.RawMessage `json:"details,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// NewActivityMessage creates an activity message stamped with the current time.
func NewActivityMessage(userID int64, entityType string, entityID int64, action string, details json.RawMessage) *ActivityMessage {
	return &ActivityMessage{
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    details,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ActivityMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ActivityMessageFromJSON creates a message from JSON bytes.
func ActivityMessageFromJSON(data []byte) (*ActivityMessage, error) {
	var msg ActivityMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
