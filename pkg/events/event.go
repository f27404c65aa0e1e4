package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "SESSION_COMMITTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeSessionCommitted = "TRAINING_SESSION_COMMITTED"
)

// NewSessionCommitted is emitted after a review session commit becomes
// durable, so retraining pipelines can pick up the new labeled examples.
func NewSessionCommitted(sessionID string, sourceName string, rowCount int, committedBy string) Event {
	return BaseEvent{
		Type: TypeSessionCommitted,
		Data: map[string]interface{}{
			"session_id":   sessionID,
			"source_name":  sourceName,
			"row_count":    rowCount,
			"committed_by": committedBy,
		},
		OccurredAt: time.Now(),
	}
}
