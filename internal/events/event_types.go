package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStreamStarted   EventType = "stream_started"
	EventStreamCompleted EventType = "stream_completed"
	EventStreamFailed    EventType = "stream_failed"
)

// Event represents a playback lifecycle event emitted by the streaming
// engine.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	FileID    string      `json:"file_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StreamStartedPayload payload.
type StreamStartedPayload struct {
	Range          string `json:"range,omitempty"`
	UpstreamStatus int    `json:"upstream_status"`
}

// StreamCompletedPayload payload.
type StreamCompletedPayload struct {
	BytesSent int64 `json:"bytes_sent"`
}

// StreamFailedPayload payload.
type StreamFailedPayload struct {
	BytesSent int64  `json:"bytes_sent"`
	Reason    string `json:"reason"`
}
