package call

import "time"

// EventType identifies a lifecycle notification.
type EventType string

const (
	EventCalling     EventType = "calling"
	EventConnected   EventType = "connected"
	EventEnded       EventType = "ended"
	EventTerminated  EventType = "terminated"
	EventNoAnswer    EventType = "no-answer"
	EventTalkTimeout EventType = "talk-timeout"
	EventOutput      EventType = "output"
)

// Event is a single best-effort notification about the active call.
type Event struct {
	CallID      string    `json:"callId"`
	Destination string    `json:"destination"`
	Type        EventType `json:"type"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notifier receives lifecycle events. A nil Notifier suppresses
// observability without changing control flow.
type Notifier func(Event)
