package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a server-originated message with the current timestamp.
func NewMessage(msgType string, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return &Message{
		Type:      msgType,
		Payload:   data,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Server → Client message types.
const (
	TypeCallEvent  = "call.event"
	TypeCallOutput = "call.output"
	TypeError      = "error"
)

// Client → Server message types.
const (
	TypeCallStart  = "call.start"
	TypeCallHangup = "call.hangup"
)

// Error codes.
const (
	ErrInvalidMessage    = "INVALID_MESSAGE"
	ErrCallActive        = "CALL_ACTIVE"
	ErrEmptyDestination  = "EMPTY_DESTINATION"
	ErrNoActiveCall      = "NO_ACTIVE_CALL"
	ErrLaunchFailed      = "LAUNCH_FAILED"
	ErrTerminationFailed = "TERMINATION_FAILED"
)

// Server → Client payloads.

// CallEventPayload carries a lifecycle notification.
type CallEventPayload struct {
	CallID      string `json:"callId"`
	Destination string `json:"destination"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
}

// CallOutputPayload carries one raw line of call-agent output.
type CallOutputPayload struct {
	CallID string `json:"callId"`
	Data   string `json:"data"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Client → Server payloads.

type CallStartPayload struct {
	Destination string `json:"destination"`
}
