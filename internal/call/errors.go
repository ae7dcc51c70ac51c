package call

import "errors"

// Request-level failures. Errors raised by background tasks are never
// surfaced here; they show up only as state transitions and events.
var (
	ErrEmptyDestination  = errors.New("destination cannot be empty")
	ErrCallActive        = errors.New("call already active")
	ErrNoActiveCall      = errors.New("no active call")
	ErrTerminationFailed = errors.New("failed to terminate active call cleanly")
	ErrLaunch            = errors.New("failed to start call")
)
