package call

import (
	"io"
	"time"
)

// State is the lifecycle projection derived from the two one-shot
// signals. It is never stored; it is computed on read.
type State string

const (
	StateDialing   State = "dialing"
	StateConnected State = "connected"
	StateEnded     State = "ended"
)

// CallSession is the single unit of work: one external agent process
// driving one outbound call. Sessions are never reused; a new call
// always creates a new session.
type CallSession struct {
	ID          string
	Destination string
	StartedAt   time.Time

	answered *Signal
	ended    *Signal

	proc   Proc
	output io.ReadCloser
	notify Notifier
}

// NewSession wraps a started process handle in a session. The monitor
// and guards are started separately by the launcher.
func NewSession(id, destination string, proc Proc, output io.ReadCloser, notify Notifier) *CallSession {
	return &CallSession{
		ID:          id,
		Destination: destination,
		StartedAt:   time.Now().UTC(),
		answered:    NewSignal(),
		ended:       NewSignal(),
		proc:        proc,
		output:      output,
		notify:      notify,
	}
}

// State projects the current lifecycle state.
func (s *CallSession) State() State {
	switch {
	case s.ended.IsSet():
		return StateEnded
	case s.answered.IsSet():
		return StateConnected
	default:
		return StateDialing
	}
}

// Answered reports whether the callee picked up.
func (s *CallSession) Answered() bool { return s.answered.IsSet() }

// Ended reports whether the session reached its terminal state.
func (s *CallSession) Ended() bool { return s.ended.IsSet() }

// Terminate runs the escalating shutdown sequence against the session's
// process. Safe to call from any goroutine, any number of times.
func (s *CallSession) Terminate() bool {
	return terminate(s.proc)
}

func (s *CallSession) emit(t EventType, message string) {
	if s.notify == nil {
		return
	}
	s.notify(Event{
		CallID:      s.ID,
		Destination: s.Destination,
		Type:        t,
		Message:     message,
		Timestamp:   time.Now().UTC(),
	})
}
