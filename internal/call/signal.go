package call

import "sync"

// Signal is a monotonic one-shot broadcast flag. It starts unset, may
// transition unset to set exactly once, and is never reset. Any number of
// waiters can block on Done and all observe the single transition.
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

// NewSignal creates an unset signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Set fires the signal. It reports whether this call performed the
// transition; repeat calls are no-ops returning false.
func (s *Signal) Set() bool {
	fired := false
	s.once.Do(func() {
		close(s.ch)
		fired = true
	})
	return fired
}

// IsSet reports whether the signal has fired, without blocking.
func (s *Signal) IsSet() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once the signal fires.
func (s *Signal) Done() <-chan struct{} {
	return s.ch
}
