package call

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	defaultEventHistory  = 1000
	defaultSubscriberBuf = 100
)

// Registry holds the single in-flight call session and distributes
// lifecycle events to subscribers. All slot mutation happens under the
// registry's lock so concurrent start requests observe it atomically: at
// most one wins.
type Registry struct {
	mu       sync.Mutex
	active   *CallSession
	launcher Launcher

	subMu       sync.RWMutex
	subscribers map[string]chan Event
	history     *RingBuffer
}

// NewRegistry creates a registry that launches sessions with the given
// launcher.
func NewRegistry(launcher Launcher) *Registry {
	return &Registry{
		launcher:    launcher,
		subscribers: make(map[string]chan Event),
		history:     NewRingBuffer(defaultEventHistory),
	}
}

// Start admits and launches a call to destination. At most one session
// may be dialing or connected at a time.
func (r *Registry) Start(destination string) (*CallSession, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, ErrEmptyDestination
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil && !r.active.Ended() {
		return nil, fmt.Errorf("%w: %s", ErrCallActive, r.active.Destination)
	}

	sess, err := r.launcher.Launch(destination, r.publish)
	if err != nil {
		return nil, err
	}
	r.active = sess

	// Free the slot once the session is observed ended.
	go func() {
		<-sess.ended.Done()
		r.clear(sess)
	}()

	return sess, nil
}

// Hangup terminates the active call. The slot is cleared regardless of
// the outcome so a failed termination cannot wedge the registry.
func (r *Registry) Hangup() (string, error) {
	r.mu.Lock()
	sess := r.active
	if sess == nil || sess.Ended() {
		r.mu.Unlock()
		return "", ErrNoActiveCall
	}
	r.active = nil
	r.mu.Unlock()

	if !sess.Terminate() {
		return sess.Destination, ErrTerminationFailed
	}
	return sess.Destination, nil
}

// Status reports the active destination, if any. Read-only; never
// blocks on anything but the slot lock, never mutates.
func (r *Registry) Status() (destination string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil && !r.active.Ended() {
		return r.active.Destination, true
	}
	return "", false
}

// clear frees the slot if it still holds sess. Pointer-compared so a
// replacement session is never clobbered.
func (r *Registry) clear(sess *CallSession) {
	r.mu.Lock()
	if r.active == sess {
		r.active = nil
	}
	r.mu.Unlock()
}

// publish records an event and fans it out to all subscribers.
// Subscribers that cannot keep up lose events; delivery is best-effort.
func (r *Registry) publish(event Event) {
	r.history.Write(event)

	r.subMu.RLock()
	defer r.subMu.RUnlock()
	for _, ch := range r.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber channel full, drop the event.
		}
	}
}

// Subscribe registers an event channel and returns it together with the
// buffered history so late subscribers can catch up.
func (r *Registry) Subscribe() (string, <-chan Event, []Event) {
	subID := uuid.New().String()
	ch := make(chan Event, defaultSubscriberBuf)

	// Read history before registering to avoid duplicated events.
	history := r.history.ReadAll()

	r.subMu.Lock()
	r.subscribers[subID] = ch
	r.subMu.Unlock()

	return subID, ch, history
}

// Unsubscribe removes a subscriber and closes its channel.
func (r *Registry) Unsubscribe(subID string) {
	r.subMu.Lock()
	if ch, ok := r.subscribers[subID]; ok {
		close(ch)
		delete(r.subscribers, subID)
	}
	r.subMu.Unlock()
}

// Shutdown hangs up the active call, if any. Used at server teardown.
func (r *Registry) Shutdown() {
	if _, err := r.Hangup(); err != nil && !errors.Is(err, ErrNoActiveCall) {
		log.Printf("shutdown hangup: %v", err)
	}
}
