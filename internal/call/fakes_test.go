package call

import (
	"io"
	"strings"
	"sync"
	"time"
)

// fakeProc is a scriptable process handle. WaitExit returns immediately:
// true once the process has died, false otherwise, standing in for an
// expired grace window.
type fakeProc struct {
	mu             sync.Mutex
	alive          bool
	actions        []string
	dieOnInput     bool
	dieOnInterrupt bool
	dieOnKill      bool
}

func (p *fakeProc) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alive
}

func (p *fakeProc) WriteInput(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, "write")
	if p.dieOnInput {
		p.alive = false
	}
	return nil
}

func (p *fakeProc) Interrupt() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, "interrupt")
	if p.dieOnInterrupt {
		p.alive = false
	}
	return nil
}

func (p *fakeProc) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, "kill")
	if p.dieOnKill {
		p.alive = false
	}
	return nil
}

func (p *fakeProc) WaitExit(timeout time.Duration) bool {
	return !p.Alive()
}

func (p *fakeProc) actionLog() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.actions...)
}

// eventRecorder collects notifications for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) notify(event Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *eventRecorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *eventRecorder) count(t EventType) int {
	n := 0
	for _, et := range r.types() {
		if et == t {
			n++
		}
	}
	return n
}

func (r *eventRecorder) has(t EventType) bool {
	return r.count(t) > 0
}

// fakeLauncher hands out sessions backed by fakeProcs without spawning
// anything.
type fakeLauncher struct {
	mu       sync.Mutex
	failWith error
	launches int
	last     *CallSession
	lastProc *fakeProc
	newProc  func() *fakeProc
}

func (l *fakeLauncher) Launch(destination string, notify Notifier) (*CallSession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.failWith != nil {
		return nil, l.failWith
	}

	proc := &fakeProc{alive: true, dieOnInput: true}
	if l.newProc != nil {
		proc = l.newProc()
	}
	sess := NewSession("test-"+destination, destination, proc, io.NopCloser(strings.NewReader("")), notify)
	sess.emit(EventCalling, "calling "+destination)

	l.launches++
	l.last = sess
	l.lastProc = proc
	return sess, nil
}

func (l *fakeLauncher) launchCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}

func (l *fakeLauncher) lastSession() *CallSession {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}
