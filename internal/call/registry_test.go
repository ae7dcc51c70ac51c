package call

import (
	"errors"
	"testing"
	"time"
)

func TestRegistry_StartEmptyDestination(t *testing.T) {
	l := &fakeLauncher{}
	reg := NewRegistry(l)

	for _, dest := range []string{"", "   ", "\t\n"} {
		if _, err := reg.Start(dest); !errors.Is(err, ErrEmptyDestination) {
			t.Errorf("Start(%q): expected ErrEmptyDestination, got %v", dest, err)
		}
	}
	if l.launchCount() != 0 {
		t.Errorf("expected no launches, got %d", l.launchCount())
	}
}

func TestRegistry_StartTrimsDestination(t *testing.T) {
	l := &fakeLauncher{}
	reg := NewRegistry(l)

	sess, err := reg.Start("  1004  ")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if sess.Destination != "1004" {
		t.Errorf("expected trimmed destination, got %q", sess.Destination)
	}
}

func TestRegistry_StartConflict(t *testing.T) {
	l := &fakeLauncher{}
	reg := NewRegistry(l)

	if _, err := reg.Start("1001"); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if _, err := reg.Start("1002"); !errors.Is(err, ErrCallActive) {
		t.Fatalf("expected ErrCallActive, got %v", err)
	}
	if l.launchCount() != 1 {
		t.Errorf("conflicting start must not launch a second process, launches=%d", l.launchCount())
	}
}

func TestRegistry_StartLaunchFailure(t *testing.T) {
	l := &fakeLauncher{failWith: ErrLaunch}
	reg := NewRegistry(l)

	if _, err := reg.Start("1001"); !errors.Is(err, ErrLaunch) {
		t.Fatalf("expected ErrLaunch, got %v", err)
	}

	// A failed launch leaves the slot empty.
	if _, active := reg.Status(); active {
		t.Error("expected idle status after failed launch")
	}
}

func TestRegistry_StatusActive(t *testing.T) {
	l := &fakeLauncher{}
	reg := NewRegistry(l)

	if _, active := reg.Status(); active {
		t.Fatal("expected idle status before any call")
	}

	if _, err := reg.Start("1001"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	dest, active := reg.Status()
	if !active {
		t.Fatal("expected active status")
	}
	if dest != "1001" {
		t.Errorf("expected destination 1001, got %q", dest)
	}
}

func TestRegistry_HangupNoActiveCall(t *testing.T) {
	reg := NewRegistry(&fakeLauncher{})
	if _, err := reg.Hangup(); !errors.Is(err, ErrNoActiveCall) {
		t.Fatalf("expected ErrNoActiveCall, got %v", err)
	}
}

func TestRegistry_HangupClearsSlot(t *testing.T) {
	l := &fakeLauncher{}
	reg := NewRegistry(l)

	if _, err := reg.Start("1001"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	dest, err := reg.Hangup()
	if err != nil {
		t.Fatalf("Hangup failed: %v", err)
	}
	if dest != "1001" {
		t.Errorf("expected destination 1001, got %q", dest)
	}
	if _, active := reg.Status(); active {
		t.Error("expected idle status after hangup")
	}
	if _, err := reg.Hangup(); !errors.Is(err, ErrNoActiveCall) {
		t.Errorf("expected ErrNoActiveCall on second hangup, got %v", err)
	}
}

func TestRegistry_HangupTerminationFailedStillClearsSlot(t *testing.T) {
	l := &fakeLauncher{newProc: func() *fakeProc {
		return &fakeProc{alive: true} // survives everything
	}}
	reg := NewRegistry(l)

	if _, err := reg.Start("1001"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, err := reg.Hangup(); !errors.Is(err, ErrTerminationFailed) {
		t.Fatalf("expected ErrTerminationFailed, got %v", err)
	}
	if _, active := reg.Status(); active {
		t.Error("slot must be cleared even when termination fails")
	}
}

func TestRegistry_EndedSessionFreesSlot(t *testing.T) {
	l := &fakeLauncher{}
	reg := NewRegistry(l)

	if _, err := reg.Start("1001"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	l.lastSession().ended.Set()

	// Status projects ENDED as idle immediately.
	if _, active := reg.Status(); active {
		t.Error("expected idle status once session ended")
	}

	// A new call is admitted over the ended session.
	if _, err := reg.Start("1002"); err != nil {
		t.Fatalf("Start after ended session failed: %v", err)
	}
	if l.launchCount() != 2 {
		t.Errorf("expected 2 launches, got %d", l.launchCount())
	}
}

func TestRegistry_HangupAfterEnded(t *testing.T) {
	l := &fakeLauncher{}
	reg := NewRegistry(l)

	if _, err := reg.Start("1001"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	l.lastSession().ended.Set()

	if _, err := reg.Hangup(); !errors.Is(err, ErrNoActiveCall) {
		t.Fatalf("expected ErrNoActiveCall for ended session, got %v", err)
	}
}

func TestRegistry_SubscribeHistoryAndLiveEvents(t *testing.T) {
	l := &fakeLauncher{}
	reg := NewRegistry(l)

	if _, err := reg.Start("1001"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	subID, ch, history := reg.Subscribe()
	if len(history) == 0 {
		t.Fatal("expected calling event in history")
	}
	if history[0].Type != EventCalling {
		t.Errorf("expected calling event first, got %s", history[0].Type)
	}

	l.lastSession().emit(EventConnected, "call connected")

	select {
	case event := <-ch:
		if event.Type != EventConnected {
			t.Errorf("expected connected event, got %s", event.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("live event not delivered")
	}

	reg.Unsubscribe(subID)
	if _, ok := <-ch; ok {
		t.Error("expected channel closed after unsubscribe")
	}
}

func TestRegistry_UnsubscribeUnknownID(t *testing.T) {
	reg := NewRegistry(&fakeLauncher{})
	// Should not panic.
	reg.Unsubscribe("nonexistent")
}

func TestRegistry_ShutdownIdle(t *testing.T) {
	reg := NewRegistry(&fakeLauncher{})
	// Should be a quiet no-op with no active call.
	reg.Shutdown()
}
