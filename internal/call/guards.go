package call

import (
	"fmt"
	"time"
)

// ringGuard ends the call if nobody answers within the deadline. A
// non-positive timeout disables the guard.
func (s *CallSession) ringGuard(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.answered.Done():
	case <-s.ended.Done():
	case <-timer.C:
		// A silently dead process loses this race the same way a
		// still-ringing one does; Terminate's liveness gate sorts
		// them out.
		if s.Terminate() {
			s.emit(EventNoAnswer, fmt.Sprintf("no answer within %ds", int(timeout.Seconds())))
		}
	}
}

// talkGuard caps the call duration, measured from the moment of answer.
// If the call never answers the ring guard owns the deadline and this
// guard exits without action.
func (s *CallSession) talkGuard(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	select {
	case <-s.ended.Done():
		return
	case <-s.answered.Done():
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.ended.Done():
	case <-timer.C:
		if s.Terminate() {
			s.emit(EventTalkTimeout, fmt.Sprintf("talk timeout after %ds", int(timeout.Seconds())))
		}
	}
}
