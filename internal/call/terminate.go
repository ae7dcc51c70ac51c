package call

import "time"

// hangupCommand is the single-character graceful-hangup command on the
// agent's input channel.
const hangupCommand = "h\n"

const (
	graceWindow = 2 * time.Second
	killWindow  = 10 * time.Second
)

// terminate runs the escalating shutdown sequence: graceful hangup
// command, interrupt signal, forceful kill. Each step is best-effort and
// gated on the process still being alive. Reports whether the process is
// confirmed stopped; false on an already-dead process doubles as the
// re-entrancy guard against double hangup.
func terminate(p Proc) bool {
	if p == nil || !p.Alive() {
		return false
	}

	// pjsua hangs up the call and exits on "h".
	_ = p.WriteInput([]byte(hangupCommand))
	if p.WaitExit(graceWindow) {
		return true
	}

	_ = p.Interrupt()
	if p.WaitExit(graceWindow) {
		return true
	}

	_ = p.Kill()
	// Bounded wait even after the kill: a process stuck in the kernel is
	// an environment fault and must not wedge the caller.
	return p.WaitExit(killWindow)
}
