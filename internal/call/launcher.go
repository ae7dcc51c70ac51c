package call

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/google/uuid"

	"sip-call-api/internal/config"
)

// Launcher starts the external call-agent process for a destination.
// Implementations emit the "calling" notification and arrange for the
// session to eventually reach its ended state.
type Launcher interface {
	Launch(destination string, notify Notifier) (*CallSession, error)
}

// pjsuaArgs builds the agent's argument vector: identity, registrar,
// credentials, local port, and the destination URI.
func pjsuaArgs(cfg config.Config, destination string) []string {
	return []string{
		"--id", fmt.Sprintf("sip:%s@%s", cfg.SIPID, cfg.SIPDomain),
		"--registrar", fmt.Sprintf("sip:%s", cfg.SIPDomain),
		"--realm", "*",
		"--username", cfg.SIPID,
		"--password", cfg.SIPPassword,
		"--local-port", strconv.Itoa(cfg.LocalPort),
		"--log-level", "5",
		fmt.Sprintf("sip:%s@%s", destination, cfg.SIPDomain),
	}
}

// PJSUALauncher launches pjsua with credentials from a live config
// store. Configuration is read and validated per launch, so .env edits
// apply to the next call.
type PJSUALauncher struct {
	store *config.Store
}

// NewPJSUALauncher creates a launcher backed by the given config store.
func NewPJSUALauncher(store *config.Store) *PJSUALauncher {
	return &PJSUALauncher{store: store}
}

// Launch validates the current configuration, spawns pjsua against the
// destination, and starts the output monitor and timeout guards. All
// failures before the process exists are fatal to the request; no
// session is created.
func (l *PJSUALauncher) Launch(destination string, notify Notifier) (*CallSession, error) {
	cfg := l.store.Current()
	if err := cfg.ValidateSIP(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLaunch, err)
	}

	cmd := exec.Command(cfg.PJSUAPath, pjsuaArgs(cfg, destination)...)

	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("%w: create stdin pipe: %v", ErrLaunch, err)
	}
	cmd.Stdin = stdinR

	// One pipe for stdout and stderr so the monitor sees the agent's
	// combined line stream.
	outR, outW, err := os.Pipe()
	if err != nil {
		stdinR.Close()
		stdinW.Close()
		return nil, fmt.Errorf("%w: create output pipe: %v", ErrLaunch, err)
	}
	cmd.Stdout = outW
	cmd.Stderr = outW

	if err := cmd.Start(); err != nil {
		stdinR.Close()
		stdinW.Close()
		outR.Close()
		outW.Close()
		return nil, fmt.Errorf("%w: %v", ErrLaunch, err)
	}

	// The child now owns the read end of stdin and the write end of the
	// output pipe.
	stdinR.Close()
	outW.Close()

	proc := newAgentProcess(cmd, &stdinWriter{writer: stdinW})
	sess := NewSession(uuid.New().String(), destination, proc, outR, notify)

	sess.emit(EventCalling, fmt.Sprintf("calling %s", destination))

	go sess.monitor()
	go sess.ringGuard(cfg.RingTimeout)
	go sess.talkGuard(cfg.TalkTimeout)

	return sess, nil
}
