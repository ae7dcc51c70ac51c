package call

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"
)

// Proc is the control surface of the external call-agent process: the
// termination sequence and the guards only need liveness, the input
// channel, signals, and exit waiting.
type Proc interface {
	Alive() bool
	WriteInput(data []byte) error
	Interrupt() error
	Kill() error

	// WaitExit blocks until the process exits or the timeout elapses.
	// A non-positive timeout waits indefinitely. Reports whether exit
	// was observed.
	WaitExit(timeout time.Duration) bool
}

// stdinWriter wraps the agent's input pipe with mutex protection.
type stdinWriter struct {
	mu     sync.Mutex
	writer *os.File
	closed bool
}

func (sw *stdinWriter) Write(data []byte) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.closed {
		return fmt.Errorf("stdin pipe closed")
	}
	_, err := sw.writer.Write(data)
	return err
}

func (sw *stdinWriter) Close() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if !sw.closed {
		sw.writer.Close()
		sw.closed = true
	}
}

// agentProcess owns a running call-agent command and its pipes.
type agentProcess struct {
	cmd    *exec.Cmd
	stdin  *stdinWriter
	exited chan struct{}
}

func newAgentProcess(cmd *exec.Cmd, stdin *stdinWriter) *agentProcess {
	p := &agentProcess{
		cmd:    cmd,
		stdin:  stdin,
		exited: make(chan struct{}),
	}
	go p.waitForExit()
	return p
}

// waitForExit reaps the process and closes the exited channel.
func (p *agentProcess) waitForExit() {
	p.cmd.Wait()
	p.stdin.Close()
	close(p.exited)
}

func (p *agentProcess) Alive() bool {
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

func (p *agentProcess) WriteInput(data []byte) error {
	return p.stdin.Write(data)
}

func (p *agentProcess) Interrupt() error {
	if p.cmd.Process == nil {
		return fmt.Errorf("process not started")
	}
	return p.cmd.Process.Signal(os.Interrupt)
}

func (p *agentProcess) Kill() error {
	if p.cmd.Process == nil {
		return fmt.Errorf("process not started")
	}
	return p.cmd.Process.Kill()
}

func (p *agentProcess) WaitExit(timeout time.Duration) bool {
	if timeout <= 0 {
		<-p.exited
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-p.exited:
		return true
	case <-timer.C:
		return false
	}
}
