package call

import (
	"bufio"
	"log"
	"strings"
)

const scannerBufSize = 1024 * 1024 // 1 MB

// monitor reads the agent's combined output until the stream closes,
// classifying each line and driving the answered/ended signals. It is
// the single writer for both signals, so notifications are delivered in
// the order of the transitions that caused them.
func (s *CallSession) monitor() {
	scanner := bufio.NewScanner(s.output)
	scanner.Buffer(make([]byte, scannerBufSize), scannerBufSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		log.Printf("[pjsua] %s", line)
		s.emit(EventOutput, line)

		switch Classify(line) {
		case VerdictAnswered:
			if s.answered.Set() {
				s.emit(EventConnected, "call connected")
			}
		case VerdictEnded:
			if s.ended.Set() {
				s.emit(EventEnded, "call ended")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("call %s: output read error: %v", s.ID, err)
	}
	s.output.Close()

	// Stream closed for any reason: the session is over, whether or not
	// the agent printed a recognizable end-of-call line.
	s.ended.Set()
	s.emit(EventTerminated, "call process terminated")
}
