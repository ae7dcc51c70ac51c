package call

import "strings"

// Verdict is the lifecycle meaning of a single line of agent output.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictAnswered
	VerdictEnded
)

// Classify maps a trimmed line of pjsua output to a lifecycle verdict.
// Matching is substring-based and case-sensitive against pjsua's own log
// vocabulary; the upstream format is free text, not a structured protocol.
func Classify(line string) Verdict {
	switch {
	case strings.Contains(line, "CONFIRMED"):
		return VerdictAnswered
	case strings.Contains(line, "DISCONNECTED"), strings.Contains(line, "Call ended"):
		return VerdictEnded
	default:
		return VerdictNone
	}
}
