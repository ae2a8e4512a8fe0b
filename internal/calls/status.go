package calls

import "strings"

// Status is the canonical, platform-internal call-state vocabulary,
// decoupled from the provider's raw strings.
type Status string

const (
	StatusInitiated  Status = "initiated"
	StatusRinging    Status = "ringing"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusBusy       Status = "busy"
	StatusNoAnswer   Status = "no_answer"
	StatusFailed     Status = "failed"
	StatusCanceled   Status = "canceled"
	StatusUnknown    Status = "unknown"
)

// Normalize maps a provider-reported status string onto the canonical set.
// Total and case-insensitive: anything unrecognized becomes StatusUnknown,
// which is non-terminal, so billing never triggers on ambiguous input.
func Normalize(raw string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusInitiated:
		return StatusInitiated
	case StatusRinging:
		return StatusRinging
	case StatusInProgress, "answered":
		return StatusInProgress
	case StatusCompleted:
		return StatusCompleted
	case StatusBusy:
		return StatusBusy
	case StatusNoAnswer:
		return StatusNoAnswer
	case StatusFailed:
		return StatusFailed
	case StatusCanceled:
		return StatusCanceled
	default:
		return StatusUnknown
	}
}

// IsTerminal reports whether no further billing-relevant transition can
// occur. Terminal states are exactly completed, busy, no_answer, failed
// and canceled.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusBusy, StatusNoAnswer, StatusFailed, StatusCanceled:
		return true
	default:
		return false
	}
}
