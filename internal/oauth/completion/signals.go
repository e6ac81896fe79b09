package completion

import "strings"

// Outcome is the status the identity provider round trip reported, or the
// terminal result of a completion run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeContinue Outcome = "continue"
	OutcomeFailure  Outcome = "failure"
	// OutcomeAbandoned means the mount closed before the run could commit.
	OutcomeAbandoned Outcome = "abandoned"
)

// SignalReader exposes the transient key/value entries set by the provider
// redirect. Implementations only read; nothing in this package writes signals.
type SignalReader interface {
	Status() (string, bool)
	ProviderInfo() (string, bool)
}

// Signals is a fixed signal set. It is comparable, so callers can tell whether two
// redirect returns carried the same signals.
type Signals struct {
	RawStatus       string
	RawProviderInfo string
}

// Status is the raw status value. It is compared exactly, never normalized.
func (s Signals) Status() (string, bool) {
	return s.RawStatus, s.RawStatus != ""
}

func (s Signals) ProviderInfo() (string, bool) {
	v := strings.TrimSpace(s.RawProviderInfo)
	return v, v != ""
}

// parseOutcome maps exactly "success" or "continue" to their outcome; any other
// value, including a differently cased one, is failure.
func parseOutcome(raw string, ok bool) Outcome {
	if !ok {
		return OutcomeFailure
	}
	switch Outcome(raw) {
	case OutcomeSuccess:
		return OutcomeSuccess
	case OutcomeContinue:
		return OutcomeContinue
	default:
		return OutcomeFailure
	}
}
