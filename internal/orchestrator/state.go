package orchestrator

import "github.com/ElijahAhianyo/yle-dl/internal/exitcode"

// attemptState tracks the retry loop over one clip's stream candidates.
type attemptState int

const (
	// statePending: no candidate attempted yet.
	statePending attemptState = iota
	// stateRetrying: the latest attempt failed with a retry-eligible code
	// and another candidate may be tried.
	stateRetrying
	// stateDone: the latest attempt produced a terminal code; iteration
	// stops and that code is the clip's result.
	stateDone
	// stateExhausted: every candidate was consumed without reaching a
	// terminal code; the clip's result is the latest observed code.
	stateExhausted
)

// advance is the pure transition function of the retry loop: given the
// current state and the latest attempt's result, it yields the next state.
// It never performs I/O, so the loop's policy is testable in isolation.
func advance(s attemptState, latest exitcode.Code, needsRetry RetryFunc) attemptState {
	switch s {
	case stateDone, stateExhausted:
		return s
	default:
		if needsRetry(latest) {
			return stateRetrying
		}
		return stateDone
	}
}

// exhaust marks the end of the candidate list.
func exhaust(s attemptState) attemptState {
	if s == stateDone {
		return s
	}
	return stateExhausted
}
