package links

import "time"

// State describes the lifecycle of one persistent upstream connection.
type State string

const (
	StateDisconnected    State = "disconnected"
	StateConnecting      State = "connecting"
	StateSettingsPending State = "settings_pending"
	StateReady           State = "ready"
	StateClosing         State = "closing"
	// StateFailed is terminal: the reconnect budget is exhausted and the
	// link will not be retried for the remainder of the session.
	StateFailed State = "failed"
)

func (s State) IsTerminal() bool {
	return s == StateFailed
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// step. Failed is absorbing; Closing only unwinds to Disconnected.
func (s State) CanTransition(next State) bool {
	if s == next {
		return false
	}

	switch s {
	case StateDisconnected:
		return next == StateConnecting || next == StateFailed
	case StateConnecting:
		// Links whose settings travel with the connection request (query
		// string handshakes) go straight to Ready.
		return next == StateSettingsPending || next == StateReady || next == StateDisconnected || next == StateFailed
	case StateSettingsPending:
		return next == StateReady || next == StateDisconnected || next == StateClosing || next == StateFailed
	case StateReady:
		return next == StateClosing || next == StateDisconnected || next == StateFailed
	case StateClosing:
		return next == StateDisconnected
	case StateFailed:
		return false
	}
	return false
}

const (
	// DefaultReconnectAttempts bounds how often a link retries after an
	// unexpected closure before going Failed.
	DefaultReconnectAttempts = 3
	// DefaultReconnectBaseDelay is the linear backoff unit: the n-th attempt
	// waits n times this long.
	DefaultReconnectBaseDelay = time.Second
)

// ReconnectDelay returns the linear backoff delay for the given 1-based
// attempt, or false once the attempt budget is exhausted.
func ReconnectDelay(attempt, maxAttempts int, base time.Duration) (time.Duration, bool) {
	if attempt < 1 || attempt > maxAttempts {
		return 0, false
	}
	return time.Duration(attempt) * base, true
}
