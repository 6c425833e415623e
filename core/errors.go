package routing

import "errors"

var (
	// ErrUnknownParticipant is returned when a control operation targets an
	// id that was never registered.
	ErrUnknownParticipant = errors.New("participant not registered")
	// ErrGuidanceTimeout is returned when a guidance prompt was sent but its
	// confirmation never arrived within the wait budget.
	ErrGuidanceTimeout = errors.New("guidance confirmation timed out")
	// ErrLinkNotReady is returned when a control operation requires a ready
	// upstream link.
	ErrLinkNotReady = errors.New("link not ready")
	// ErrFunctionNotFound is returned when a function call request names an
	// unregistered function.
	ErrFunctionNotFound = errors.New("function not found")
	// ErrRouterClosed is returned for operations on a cleaned-up router.
	ErrRouterClosed = errors.New("router closed")
)
