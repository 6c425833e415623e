package events

const (
	// KindLinkStateChanged identifies an upstream link lifecycle transition.
	KindLinkStateChanged Kind = "link.state_changed"
	// KindLinkFailed identifies an upstream link exhausting its reconnect budget.
	KindLinkFailed Kind = "link.failed"
	// KindLinkError identifies a non-fatal upstream link error.
	KindLinkError Kind = "link.error"
)

// LinkStateChanged marks an upstream link moving between lifecycle states.
type LinkStateChanged struct {
	Base
	Link  string
	State string
}

// NewLinkStateChanged creates a link state changed event.
func NewLinkStateChanged(link, state string) LinkStateChanged {
	return LinkStateChanged{Base: NewBase(KindLinkStateChanged), Link: link, State: state}
}

// LinkFailed marks an upstream link becoming permanently unavailable for
// this session.
type LinkFailed struct {
	Base
	Link string
	Err  string
}

// NewLinkFailed creates a link failed event.
func NewLinkFailed(link, err string) LinkFailed {
	return LinkFailed{Base: NewBase(KindLinkFailed), Link: link, Err: err}
}

// LinkError carries a non-fatal error reported by an upstream link.
type LinkError struct {
	Base
	Link    string
	Code    string
	Message string
}

// NewLinkError creates a link error event.
func NewLinkError(link, code, message string) LinkError {
	return LinkError{Base: NewBase(KindLinkError), Link: link, Code: code, Message: message}
}
