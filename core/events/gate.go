package events

const (
	// KindGateKeepAliveStarted identifies the keepalive timer starting.
	KindGateKeepAliveStarted Kind = "gate.keepalive_started"
	// KindGateKeepAliveStopped identifies the keepalive timer stopping.
	KindGateKeepAliveStopped Kind = "gate.keepalive_stopped"
	// KindGateKeepAliveSent identifies a keepalive message being sent upstream.
	KindGateKeepAliveSent Kind = "gate.keepalive_sent"
	// KindGateFrameBlocked identifies a frame dropped because its sender is muted.
	KindGateFrameBlocked Kind = "gate.frame_blocked"
)

// GateKeepAliveStarted marks the gate entering its keepalive-active state.
type GateKeepAliveStarted struct{ Base }

// NewGateKeepAliveStarted creates a keepalive started event.
func NewGateKeepAliveStarted() GateKeepAliveStarted {
	return GateKeepAliveStarted{Base: NewBase(KindGateKeepAliveStarted)}
}

// GateKeepAliveStopped marks the gate returning to its idle state.
type GateKeepAliveStopped struct{ Base }

// NewGateKeepAliveStopped creates a keepalive stopped event.
func NewGateKeepAliveStopped() GateKeepAliveStopped {
	return GateKeepAliveStopped{Base: NewBase(KindGateKeepAliveStopped)}
}

// GateKeepAliveSent marks one keepalive message written to the
// conversational link.
type GateKeepAliveSent struct{ Base }

// NewGateKeepAliveSent creates a keepalive sent event.
func NewGateKeepAliveSent() GateKeepAliveSent {
	return GateKeepAliveSent{Base: NewBase(KindGateKeepAliveSent)}
}

// GateFrameBlocked marks a frame withheld from the conversational link
// because its sender is muted.
type GateFrameBlocked struct {
	Base
	ParticipantID string
}

// NewGateFrameBlocked creates a frame blocked event.
func NewGateFrameBlocked(participantID string) GateFrameBlocked {
	return GateFrameBlocked{Base: NewBase(KindGateFrameBlocked), ParticipantID: participantID}
}
