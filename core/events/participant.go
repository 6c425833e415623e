package events

const (
	// KindParticipantRegistered identifies a participant joining the session.
	KindParticipantRegistered Kind = "participant.registered"
	// KindParticipantUnregistered identifies a participant leaving the session.
	KindParticipantUnregistered Kind = "participant.unregistered"
	// KindParticipantMuted identifies a participant being muted from the agent.
	KindParticipantMuted Kind = "participant.muted_from_agent"
	// KindParticipantUnmuted identifies a participant being unmuted from the agent.
	KindParticipantUnmuted Kind = "participant.unmuted_from_agent"
)

// ParticipantRegistered marks a participant joining the session registry.
type ParticipantRegistered struct {
	Base
	ParticipantID string
	Role          string
}

// NewParticipantRegistered creates a participant registered event.
func NewParticipantRegistered(participantID, role string) ParticipantRegistered {
	return ParticipantRegistered{Base: NewBase(KindParticipantRegistered), ParticipantID: participantID, Role: role}
}

// ParticipantUnregistered marks a participant leaving the session registry.
type ParticipantUnregistered struct {
	Base
	ParticipantID string
}

// NewParticipantUnregistered creates a participant unregistered event.
func NewParticipantUnregistered(participantID string) ParticipantUnregistered {
	return ParticipantUnregistered{Base: NewBase(KindParticipantUnregistered), ParticipantID: participantID}
}

// ParticipantMuted marks a participant's audio being excluded from the
// conversational link.
type ParticipantMuted struct {
	Base
	ParticipantID string
}

// NewParticipantMuted creates a participant muted event.
func NewParticipantMuted(participantID string) ParticipantMuted {
	return ParticipantMuted{Base: NewBase(KindParticipantMuted), ParticipantID: participantID}
}

// ParticipantUnmuted marks a participant's audio being readmitted to the
// conversational link.
type ParticipantUnmuted struct {
	Base
	ParticipantID string
}

// NewParticipantUnmuted creates a participant unmuted event.
func NewParticipantUnmuted(participantID string) ParticipantUnmuted {
	return ParticipantUnmuted{Base: NewBase(KindParticipantUnmuted), ParticipantID: participantID}
}
