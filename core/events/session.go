package events

const (
	// KindAIPaused identifies the session-wide AI pause engaging.
	KindAIPaused Kind = "session.ai_paused"
	// KindAIResumed identifies the session-wide AI pause releasing.
	KindAIResumed Kind = "session.ai_resumed"
	// KindFrameDropped identifies an invalid or unroutable frame being dropped.
	KindFrameDropped Kind = "session.frame_dropped"
	// KindGuidanceApplied identifies a guidance prompt confirmed by the agent.
	KindGuidanceApplied Kind = "session.guidance_applied"
	// KindGuidanceTimedOut identifies a guidance prompt whose confirmation
	// never arrived.
	KindGuidanceTimedOut Kind = "session.guidance_timed_out"
)

// AIPaused marks client audio being withheld from the conversational link.
type AIPaused struct{ Base }

// NewAIPaused creates an AI paused event.
func NewAIPaused() AIPaused {
	return AIPaused{Base: NewBase(KindAIPaused)}
}

// AIResumed marks client audio flowing to the conversational link again.
type AIResumed struct{ Base }

// NewAIResumed creates an AI resumed event.
func NewAIResumed() AIResumed {
	return AIResumed{Base: NewBase(KindAIResumed)}
}

// FrameDropped marks a frame discarded before reaching any link.
type FrameDropped struct {
	Base
	ParticipantID string
	Reason        string
}

// NewFrameDropped creates a frame dropped event.
func NewFrameDropped(participantID, reason string) FrameDropped {
	return FrameDropped{Base: NewBase(KindFrameDropped), ParticipantID: participantID, Reason: reason}
}

// GuidanceApplied marks a guidance prompt confirmed by the agent.
type GuidanceApplied struct {
	Base
	RequestID string
}

// NewGuidanceApplied creates a guidance applied event.
func NewGuidanceApplied(requestID string) GuidanceApplied {
	return GuidanceApplied{Base: NewBase(KindGuidanceApplied), RequestID: requestID}
}

// GuidanceTimedOut marks a guidance prompt whose confirmation did not
// arrive within the wait budget.
type GuidanceTimedOut struct {
	Base
	RequestID string
}

// NewGuidanceTimedOut creates a guidance timed out event.
func NewGuidanceTimedOut(requestID string) GuidanceTimedOut {
	return GuidanceTimedOut{Base: NewBase(KindGuidanceTimedOut), RequestID: requestID}
}
