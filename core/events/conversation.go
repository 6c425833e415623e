package events

const (
	// KindUserSpeechStarted identifies start of user speech heard by the agent.
	KindUserSpeechStarted Kind = "conversation.user_speech_started"
	// KindUserSpeechEnded identifies end of user speech heard by the agent.
	KindUserSpeechEnded Kind = "conversation.user_speech_ended"
	// KindAgentSpeechStarted identifies start of synthesized agent speech.
	KindAgentSpeechStarted Kind = "conversation.agent_speech_started"
	// KindAgentAudioDone identifies completion of synthesized agent speech.
	KindAgentAudioDone Kind = "conversation.agent_audio_done"
	// KindAgentAudioFrame identifies a synthesized agent audio frame.
	KindAgentAudioFrame Kind = "conversation.agent_audio_frame"
	// KindConversationText identifies an authoritative transcript entry for
	// audio the agent actually processed.
	KindConversationText Kind = "conversation.text"
)

// UserSpeechStarted marks the agent detecting user speech.
type UserSpeechStarted struct{ Base }

// NewUserSpeechStarted creates a user speech started event.
func NewUserSpeechStarted() UserSpeechStarted {
	return UserSpeechStarted{Base: NewBase(KindUserSpeechStarted)}
}

// UserSpeechEnded marks the agent detecting end of user speech.
type UserSpeechEnded struct{ Base }

// NewUserSpeechEnded creates a user speech ended event.
func NewUserSpeechEnded() UserSpeechEnded {
	return UserSpeechEnded{Base: NewBase(KindUserSpeechEnded)}
}

// AgentSpeechStarted marks the agent starting to speak.
type AgentSpeechStarted struct{ Base }

// NewAgentSpeechStarted creates an agent speech started event.
func NewAgentSpeechStarted() AgentSpeechStarted {
	return AgentSpeechStarted{Base: NewBase(KindAgentSpeechStarted)}
}

// AgentAudioDone marks the end of the agent's synthesized utterance.
type AgentAudioDone struct{ Base }

// NewAgentAudioDone creates an agent audio done event.
func NewAgentAudioDone() AgentAudioDone {
	return AgentAudioDone{Base: NewBase(KindAgentAudioDone)}
}

// AgentAudioFrame carries a synthesized agent audio frame bound for the
// outbound media sink.
type AgentAudioFrame struct {
	Base
	Audio []byte
}

// NewAgentAudioFrame creates an agent audio frame event.
func NewAgentAudioFrame(audio []byte) AgentAudioFrame {
	return AgentAudioFrame{Base: NewBase(KindAgentAudioFrame), Audio: audio}
}

// ConversationText carries a transcript entry from the conversational link.
type ConversationText struct {
	Base
	Role    string
	Content string
}

// NewConversationText creates a conversation text event.
func NewConversationText(role, content string) ConversationText {
	return ConversationText{Base: NewBase(KindConversationText), Role: role, Content: content}
}
