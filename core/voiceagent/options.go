package voiceagent

import (
	"github.com/triadvoice/session-core/core/audio"
	"github.com/triadvoice/session-core/core/links"
)

// SessionOptions configures one conversational session: the settings
// declared in the opening handshake plus the callbacks invoked as inbound
// events are demultiplexed.
type SessionOptions struct {
	InputEncoding  audio.EncodingInfo
	OutputEncoding audio.EncodingInfo

	Language    string
	Prompt      string
	Greeting    string
	ListenModel string
	ThinkModel  string
	SpeakModel  string
	Functions   []FunctionDefinition

	WelcomeCallback             func()
	SettingsAppliedCallback     func()
	UserSpeechStartedCallback   func()
	UserSpeechEndedCallback     func()
	AgentSpeechStartedCallback  func()
	AgentAudioDoneCallback      func()
	AgentAudioCallback          func(audio []byte)
	ConversationTextCallback    func(role, content string)
	PromptUpdatedCallback       func()
	FunctionCallRequestCallback func(call FunctionCallRequest)
	ErrorCallback               func(code, message string)
	StateChangedCallback        func(state links.State)
	TerminalErrorCallback       func(err error)
}

type SessionOption func(*SessionOptions)

func WithInputEncoding(encodingInfo audio.EncodingInfo) SessionOption {
	return func(o *SessionOptions) {
		o.InputEncoding = encodingInfo
	}
}

func WithOutputEncoding(encodingInfo audio.EncodingInfo) SessionOption {
	return func(o *SessionOptions) {
		o.OutputEncoding = encodingInfo
	}
}

func WithLanguage(language string) SessionOption {
	return func(o *SessionOptions) {
		o.Language = language
	}
}

// WithPrompt sets the base reasoning prompt declared in the handshake.
func WithPrompt(prompt string) SessionOption {
	return func(o *SessionOptions) {
		o.Prompt = prompt
	}
}

// WithGreeting makes the agent open the session with a spoken greeting.
func WithGreeting(greeting string) SessionOption {
	return func(o *SessionOptions) {
		o.Greeting = greeting
	}
}

func WithListenModel(model string) SessionOption {
	return func(o *SessionOptions) {
		o.ListenModel = model
	}
}

func WithThinkModel(model string) SessionOption {
	return func(o *SessionOptions) {
		o.ThinkModel = model
	}
}

func WithSpeakModel(model string) SessionOption {
	return func(o *SessionOptions) {
		o.SpeakModel = model
	}
}

// WithFunctions declares callable function definitions in the handshake.
func WithFunctions(functions ...FunctionDefinition) SessionOption {
	return func(o *SessionOptions) {
		o.Functions = append(o.Functions, functions...)
	}
}

func WithWelcomeCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.WelcomeCallback = callback
	}
}

func WithSettingsAppliedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.SettingsAppliedCallback = callback
	}
}

func WithUserSpeechStartedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.UserSpeechStartedCallback = callback
	}
}

func WithUserSpeechEndedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.UserSpeechEndedCallback = callback
	}
}

func WithAgentSpeechStartedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.AgentSpeechStartedCallback = callback
	}
}

func WithAgentAudioDoneCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.AgentAudioDoneCallback = callback
	}
}

// WithAgentAudioCallback registers a callback for synthesized agent audio.
//
// The provided slice is passed through as-is (no defensive copy); the
// callback runs inline on the read loop and should not block.
func WithAgentAudioCallback(callback func(audio []byte)) SessionOption {
	return func(o *SessionOptions) {
		o.AgentAudioCallback = callback
	}
}

// WithConversationTextCallback registers a callback for the authoritative
// transcript of audio this link actually processed.
func WithConversationTextCallback(callback func(role, content string)) SessionOption {
	return func(o *SessionOptions) {
		o.ConversationTextCallback = callback
	}
}

func WithPromptUpdatedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) {
		o.PromptUpdatedCallback = callback
	}
}

func WithFunctionCallRequestCallback(callback func(call FunctionCallRequest)) SessionOption {
	return func(o *SessionOptions) {
		o.FunctionCallRequestCallback = callback
	}
}

func WithErrorCallback(callback func(code, message string)) SessionOption {
	return func(o *SessionOptions) {
		o.ErrorCallback = callback
	}
}

func WithStateChangedCallback(callback func(state links.State)) SessionOption {
	return func(o *SessionOptions) {
		o.StateChangedCallback = callback
	}
}

// WithTerminalErrorCallback registers a callback invoked once when the link
// exhausts its reconnect budget and becomes permanently failed.
func WithTerminalErrorCallback(callback func(err error)) SessionOption {
	return func(o *SessionOptions) {
		o.TerminalErrorCallback = callback
	}
}
