package routing

import (
	"context"
	"time"

	"github.com/triadvoice/session-core/core/audio"
	"github.com/triadvoice/session-core/core/events"
	"github.com/triadvoice/session-core/core/links"
	"github.com/triadvoice/session-core/core/transcription"
	"github.com/triadvoice/session-core/core/voiceagent"
	"github.com/triadvoice/session-core/internal/utils"
)

// ConversationalLink is the upstream voice agent connection the router
// forwards gated audio into. [deepgram.AgentClient] implements it.
type ConversationalLink interface {
	Start(ctx context.Context, opts ...voiceagent.SessionOption) error
	SendAudio(audio []byte) bool
	KeepAlive() error
	UpdatePrompt(prompt string) error
	InjectUserMessage(content string) error
	InjectAgentMessage(content string) error
	FunctionCallResponse(callID, output string) error
	Clear() error
	CloseStream(ctx context.Context) error
	State() links.State
}

// TranscriptionLink is the upstream transcription-only connection that
// receives all human audio regardless of gating.
// [deepgram.TranscriptionClient] implements it.
type TranscriptionLink interface {
	Transcribe(ctx context.Context, opts ...transcription.TranscriptionOption) error
	SendAudio(audio []byte) bool
	KeepAlive() error
	CloseStream(ctx context.Context) error
	State() links.State
}

// Options configure a router for the lifetime of one session.
type Options struct {
	ConversationalLink ConversationalLink
	TranscriptionLink  TranscriptionLink

	BasePrompt string
	Greeting   string
	Language   string

	// InputEncoding applies to both links; nil keeps each link's default.
	InputEncoding  *audio.EncodingInfo
	OutputEncoding *audio.EncodingInfo

	KeepAliveInterval time.Duration
	GuidanceTimeout   time.Duration

	Functions []Function
}

type RouterOption func(*Options)

// WithConversationalLink sets the voice agent connection to route into.
func WithConversationalLink(link ConversationalLink) RouterOption {
	return func(o *Options) {
		o.ConversationalLink = link
	}
}

// WithTranscriptionLink sets the transcription-only connection to route
// into.
func WithTranscriptionLink(link TranscriptionLink) RouterOption {
	return func(o *Options) {
		o.TranscriptionLink = link
	}
}

// WithBasePrompt sets the prompt the agent starts the session with.
// Guidance prompts are appended to it, never replace it.
func WithBasePrompt(prompt string) RouterOption {
	return func(o *Options) {
		o.BasePrompt = prompt
	}
}

func WithGreeting(greeting string) RouterOption {
	return func(o *Options) {
		o.Greeting = greeting
	}
}

func WithLanguage(language string) RouterOption {
	return func(o *Options) {
		o.Language = language
	}
}

// WithInputEncoding sets the audio format participants send, declared to
// both upstream links.
func WithInputEncoding(encodingInfo audio.EncodingInfo) RouterOption {
	return func(o *Options) {
		o.InputEncoding = utils.Ptr(encodingInfo)
	}
}

// WithOutputEncoding sets the audio format the agent's synthesized speech
// arrives in.
func WithOutputEncoding(encodingInfo audio.EncodingInfo) RouterOption {
	return func(o *Options) {
		o.OutputEncoding = utils.Ptr(encodingInfo)
	}
}

// WithKeepAliveInterval overrides how often the gate sends keepalives
// while the conversational link is starved of audio.
func WithKeepAliveInterval(interval time.Duration) RouterOption {
	return func(o *Options) {
		o.KeepAliveInterval = interval
	}
}

// WithGuidanceTimeout overrides how long a guidance request waits for the
// agent's confirmation.
func WithGuidanceTimeout(timeout time.Duration) RouterOption {
	return func(o *Options) {
		o.GuidanceTimeout = timeout
	}
}

// WithFunctions registers functions the agent may call during the session.
func WithFunctions(functions ...Function) RouterOption {
	return func(o *Options) {
		o.Functions = append(o.Functions, functions...)
	}
}

// RouteOptions carry the per-session callbacks wired when routing starts.
type RouteOptions struct {
	// EventCallback receives every event the session emits.
	EventCallback func(event events.Event)

	TranscriptCallback         func(transcript events.Transcript)
	ConversationTextCallback   func(role, content string)
	AgentAudioCallback         func(audio []byte)
	UserSpeechStartedCallback  func()
	UserSpeechEndedCallback    func()
	AgentSpeechStartedCallback func()
	AgentAudioDoneCallback     func()

	// LinkFailedCallback fires when an upstream link exhausts its
	// reconnect budget and the session degrades.
	LinkFailedCallback func(link string, err error)
}

type RouteOption func(*RouteOptions)

// WithEventCallback registers a callback receiving every session event.
func WithEventCallback(callback func(event events.Event)) RouteOption {
	return func(o *RouteOptions) {
		o.EventCallback = callback
	}
}

// WithTranscriptCallback registers a callback for transcription results
// from the transcription link.
func WithTranscriptCallback(callback func(transcript events.Transcript)) RouteOption {
	return func(o *RouteOptions) {
		o.TranscriptCallback = callback
	}
}

// WithConversationTextCallback registers a callback for the authoritative
// conversation transcript from the voice agent.
func WithConversationTextCallback(callback func(role, content string)) RouteOption {
	return func(o *RouteOptions) {
		o.ConversationTextCallback = callback
	}
}

// WithAgentAudioCallback registers a callback for synthesized agent audio
// bound for the session's media sink.
func WithAgentAudioCallback(callback func(audio []byte)) RouteOption {
	return func(o *RouteOptions) {
		o.AgentAudioCallback = callback
	}
}

func WithUserSpeechStartedCallback(callback func()) RouteOption {
	return func(o *RouteOptions) {
		o.UserSpeechStartedCallback = callback
	}
}

func WithUserSpeechEndedCallback(callback func()) RouteOption {
	return func(o *RouteOptions) {
		o.UserSpeechEndedCallback = callback
	}
}

func WithAgentSpeechStartedCallback(callback func()) RouteOption {
	return func(o *RouteOptions) {
		o.AgentSpeechStartedCallback = callback
	}
}

func WithAgentAudioDoneCallback(callback func()) RouteOption {
	return func(o *RouteOptions) {
		o.AgentAudioDoneCallback = callback
	}
}

// WithLinkFailedCallback registers a callback fired when an upstream link
// becomes permanently unavailable for this session.
func WithLinkFailedCallback(callback func(link string, err error)) RouteOption {
	return func(o *RouteOptions) {
		o.LinkFailedCallback = callback
	}
}
