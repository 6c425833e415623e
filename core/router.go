package routing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/triadvoice/session-core/core/events"
	"github.com/triadvoice/session-core/core/links"
	"github.com/triadvoice/session-core/core/transcription"
	transcriptiondeepgram "github.com/triadvoice/session-core/core/transcription/deepgram"
	"github.com/triadvoice/session-core/core/voiceagent"
	voiceagentdeepgram "github.com/triadvoice/session-core/core/voiceagent/deepgram"
)

const (
	linkConversational = "conversational"
	linkTranscription  = "transcription"
)

// Router is the single ingress point for a session's audio. It fans each
// frame out to the conversational and transcription links according to the
// sender's role, the gate's muted set, and the session-wide AI pause.
//
// One Router owns one session. Route starts the upstream links; RouteAudio
// is safe to call from the transport's receive goroutine.
type Router struct {
	options Options

	conversational ConversationalLink
	transcriber    TranscriptionLink

	registry  *participantRegistry
	gate      *gate
	guidance  *guidanceChannel
	functions *functionBridge
	stats     *statsRecorder

	framesReceived metric.Int64Counter

	emitEvent eventEmitter

	closed      atomic.Bool
	closeOnce   sync.Once
	cancelHook  chan struct{}
	baseContext context.Context
}

func NewRouter(opts ...RouterOption) *Router {
	options := Options{
		KeepAliveInterval: DefaultKeepAliveInterval,
		GuidanceTimeout:   DefaultGuidanceTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.ConversationalLink == nil {
		options.ConversationalLink = voiceagentdeepgram.NewAgentClient()
	}
	if options.TranscriptionLink == nil {
		options.TranscriptionLink = transcriptiondeepgram.NewTranscriptionClient()
	}

	r := &Router{
		options:        options,
		conversational: options.ConversationalLink,
		transcriber:    options.TranscriptionLink,
		registry:       newParticipantRegistry(),
		stats:          newStatsRecorder(),
		emitEvent:      noopEventEmitter,
		baseContext:    context.Background(),
	}
	r.gate = newGate(r.conversational, options.KeepAliveInterval)
	r.guidance = newGuidanceChannel(r.conversational, options.BasePrompt, options.GuidanceTimeout)
	r.functions = newFunctionBridge(r.conversational, options.Functions)

	// A departing participant must not leave a mute behind for a reused id.
	r.registry.onUnregister = r.gate.unmute

	r.framesReceived, _ = meter.Int64Counter("session.audio.frames_received")

	return r
}

// Route opens both upstream links and wires their events to the session's
// callbacks. Call it at most once per Router; cancelling ctx closes the
// Router.
func (r *Router) Route(ctx context.Context, opts ...RouteOption) error {
	if r.closed.Load() {
		return ErrRouterClosed
	}

	routeOptions := RouteOptions{}
	for _, opt := range opts {
		opt(&routeOptions)
	}

	emit := newCallbackEventEmitter(routeOptions)
	r.emitEvent = emit
	r.registry.emitEvent = emit
	r.gate.emitEvent = emit
	r.guidance.emitEvent = emit
	r.functions.emitEvent = emit

	r.baseContext = ctx

	ctx, span := tracer.Start(ctx, "start session routing")
	defer span.End()

	conversationalErr := r.startConversational(ctx, routeOptions)
	transcriptionErr := r.startTranscription(ctx, routeOptions)

	// One dead link degrades the session; both dead ends it.
	if conversationalErr != nil && transcriptionErr != nil {
		err := errors.Join(conversationalErr, transcriptionErr)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if conversationalErr != nil {
		logger.Warn("conversational link unavailable, continuing transcription-only", "error", conversationalErr)
		span.RecordError(conversationalErr)
	}
	if transcriptionErr != nil {
		logger.Warn("transcription link unavailable, continuing without coach transcripts", "error", transcriptionErr)
		span.RecordError(transcriptionErr)
	}

	r.cancelHook = withContextCancelHook(r.baseContext, r.Cleanup)

	return nil
}

func (r *Router) startConversational(ctx context.Context, routeOptions RouteOptions) error {
	emit := r.emitEvent

	sessionOptions := []voiceagent.SessionOption{
		voiceagent.WithPrompt(r.options.BasePrompt),
		voiceagent.WithFunctions(r.functions.definitions()...),
		voiceagent.WithUserSpeechStartedCallback(func() { emit(events.NewUserSpeechStarted()) }),
		voiceagent.WithUserSpeechEndedCallback(func() { emit(events.NewUserSpeechEnded()) }),
		voiceagent.WithAgentSpeechStartedCallback(func() { emit(events.NewAgentSpeechStarted()) }),
		voiceagent.WithAgentAudioDoneCallback(func() { emit(events.NewAgentAudioDone()) }),
		voiceagent.WithAgentAudioCallback(func(audio []byte) { emit(events.NewAgentAudioFrame(audio)) }),
		voiceagent.WithConversationTextCallback(func(role, content string) {
			emit(events.NewConversationText(role, content))
		}),
		voiceagent.WithPromptUpdatedCallback(r.guidance.onPromptUpdated),
		voiceagent.WithFunctionCallRequestCallback(func(call voiceagent.FunctionCallRequest) {
			r.functions.dispatch(r.baseContext, call)
		}),
		voiceagent.WithErrorCallback(func(code, message string) {
			emit(events.NewLinkError(linkConversational, code, message))
		}),
		voiceagent.WithStateChangedCallback(func(state links.State) {
			emit(events.NewLinkStateChanged(linkConversational, string(state)))
		}),
		voiceagent.WithTerminalErrorCallback(func(err error) {
			emit(events.NewLinkFailed(linkConversational, err.Error()))
			if routeOptions.LinkFailedCallback != nil {
				routeOptions.LinkFailedCallback(linkConversational, err)
			}
		}),
	}
	if r.options.Greeting != "" {
		sessionOptions = append(sessionOptions, voiceagent.WithGreeting(r.options.Greeting))
	}
	if r.options.Language != "" {
		sessionOptions = append(sessionOptions, voiceagent.WithLanguage(r.options.Language))
	}
	if r.options.InputEncoding != nil {
		sessionOptions = append(sessionOptions, voiceagent.WithInputEncoding(*r.options.InputEncoding))
	}
	if r.options.OutputEncoding != nil {
		sessionOptions = append(sessionOptions, voiceagent.WithOutputEncoding(*r.options.OutputEncoding))
	}

	if err := r.conversational.Start(ctx, sessionOptions...); err != nil {
		return fmt.Errorf("failed to start conversational link: %w", err)
	}
	return nil
}

func (r *Router) startTranscription(ctx context.Context, routeOptions RouteOptions) error {
	emit := r.emitEvent

	transcriptionOptions := []transcription.TranscriptionOption{
		transcription.WithResultCallback(func(result transcription.Result) {
			words := make([]events.TranscriptWord, 0, len(result.Words))
			for _, word := range result.Words {
				words = append(words, events.TranscriptWord{
					Word:       word.Word,
					Start:      word.Start,
					End:        word.End,
					Confidence: word.Confidence,
				})
			}
			if result.IsFinal {
				emit(events.NewTranscriptFinal(result.Transcript, result.Confidence, words))
			} else {
				emit(events.NewTranscriptInterim(result.Transcript, result.Confidence, words))
			}
		}),
		transcription.WithSpeechStartedCallback(func() { emit(events.NewTranscriptSpeechStarted()) }),
		transcription.WithUtteranceEndCallback(func() { emit(events.NewTranscriptUtteranceEnd()) }),
		transcription.WithErrorCallback(func(code, message string) {
			emit(events.NewLinkError(linkTranscription, code, message))
		}),
		transcription.WithStateChangedCallback(func(state links.State) {
			emit(events.NewLinkStateChanged(linkTranscription, string(state)))
		}),
		transcription.WithTerminalErrorCallback(func(err error) {
			emit(events.NewLinkFailed(linkTranscription, err.Error()))
			if routeOptions.LinkFailedCallback != nil {
				routeOptions.LinkFailedCallback(linkTranscription, err)
			}
		}),
	}
	if r.options.InputEncoding != nil {
		transcriptionOptions = append(transcriptionOptions, transcription.WithEncodingInfo(*r.options.InputEncoding))
	}

	if err := r.transcriber.Transcribe(ctx, transcriptionOptions...); err != nil {
		return fmt.Errorf("failed to start transcription link: %w", err)
	}
	return nil
}

// RouteAudio forwards one frame according to the sender's role. It never
// blocks on a link: each frame gets exactly one send attempt per target and
// is dropped, counted, on refusal.
func (r *Router) RouteAudio(audio []byte, participantID string) {
	if r.closed.Load() {
		r.emitEvent(events.NewFrameDropped(participantID, "session closed"))
		return
	}

	r.stats.recordReceived(participantID)
	role := r.registry.roleOf(participantID)
	r.framesReceived.Add(r.baseContext, 1, metric.WithAttributes(attribute.String("role", string(role))))

	if len(audio) == 0 {
		r.stats.recordInvalid(participantID)
		r.emitEvent(events.NewFrameDropped(participantID, "empty frame"))
		return
	}

	switch role {
	case RoleAI:
		// The agent's own audio loops back through the transport; routing
		// it upstream would make the agent hear itself.
		r.emitEvent(events.NewFrameDropped(participantID, "agent audio is not routed"))
	case RoleCoach:
		r.sendTranscription(participantID, audio)
		r.sendConversationalGated(participantID, audio)
	case RoleClient, RoleUnknown:
		if r.gate.isAIPaused() {
			r.sendTranscription(participantID, audio)
			return
		}
		r.sendConversationalGated(participantID, audio)
	}
}

func (r *Router) sendConversationalGated(participantID string, audio []byte) {
	sent, blocked := r.gate.routeIfUnmuted(participantID, audio)
	switch {
	case sent:
		r.stats.recordConversational(participantID)
	case blocked:
		r.stats.recordBlocked(participantID)
	default:
		r.stats.recordSendFailure(participantID)
		r.emitEvent(events.NewFrameDropped(participantID, "conversational link not ready"))
	}
}

func (r *Router) sendTranscription(participantID string, audio []byte) {
	if !r.transcriber.SendAudio(audio) {
		r.stats.recordSendFailure(participantID)
		r.emitEvent(events.NewFrameDropped(participantID, "transcription link not ready"))
		return
	}
	r.stats.recordTranscription(participantID)
}

// RegisterParticipant adds a participant to the session. Registering an id
// again overwrites its role and display name.
func (r *Router) RegisterParticipant(id string, role Role, displayName string) {
	r.registry.register(id, role, displayName)
}

// UnregisterParticipant removes a participant and clears any mute it held.
func (r *Router) UnregisterParticipant(id string) {
	r.registry.unregister(id)
}

func (r *Router) Participants() []Participant {
	return r.registry.snapshot()
}

// MuteParticipant excludes a registered participant's audio from the
// conversational link. Transcription forwarding is unaffected.
func (r *Router) MuteParticipant(id string) error {
	if !r.registry.isRegistered(id) {
		return fmt.Errorf("%w: %q", ErrUnknownParticipant, id)
	}
	r.gate.mute(id)
	return nil
}

// UnmuteParticipant readmits a registered participant's audio to the
// conversational link.
func (r *Router) UnmuteParticipant(id string) error {
	if !r.registry.isRegistered(id) {
		return fmt.Errorf("%w: %q", ErrUnknownParticipant, id)
	}
	r.gate.unmute(id)
	return nil
}

func (r *Router) IsMuted(id string) bool {
	return r.gate.isMuted(id)
}

// PauseAI withholds client audio from the conversational link until
// ResumeAI. Coach gating is untouched. Idempotent.
func (r *Router) PauseAI() {
	if r.gate.setAIPaused(true) {
		r.emitEvent(events.NewAIPaused())
	}
}

// ResumeAI lets client audio flow to the conversational link again.
// Idempotent.
func (r *Router) ResumeAI() {
	if r.gate.setAIPaused(false) {
		r.emitEvent(events.NewAIResumed())
	}
}

func (r *Router) IsAIPaused() bool {
	return r.gate.isAIPaused()
}

// SendGuidance pushes a coach steering prompt to the agent and blocks
// until the agent confirms it or the wait budget runs out. The returned id
// correlates the guidance events either way.
func (r *Router) SendGuidance(ctx context.Context, text string) (string, error) {
	if r.closed.Load() {
		return "", ErrRouterClosed
	}
	return r.guidance.send(ctx, "Coach guidance: "+text)
}

// AppliedGuidance returns the confirmed guidance lines in arrival order.
func (r *Router) AppliedGuidance() []string {
	return r.guidance.appliedGuidance()
}

// InjectUserMessage inserts text into the conversation as if the client
// had said it.
func (r *Router) InjectUserMessage(content string) error {
	if r.closed.Load() {
		return ErrRouterClosed
	}
	return r.conversational.InjectUserMessage(content)
}

// InjectAgentMessage makes the agent say the given text.
func (r *Router) InjectAgentMessage(content string) error {
	if r.closed.Load() {
		return ErrRouterClosed
	}
	return r.conversational.InjectAgentMessage(content)
}

// Interrupt flushes the agent's in-flight speech, for barge-in.
func (r *Router) Interrupt() error {
	if r.closed.Load() {
		return ErrRouterClosed
	}
	return r.conversational.Clear()
}

// ForceKeepAlive sends an immediate keepalive on the conversational link,
// bypassing the gate's timer.
func (r *Router) ForceKeepAlive() error {
	if r.closed.Load() {
		return ErrRouterClosed
	}
	return r.gate.forceKeepAlive()
}

// Stats returns an immutable snapshot of the session's frame counters.
func (r *Router) Stats() Stats {
	return r.stats.snapshot()
}

func (r *Router) GateStatus() GateStatus {
	return r.gate.status()
}

func (r *Router) ConversationalState() links.State {
	return r.conversational.State()
}

func (r *Router) TranscriptionState() links.State {
	return r.transcriber.State()
}

// Cleanup tears the session down: both links closed, keepalive timer
// stopped, registry cleared. Idempotent and reachable from every exit
// path; cancelling Route's context calls it too.
func (r *Router) Cleanup() {
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		if r.cancelHook != nil {
			close(r.cancelHook)
		}

		r.gate.close()

		if err := r.conversational.CloseStream(context.Background()); err != nil {
			logger.Error("failed to close conversational link", "error", err)
		}
		if err := r.transcriber.CloseStream(context.Background()); err != nil {
			logger.Error("failed to close transcription link", "error", err)
		}

		r.registry.clear()
		r.stats.reset()
	})
}
