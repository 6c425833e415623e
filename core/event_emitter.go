package routing

import "github.com/triadvoice/session-core/core/events"

// eventEmitter delivers one event to the session's configured callbacks.
// Emission happens on the goroutine that produced the event; callbacks are
// expected to return quickly.
type eventEmitter func(event events.Event)

func noopEventEmitter(events.Event) {}

// newCallbackEventEmitter fans a typed event out to its specific callback,
// then to the catch-all EventCallback.
func newCallbackEventEmitter(opts RouteOptions) eventEmitter {
	return func(event events.Event) {
		switch e := event.(type) {
		case events.Transcript:
			if opts.TranscriptCallback != nil {
				opts.TranscriptCallback(e)
			}
		case events.ConversationText:
			if opts.ConversationTextCallback != nil {
				opts.ConversationTextCallback(e.Role, e.Content)
			}
		case events.AgentAudioFrame:
			if opts.AgentAudioCallback != nil {
				opts.AgentAudioCallback(e.Audio)
			}
		case events.UserSpeechStarted:
			if opts.UserSpeechStartedCallback != nil {
				opts.UserSpeechStartedCallback()
			}
		case events.UserSpeechEnded:
			if opts.UserSpeechEndedCallback != nil {
				opts.UserSpeechEndedCallback()
			}
		case events.AgentSpeechStarted:
			if opts.AgentSpeechStartedCallback != nil {
				opts.AgentSpeechStartedCallback()
			}
		case events.AgentAudioDone:
			if opts.AgentAudioDoneCallback != nil {
				opts.AgentAudioDoneCallback()
			}
		}

		if opts.EventCallback != nil {
			opts.EventCallback(event)
		}
	}
}
