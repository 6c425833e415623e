package transcription

import (
	"github.com/triadvoice/session-core/core/audio"
	"github.com/triadvoice/session-core/core/links"
)

// Word is one recognized word with timing and confidence.
type Word struct {
	Word           string
	PunctuatedWord string
	Start          float64
	End            float64
	Confidence     float64
}

// Result is one transcription result, interim or final.
type Result struct {
	Transcript string
	Confidence float64
	IsFinal    bool
	Words      []Word
	Start      float64
	Duration   float64
}

type TranscriptionOptions struct {
	// ResultCallback receives every result, interim and final, with
	// confidence and word timings.
	ResultCallback func(result Result)
	// TranscriptionCallback receives the accumulated transcript of a full
	// utterance once speech ends.
	TranscriptionCallback func(transcript string)

	SpeechStartedCallback func()
	UtteranceEndCallback  func()
	ErrorCallback         func(code, message string)
	StateChangedCallback  func(state links.State)
	TerminalErrorCallback func(err error)

	EncodingInfo audio.EncodingInfo
}

type TranscriptionOption func(*TranscriptionOptions)

func WithResultCallback(callback func(result Result)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ResultCallback = callback
	}
}

func WithTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.TranscriptionCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithUtteranceEndCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.UtteranceEndCallback = callback
	}
}

func WithErrorCallback(callback func(code, message string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ErrorCallback = callback
	}
}

func WithStateChangedCallback(callback func(state links.State)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.StateChangedCallback = callback
	}
}

// WithTerminalErrorCallback registers a callback invoked once when the link
// exhausts its reconnect budget and becomes permanently failed.
func WithTerminalErrorCallback(callback func(err error)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.TerminalErrorCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EncodingInfo = encodingInfo
	}
}
