package events

const (
	// KindTranscriptInterim identifies a mutable interim transcription result.
	KindTranscriptInterim Kind = "transcription.interim"
	// KindTranscriptFinal identifies a finalized transcription result.
	KindTranscriptFinal Kind = "transcription.final"
	// KindTranscriptSpeechStarted identifies speech activity on the
	// transcription link.
	KindTranscriptSpeechStarted Kind = "transcription.speech_started"
	// KindTranscriptUtteranceEnd identifies the end of an utterance on the
	// transcription link.
	KindTranscriptUtteranceEnd Kind = "transcription.utterance_end"
)

// TranscriptWord is one word of a transcription result with its timing.
type TranscriptWord struct {
	Word       string
	Start      float64
	End        float64
	Confidence float64
}

// Transcript carries one transcription result from the transcription link.
type Transcript struct {
	Base
	Text       string
	Confidence float64
	IsFinal    bool
	Words      []TranscriptWord
}

// NewTranscriptInterim creates an interim transcription event.
func NewTranscriptInterim(text string, confidence float64, words []TranscriptWord) Transcript {
	return Transcript{Base: NewBase(KindTranscriptInterim), Text: text, Confidence: confidence, Words: words}
}

// NewTranscriptFinal creates a finalized transcription event.
func NewTranscriptFinal(text string, confidence float64, words []TranscriptWord) Transcript {
	return Transcript{Base: NewBase(KindTranscriptFinal), Text: text, Confidence: confidence, IsFinal: true, Words: words}
}

// TranscriptSpeechStarted marks speech activity detected by the
// transcription link.
type TranscriptSpeechStarted struct{ Base }

// NewTranscriptSpeechStarted creates a speech started event.
func NewTranscriptSpeechStarted() TranscriptSpeechStarted {
	return TranscriptSpeechStarted{Base: NewBase(KindTranscriptSpeechStarted)}
}

// TranscriptUtteranceEnd marks the end of an utterance on the transcription
// link.
type TranscriptUtteranceEnd struct{ Base }

// NewTranscriptUtteranceEnd creates an utterance end event.
func NewTranscriptUtteranceEnd() TranscriptUtteranceEnd {
	return TranscriptUtteranceEnd{Base: NewBase(KindTranscriptUtteranceEnd)}
}
