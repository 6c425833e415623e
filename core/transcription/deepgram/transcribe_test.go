package deepgram

import (
	"context"
	"testing"

	"github.com/triadvoice/session-core/core/links"
	"github.com/triadvoice/session-core/core/transcription"
)

func TestProcessMessageDispatchesResults(t *testing.T) {
	results := []transcription.Result{}
	transcripts := []string{}

	c := NewTranscriptionClient()
	c.options = transcription.TranscriptionOptions{
		ResultCallback:        func(result transcription.Result) { results = append(results, result) },
		TranscriptionCallback: func(transcript string) { transcripts = append(transcripts, transcript) },
	}

	c.processMessage([]byte(`{"type":"Results","is_final":false,"channel":{"alternatives":[{"transcript":"hel","confidence":0.5}]}}`))
	c.processMessage([]byte(`{"type":"Results","is_final":true,"speech_final":true,"start":0.1,"duration":1.2,` +
		`"channel":{"alternatives":[{"transcript":"hello there","confidence":0.97,` +
		`"words":[{"word":"hello","start":0.1,"end":0.5,"confidence":0.98},{"word":"there","start":0.6,"end":1.1,"confidence":0.96}]}]}}`))

	if len(results) != 2 {
		t.Fatalf("expected two results, got %d", len(results))
	}
	if results[0].IsFinal || results[0].Transcript != "hel" {
		t.Fatalf("expected first result to be interim \"hel\", got %+v", results[0])
	}
	if !results[1].IsFinal || results[1].Transcript != "hello there" {
		t.Fatalf("expected second result to be final \"hello there\", got %+v", results[1])
	}
	if len(results[1].Words) != 2 || results[1].Words[0].Word != "hello" {
		t.Fatalf("expected word timings to be carried through, got %+v", results[1].Words)
	}
	if results[1].Confidence != 0.97 {
		t.Fatalf("expected confidence 0.97, got %f", results[1].Confidence)
	}

	if len(transcripts) != 1 || transcripts[0] != "hello there" {
		t.Fatalf("expected accumulated utterance transcript [\"hello there\"], got %v", transcripts)
	}
}

func TestProcessMessageAccumulatesSegmentsUntilSpeechFinal(t *testing.T) {
	transcripts := []string{}

	c := NewTranscriptionClient()
	c.options = transcription.TranscriptionOptions{
		TranscriptionCallback: func(transcript string) { transcripts = append(transcripts, transcript) },
	}

	c.processMessage([]byte(`{"type":"Results","is_final":true,"channel":{"alternatives":[{"transcript":"one"}]}}`))
	c.processMessage([]byte(`{"type":"Results","is_final":true,"channel":{"alternatives":[{"transcript":"two"}]}}`))
	if len(transcripts) != 0 {
		t.Fatalf("expected no utterance before speech end, got %v", transcripts)
	}

	c.processMessage([]byte(`{"type":"Results","is_final":true,"speech_final":true,"channel":{"alternatives":[{"transcript":"three"}]}}`))
	if len(transcripts) != 1 || transcripts[0] != "one two three" {
		t.Fatalf("expected accumulated utterance \"one two three\", got %v", transcripts)
	}
}

func TestProcessMessageDispatchesSpeechEvents(t *testing.T) {
	speechStarts := 0
	utteranceEnds := 0
	transcripts := []string{}

	c := NewTranscriptionClient()
	c.options = transcription.TranscriptionOptions{
		SpeechStartedCallback: func() { speechStarts++ },
		UtteranceEndCallback:  func() { utteranceEnds++ },
		TranscriptionCallback: func(transcript string) { transcripts = append(transcripts, transcript) },
	}

	c.processMessage([]byte(`{"type":"SpeechStarted"}`))
	c.processMessage([]byte(`{"type":"Results","is_final":true,"channel":{"alternatives":[{"transcript":"stray"}]}}`))
	c.processMessage([]byte(`{"type":"UtteranceEnd"}`))

	if speechStarts != 1 {
		t.Fatalf("expected one speech-start, got %d", speechStarts)
	}
	if utteranceEnds != 1 {
		t.Fatalf("expected one utterance-end, got %d", utteranceEnds)
	}
	if len(transcripts) != 1 || transcripts[0] != "stray" {
		t.Fatalf("expected utterance end to flush pending segment, got %v", transcripts)
	}
}

func TestProcessMessageDispatchesErrors(t *testing.T) {
	messages := []string{}
	c := NewTranscriptionClient()
	c.options = transcription.TranscriptionOptions{
		ErrorCallback: func(code, message string) { messages = append(messages, message) },
	}

	c.processMessage([]byte(`{"type":"Error","message":"bad audio"}`))

	if len(messages) != 1 || messages[0] != "bad audio" {
		t.Fatalf("expected error callback with message, got %v", messages)
	}
}

func TestProcessMessageDropsMalformedPayloads(t *testing.T) {
	c := NewTranscriptionClient()
	c.options = transcription.TranscriptionOptions{
		ResultCallback: func(result transcription.Result) {
			t.Fatalf("expected malformed payload to be dropped, got result %+v", result)
		},
	}

	c.processMessage([]byte(`not json`))
	c.processMessage([]byte(`{"type":"Results","channel":{"alternatives":[{"transcript":""}]}}`))
}

func TestSendAudioRefusesWhenNotReady(t *testing.T) {
	c := NewTranscriptionClient()

	if c.SendAudio([]byte{1, 2, 3}) {
		t.Fatalf("expected send to be refused while disconnected")
	}
}

func TestCloseStreamWithoutConnectionIsANoop(t *testing.T) {
	c := NewTranscriptionClient()

	if err := c.CloseStream(context.Background()); err != nil {
		t.Fatalf("expected close on unconnected client to succeed, got %v", err)
	}
	if got := c.State(); got != links.StateDisconnected {
		t.Fatalf("expected state to remain disconnected, got %s", got)
	}
}
