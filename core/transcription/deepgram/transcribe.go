package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/triadvoice/session-core/core/audio"
	"github.com/triadvoice/session-core/core/links"
	"github.com/triadvoice/session-core/core/transcription"
)

// idleThreshold is how long the link may go without outbound audio before
// the idle guard starts sending keepalives. The endpoint disconnects after
// roughly ten seconds of silence.
const idleThreshold = 5 * time.Second

func (c *TranscriptionClient) Transcribe(ctx context.Context, opts ...transcription.TranscriptionOption) error {
	options := transcription.TranscriptionOptions{EncodingInfo: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(&options)
	}
	c.options = options

	ctx, span := tracer.Start(ctx, "open transcription link")
	defer span.End()

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	c.setState(links.StateConnecting)
	conn, err := c.connectWebsocket(*encoding)
	if err != nil {
		c.setState(links.StateDisconnected)
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.lastMsgTs = time.Now()
	c.connMu.Unlock()
	c.setState(links.StateReady)

	go c.readAndProcessMessages(ctx, conn)

	return nil
}

func (c *TranscriptionClient) connectWebsocket(encoding encodingInfo) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	listenURL, err := url.Parse(c.listenURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listen url: %w", err)
	}
	queryParams := listenURL.Query()
	queryParams.Set("encoding", encoding.Format.Name())
	queryParams.Set("sample_rate", strconv.Itoa(encoding.SampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", "en-US")
	queryParams.Set("smart_format", "true")
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("endpointing", "300")
	queryParams.Set("vad_events", "true")

	listenURL.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenURL.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, err
}

// SendAudio writes one binary audio frame. It returns false without
// blocking or queueing when the link is not ready; the caller drops the
// frame.
func (c *TranscriptionClient) SendAudio(audio []byte) bool {
	if c.State() != links.StateReady {
		return false
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return false
	}
	c.lastMsgTs = time.Now()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return false
	}
	return true
}

func (c *TranscriptionClient) KeepAlive() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("websocket connection closed")
	}
	if err := c.conn.WriteJSON(
		struct {
			Type string `json:"type"`
		}{
			Type: "KeepAlive",
		}); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

// CloseStream closes the link gracefully: it sends the close request, waits
// briefly so any final result can still arrive, then closes the socket.
func (c *TranscriptionClient) CloseStream(ctx context.Context) error {
	c.stateMu.Lock()
	c.closing = true
	c.stateMu.Unlock()
	c.setState(links.StateClosing)

	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()

	if conn == nil {
		return nil
	}

	c.connMu.Lock()
	err := conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)})
	c.connMu.Unlock()
	if err != nil {
		return conn.Close()
	}

	select {
	case <-ctx.Done():
	case <-time.After(500 * time.Millisecond):
	}

	return conn.Close()
}

func (c *TranscriptionClient) readAndProcessMessages(ctx context.Context, conn *websocket.Conn) {
	idleCtx, idleCancel := context.WithCancel(ctx)
	defer idleCancel()

	go c.guardIdle(idleCtx)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if err.Error() != "websocket: close 1000 (normal)" {
				log.Println("Failed to read deepgram websocket message", "error", err)
			}

			c.connMu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			c.connMu.Unlock()
			conn.Close()

			if c.isClosing() || ctx.Err() != nil {
				c.setState(links.StateDisconnected)
				return
			}

			c.setState(links.StateDisconnected)
			c.supervise(ctx)
			return
		}
		if msgType != websocket.BinaryMessage {
			c.processMessage(msg)
		}
	}
}

// processMessage dispatches one inbound JSON control message. Malformed
// payloads are logged and dropped, never fatal.
func (c *TranscriptionClient) processMessage(msg []byte) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		log.Println("Failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}
		c.processResult(msgResp)

	case api.TypeUtteranceEndResponse:
		var msgResp api.UtteranceEndResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		if c.unendedSegment {
			c.onSpeechEnded()
		}
		if c.options.UtteranceEndCallback != nil {
			c.options.UtteranceEndCallback()
		}

	case api.TypeSpeechStartedResponse:
		var msgResp api.SpeechStartedResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		c.unendedSegment = true
		if c.options.SpeechStartedCallback != nil {
			c.options.SpeechStartedCallback()
		}

	case api.TypeResponse(api.TypeErrorResponse):
		var msgResp api.ErrorResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}
		if c.options.ErrorCallback != nil {
			c.options.ErrorCallback(msgResp.Type, msgResp.ErrMsg)
		}
	}
}

func (c *TranscriptionClient) processResult(msgResp api.MessageResponse) {
	if len(msgResp.Channel.Alternatives) == 0 {
		return
	}

	alternative := msgResp.Channel.Alternatives[0]
	transcript := strings.TrimSpace(alternative.Transcript)
	if len(transcript) == 0 {
		return
	}

	if c.options.ResultCallback != nil {
		words := make([]transcription.Word, 0, len(alternative.Words))
		for _, word := range alternative.Words {
			words = append(words, transcription.Word{
				Word:           word.Word,
				PunctuatedWord: word.PunctuatedWord,
				Start:          word.Start,
				End:            word.End,
				Confidence:     word.Confidence,
			})
		}
		c.options.ResultCallback(transcription.Result{
			Transcript: transcript,
			Confidence: alternative.Confidence,
			IsFinal:    msgResp.IsFinal,
			Words:      words,
			Start:      msgResp.Start,
			Duration:   msgResp.Duration,
		})
	}

	if msgResp.IsFinal {
		if c.options.TranscriptionCallback != nil {
			c.accumulatedTranscript += " " + transcript
		}
		if msgResp.SpeechFinal {
			c.onSpeechEnded()
		}
	}
}

func (c *TranscriptionClient) onSpeechEnded() {
	c.unendedSegment = false
	if c.options.TranscriptionCallback != nil {
		fullTranscript := strings.TrimSpace(c.accumulatedTranscript)
		c.accumulatedTranscript = ""
		if len(fullTranscript) > 0 {
			c.options.TranscriptionCallback(fullTranscript)
		}
	}
}

// guardIdle keeps the connection alive through windows where no source
// feeds this link, e.g. while the AI is not paused and no coach is
// speaking. Real audio resets the idle clock.
func (c *TranscriptionClient) guardIdle(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var lastKeepAlive time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.connMu.Lock()
			idle := time.Since(c.lastMsgTs)
			c.connMu.Unlock()

			if idle < idleThreshold {
				continue
			}
			if time.Since(lastKeepAlive) < idleThreshold {
				continue
			}

			lastKeepAlive = time.Now()
			if err := c.KeepAlive(); err != nil {
				log.Println("Failed to send transcription keepalive", err)
			}
		}
	}
}

func (c *TranscriptionClient) supervise(ctx context.Context) {
	encoding, err := convertEncoding(c.options.EncodingInfo)
	if err != nil {
		c.fail(fmt.Errorf("invalid encoding on reconnect: %w", err))
		return
	}

	for attempt := 1; ; attempt++ {
		delay, ok := links.ReconnectDelay(attempt, c.maxReconnects, c.reconnectBase)
		if !ok {
			c.fail(fmt.Errorf("transcription link failed after %d reconnect attempts", c.maxReconnects))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		logger.InfoContext(ctx, "reconnecting transcription link", "attempt", attempt)

		c.setState(links.StateConnecting)
		conn, err := c.connectWebsocket(*encoding)
		if err != nil {
			c.setState(links.StateDisconnected)
			continue
		}

		c.connMu.Lock()
		c.conn = conn
		c.lastMsgTs = time.Now()
		c.connMu.Unlock()
		c.setState(links.StateReady)

		go c.readAndProcessMessages(ctx, conn)
		return
	}
}
