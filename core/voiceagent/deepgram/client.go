package deepgram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/codes"

	"github.com/triadvoice/session-core/core/audio"
	"github.com/triadvoice/session-core/core/links"
	"github.com/triadvoice/session-core/core/voiceagent"
)

const defaultAgentURL = "wss://agent.deepgram.com/v1/agent/converse"

// AgentClient maintains one persistent full-duplex connection to the voice
// agent endpoint: speech recognition, reasoning and synthesis multiplexed
// over a single websocket.
type AgentClient struct {
	conn   *websocket.Conn
	connMu sync.Mutex

	stateMu sync.Mutex
	state   links.State
	closing bool

	options voiceagent.SessionOptions

	agentURL          string
	maxReconnects     int
	reconnectBase     time.Duration
	terminalErrorOnce sync.Once
}

type ClientOption func(*AgentClient)

// WithAgentURL overrides the agent endpoint, mainly for tests.
func WithAgentURL(agentURL string) ClientOption {
	return func(c *AgentClient) {
		c.agentURL = agentURL
	}
}

func WithReconnectPolicy(maxAttempts int, baseDelay time.Duration) ClientOption {
	return func(c *AgentClient) {
		c.maxReconnects = maxAttempts
		c.reconnectBase = baseDelay
	}
}

func NewAgentClient(opts ...ClientOption) *AgentClient {
	c := &AgentClient{
		state:         links.StateDisconnected,
		agentURL:      defaultAgentURL,
		maxReconnects: links.DefaultReconnectAttempts,
		reconnectBase: links.DefaultReconnectBaseDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start opens the connection, sends the settings handshake and begins
// demultiplexing inbound messages. It returns once the socket is open; the
// link reaches ready asynchronously when the settings are acknowledged.
func (c *AgentClient) Start(ctx context.Context, opts ...voiceagent.SessionOption) error {
	options := voiceagent.SessionOptions{
		InputEncoding:  audio.GetDefaultEncodingInfo(),
		OutputEncoding: audio.GetDefaultOutputEncodingInfo(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	c.options = options

	ctx, span := tracer.Start(ctx, "open conversational link")
	defer span.End()

	c.setState(links.StateConnecting)
	conn, err := c.connectWebsocket()
	if err != nil {
		c.setState(links.StateDisconnected)
		recordedErr := fmt.Errorf("failed to open websocket: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return recordedErr
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	c.setState(links.StateSettingsPending)
	if err := c.sendSettings(); err != nil {
		c.setState(links.StateDisconnected)
		conn.Close()
		return fmt.Errorf("failed to send settings: %w", err)
	}

	go c.readAndProcessMessages(ctx, conn)

	return nil
}

func (c *AgentClient) connectWebsocket() (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	agentURL, err := url.Parse(c.agentURL)
	if err != nil {
		return nil, fmt.Errorf("invalid agent url: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(agentURL.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

func (c *AgentClient) sendSettings() error {
	options := c.options
	settings := settingsMessage{
		Type: typeSettings,
		Audio: settingsAudio{
			Input: settingsAudioInput{
				Encoding:   options.InputEncoding.Format.Name(),
				SampleRate: options.InputEncoding.SampleRate,
			},
			Output: settingsAudioOutput{
				Encoding:   options.OutputEncoding.Format.Name(),
				SampleRate: options.OutputEncoding.SampleRate,
				Container:  options.OutputEncoding.Container.Name(),
			},
		},
		Agent: settingsAgent{
			Language: options.Language,
			Listen:   settingsListen{Provider: settingsProvider{Type: "deepgram", Model: options.ListenModel}},
			Think: settingsThink{
				Provider:  settingsProvider{Type: "open_ai", Model: options.ThinkModel},
				Prompt:    options.Prompt,
				Functions: options.Functions,
			},
			Speak:    settingsSpeak{Provider: settingsProvider{Type: "deepgram", Model: options.SpeakModel}},
			Greeting: options.Greeting,
		},
	}

	return c.writeJSON(settings)
}

// State returns the current connection state.
func (c *AgentClient) State() links.State {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

func (c *AgentClient) setState(next links.State) {
	c.stateMu.Lock()
	if !c.state.CanTransition(next) {
		c.stateMu.Unlock()
		return
	}
	c.state = next
	callback := c.options.StateChangedCallback
	c.stateMu.Unlock()

	if callback != nil {
		callback(next)
	}
}

// SendAudio writes one binary audio frame. It returns false without
// blocking or queueing when the link is not ready; the caller is expected
// to drop the frame.
func (c *AgentClient) SendAudio(audio []byte) bool {
	if c.State() != links.StateReady {
		return false
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return false
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return false
	}
	return true
}

// KeepAlive nudges the endpoint so it does not close the connection during
// prolonged silence.
func (c *AgentClient) KeepAlive() error {
	return c.writeJSON(keepAliveMsg)
}

// UpdatePrompt silently rewrites the agent's reasoning context. Nothing is
// spoken; the endpoint acknowledges with a prompt-updated message.
func (c *AgentClient) UpdatePrompt(prompt string) error {
	return c.writeJSON(updatePromptMessage{Type: typeUpdatePrompt, Prompt: prompt})
}

// InjectUserMessage adds a user utterance to the conversation as if it had
// been spoken.
func (c *AgentClient) InjectUserMessage(content string) error {
	return c.writeJSON(injectMessage{Type: typeInjectUserMessage, Content: content})
}

// InjectAgentMessage forces the agent to speak a specific utterance.
func (c *AgentClient) InjectAgentMessage(content string) error {
	return c.writeJSON(injectMessage{Type: typeInjectAgentMessage, Content: content})
}

// FunctionCallResponse answers a function call request by its correlation id.
func (c *AgentClient) FunctionCallResponse(callID, output string) error {
	return c.writeJSON(functionCallResponseMessage{
		Type:           typeFunctionCallResponse,
		FunctionCallID: callID,
		Output:         output,
	})
}

// Clear flushes any synthesized audio the endpoint has buffered but not yet
// delivered, interrupting the agent mid-utterance.
func (c *AgentClient) Clear() error {
	return c.writeJSON(clearMsg)
}

// CloseStream shuts the link down deliberately. The read loop observes the
// closure and does not attempt to reconnect.
func (c *AgentClient) CloseStream(ctx context.Context) error {
	c.stateMu.Lock()
	c.closing = true
	c.stateMu.Unlock()
	c.setState(links.StateClosing)

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}
	if err := c.conn.WriteJSON(closeMsg); err != nil {
		if aggressiveCloseErr := c.conn.Close(); aggressiveCloseErr != nil {
			return fmt.Errorf("failed to close websocket: %w", aggressiveCloseErr)
		}
		return nil
	}
	return c.conn.Close()
}

func (c *AgentClient) isClosing() bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.closing
}

func (c *AgentClient) writeJSON(msg any) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("websocket connection closed")
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to deepgram agent: %w", err)
	}
	return nil
}

// supervise runs the bounded reconnect loop after an unexpected closure.
// On success the read loop resumes on the new connection; on exhaustion the
// link becomes permanently failed for this session.
func (c *AgentClient) supervise(ctx context.Context) {
	for attempt := 1; ; attempt++ {
		delay, ok := links.ReconnectDelay(attempt, c.maxReconnects, c.reconnectBase)
		if !ok {
			c.fail(fmt.Errorf("conversational link failed after %d reconnect attempts", c.maxReconnects))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		logger.InfoContext(ctx, "reconnecting conversational link", "attempt", attempt)

		c.setState(links.StateConnecting)
		conn, err := c.connectWebsocket()
		if err != nil {
			c.setState(links.StateDisconnected)
			continue
		}

		c.connMu.Lock()
		c.conn = conn
		c.connMu.Unlock()

		c.setState(links.StateSettingsPending)
		if err := c.sendSettings(); err != nil {
			c.setState(links.StateDisconnected)
			conn.Close()
			continue
		}

		go c.readAndProcessMessages(ctx, conn)
		return
	}
}

func (c *AgentClient) fail(err error) {
	c.stateMu.Lock()
	c.state = links.StateFailed
	callback := c.options.StateChangedCallback
	terminal := c.options.TerminalErrorCallback
	c.stateMu.Unlock()

	if callback != nil {
		callback(links.StateFailed)
	}
	c.terminalErrorOnce.Do(func() {
		if terminal != nil {
			terminal(err)
		}
	})
}
