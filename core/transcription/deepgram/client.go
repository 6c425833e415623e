package deepgram

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/triadvoice/session-core/core/links"
	"github.com/triadvoice/session-core/core/transcription"
)

const defaultListenURL = "wss://api.deepgram.com/v1/listen"

// TranscriptionClient maintains one persistent speech-to-text connection.
// It receives audio regardless of any mute state on the conversational
// side; its results are the always-on record of the session.
type TranscriptionClient struct {
	conn      *websocket.Conn
	connMu    sync.Mutex
	lastMsgTs time.Time

	stateMu sync.Mutex
	state   links.State
	closing bool

	options transcription.TranscriptionOptions

	accumulatedTranscript string
	unendedSegment        bool

	listenURL         string
	maxReconnects     int
	reconnectBase     time.Duration
	terminalErrorOnce sync.Once
}

type ClientOption func(*TranscriptionClient)

// WithListenURL overrides the transcription endpoint, mainly for tests.
func WithListenURL(listenURL string) ClientOption {
	return func(c *TranscriptionClient) {
		c.listenURL = listenURL
	}
}

func WithReconnectPolicy(maxAttempts int, baseDelay time.Duration) ClientOption {
	return func(c *TranscriptionClient) {
		c.maxReconnects = maxAttempts
		c.reconnectBase = baseDelay
	}
}

func NewTranscriptionClient(opts ...ClientOption) *TranscriptionClient {
	c := &TranscriptionClient{
		state:         links.StateDisconnected,
		listenURL:     defaultListenURL,
		maxReconnects: links.DefaultReconnectAttempts,
		reconnectBase: links.DefaultReconnectBaseDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current connection state.
func (c *TranscriptionClient) State() links.State {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

func (c *TranscriptionClient) setState(next links.State) {
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

func (c *TranscriptionClient) isClosing() bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.closing
}

func (c *TranscriptionClient) fail(err error) {
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
