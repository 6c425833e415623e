package routing

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/triadvoice/session-core/core/events"
)

// DefaultGuidanceTimeout is how long a guidance request waits for the
// agent's prompt update confirmation.
const DefaultGuidanceTimeout = 5 * time.Second

type guidanceRequest struct {
	id        string
	guidance  string
	confirmed chan struct{}
}

// guidanceChannel pushes mid-session steering prompts to the agent.
// Guidance accumulates: each request re-sends the base prompt with every
// prior guidance line appended, so the agent never loses earlier steering.
// Confirmations arrive without ids, so requests are confirmed in send
// order.
type guidanceChannel struct {
	link       ConversationalLink
	basePrompt string
	timeout    time.Duration

	mu      sync.Mutex
	applied []string
	pending []*guidanceRequest

	emitEvent eventEmitter
}

func newGuidanceChannel(link ConversationalLink, basePrompt string, timeout time.Duration) *guidanceChannel {
	if timeout <= 0 {
		timeout = DefaultGuidanceTimeout
	}
	return &guidanceChannel{
		link:       link,
		basePrompt: basePrompt,
		timeout:    timeout,
		emitEvent:  noopEventEmitter,
	}
}

// send pushes one guidance prompt and blocks until the agent confirms it,
// the wait budget runs out, or ctx is cancelled. It returns the request id
// either way so callers can correlate the resulting events.
func (g *guidanceChannel) send(ctx context.Context, guidance string) (string, error) {
	request := &guidanceRequest{
		id:        uuid.NewString(),
		guidance:  guidance,
		confirmed: make(chan struct{}),
	}

	g.mu.Lock()
	g.pending = append(g.pending, request)
	prompt := g.composePromptLocked()
	g.mu.Unlock()

	if err := g.link.UpdatePrompt(prompt); err != nil {
		g.abandon(request)
		return request.id, err
	}

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case <-request.confirmed:
		g.emitEvent(events.NewGuidanceApplied(request.id))
		return request.id, nil
	case <-timer.C:
		g.abandon(request)
		g.emitEvent(events.NewGuidanceTimedOut(request.id))
		return request.id, ErrGuidanceTimeout
	case <-ctx.Done():
		g.abandon(request)
		return request.id, ctx.Err()
	}
}

// onPromptUpdated handles the agent confirming a prompt update. The
// confirmation carries no id, so it settles the oldest pending request.
func (g *guidanceChannel) onPromptUpdated() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.pending) == 0 {
		return
	}
	request := g.pending[0]
	g.pending = g.pending[1:]
	g.applied = append(g.applied, request.guidance)
	close(request.confirmed)
}

// abandon drops a request from the pending queue so a late confirmation
// settles the next request instead.
func (g *guidanceChannel) abandon(request *guidanceRequest) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, pending := range g.pending {
		if pending == request {
			g.pending = append(g.pending[:i], g.pending[i+1:]...)
			return
		}
	}
}

// appliedGuidance returns the confirmed guidance lines in arrival order.
func (g *guidanceChannel) appliedGuidance() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]string{}, g.applied...)
}

// composePromptLocked renders the full prompt: base, then every confirmed
// guidance line, then every still-pending line in send order. Callers must
// hold g.mu.
func (g *guidanceChannel) composePromptLocked() string {
	sections := make([]string, 0, 1+len(g.applied)+len(g.pending))
	if g.basePrompt != "" {
		sections = append(sections, g.basePrompt)
	}
	sections = append(sections, g.applied...)
	for _, pending := range g.pending {
		sections = append(sections, pending.guidance)
	}
	return strings.Join(sections, "\n\n")
}
