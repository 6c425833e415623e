package routing

import (
	"context"
	"sync"
	"time"

	"github.com/triadvoice/session-core/core/events"
)

// DefaultKeepAliveInterval matches the upstream endpoint's documented
// idle-disconnect threshold.
const DefaultKeepAliveInterval = 8 * time.Second

// GateStatus is a point-in-time view of the gate for status surfaces.
type GateStatus struct {
	MutedParticipants []string
	AIPaused          bool
	KeepAliveActive   bool
	LastAudioSentAt   time.Time
}

// gate decides, per frame, whether audio reaches the conversational link.
// Muting a participant keeps the link open but can starve it into an idle
// disconnect, so the gate sends keepalives while starvation actually
// holds: someone is muted (or the AI pause is engaged) and no audio has
// reached the link for more than twice the interval. Real forwarded audio
// stops an active timer; this is not a generic heartbeat.
type gate struct {
	link ConversationalLink

	mu              sync.Mutex
	muted           map[string]struct{}
	aiPaused        bool
	lastAudioSentAt time.Time
	keepAliveActive bool
	watcherStop     chan struct{}
	interval        time.Duration
	closed          bool

	emitEvent eventEmitter
}

func newGate(link ConversationalLink, interval time.Duration) *gate {
	if interval <= 0 {
		interval = DefaultKeepAliveInterval
	}
	return &gate{
		link:            link,
		muted:           map[string]struct{}{},
		lastAudioSentAt: time.Now(),
		interval:        interval,
		emitEvent:       noopEventEmitter,
	}
}

// mute excludes a participant's audio from the conversational link.
// Muting an already muted participant is a no-op and emits nothing.
func (g *gate) mute(participantID string) {
	g.mu.Lock()
	if _, already := g.muted[participantID]; already {
		g.mu.Unlock()
		return
	}
	g.muted[participantID] = struct{}{}
	started, stopped := g.reconcileLocked()
	g.mu.Unlock()

	g.emitKeepAliveTransition(started, stopped)
	g.emitEvent(events.NewParticipantMuted(participantID))
}

// unmute readmits a participant's audio to the conversational link.
// Unmuting a participant that is not muted is a no-op and emits nothing.
func (g *gate) unmute(participantID string) {
	g.mu.Lock()
	if _, muted := g.muted[participantID]; !muted {
		g.mu.Unlock()
		return
	}
	delete(g.muted, participantID)
	started, stopped := g.reconcileLocked()
	g.mu.Unlock()

	g.emitKeepAliveTransition(started, stopped)
	g.emitEvent(events.NewParticipantUnmuted(participantID))
}

func (g *gate) isMuted(participantID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, muted := g.muted[participantID]
	return muted
}

// setAIPaused engages or releases the session-wide pause. It reports
// whether the flag actually changed so the caller can emit exactly one
// event per transition.
func (g *gate) setAIPaused(paused bool) bool {
	g.mu.Lock()
	if g.aiPaused == paused {
		g.mu.Unlock()
		return false
	}
	g.aiPaused = paused
	started, stopped := g.reconcileLocked()
	g.mu.Unlock()

	g.emitKeepAliveTransition(started, stopped)
	return true
}

func (g *gate) isAIPaused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.aiPaused
}

// routeIfUnmuted forwards the frame to the conversational link unless its
// sender is muted. It reports whether the frame was sent and whether the
// gate blocked it; a false, false result means the link refused the write.
// A forwarded frame stops an active keepalive timer.
func (g *gate) routeIfUnmuted(participantID string, audio []byte) (sent, blocked bool) {
	g.mu.Lock()
	if _, muted := g.muted[participantID]; muted {
		g.mu.Unlock()
		g.emitEvent(events.NewGateFrameBlocked(participantID))
		return false, true
	}
	g.mu.Unlock()

	if !g.link.SendAudio(audio) {
		return false, false
	}
	g.noteAudioSent()
	return true, false
}

// noteAudioSent records that the conversational link just received real
// audio, deactivating the keepalive timer until starvation redevelops.
func (g *gate) noteAudioSent() {
	g.mu.Lock()
	g.lastAudioSentAt = time.Now()
	stopped := g.keepAliveActive
	g.keepAliveActive = false
	g.mu.Unlock()

	g.emitKeepAliveTransition(false, stopped)
}

// forceKeepAlive sends one keepalive immediately and engages the timer
// without waiting for the starvation predicate, for external silence
// detectors that know the link is about to starve.
func (g *gate) forceKeepAlive() error {
	if err := g.link.KeepAlive(); err != nil {
		return err
	}

	g.mu.Lock()
	started := false
	if g.watcherStop != nil && !g.keepAliveActive {
		g.keepAliveActive = true
		started = true
	}
	g.mu.Unlock()

	g.emitKeepAliveTransition(started, false)
	g.emitEvent(events.NewGateKeepAliveSent())
	return nil
}

func (g *gate) status() GateStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	muted := make([]string, 0, len(g.muted))
	for participantID := range g.muted {
		muted = append(muted, participantID)
	}
	return GateStatus{
		MutedParticipants: muted,
		AIPaused:          g.aiPaused,
		KeepAliveActive:   g.keepAliveActive,
		LastAudioSentAt:   g.lastAudioSentAt,
	}
}

func (g *gate) close() {
	g.mu.Lock()
	g.closed = true
	stopped := g.keepAliveActive
	g.keepAliveActive = false
	if g.watcherStop != nil {
		close(g.watcherStop)
		g.watcherStop = nil
	}
	g.mu.Unlock()

	g.emitKeepAliveTransition(false, stopped)
}

// starvationHoldsLocked is the keepalive predicate: the link can starve
// and has already gone without audio for more than twice the interval.
func (g *gate) starvationHoldsLocked() bool {
	if g.closed || (!g.aiPaused && len(g.muted) == 0) {
		return false
	}
	return time.Since(g.lastAudioSentAt) > 2*g.interval
}

// reconcileLocked re-evaluates the predicate after a mute/unmute/pause
// transition: it runs or stops the watcher goroutine, and flips the
// keepalive-active state when the predicate already holds. Callers must
// hold g.mu and emit the reported transition after unlocking.
func (g *gate) reconcileLocked() (started, stopped bool) {
	watcherNeeded := !g.closed && (g.aiPaused || len(g.muted) > 0)

	if watcherNeeded && g.watcherStop == nil {
		stop := make(chan struct{})
		g.watcherStop = stop
		worker := panicSafeNamedWorker("gate keepalive", func(context.Context) error {
			g.watchStarvation(stop)
			return nil
		})
		go func() {
			if err := worker(context.Background()); err != nil {
				logger.Error("keepalive worker crashed", "error", err)
			}
		}()
	} else if !watcherNeeded && g.watcherStop != nil {
		close(g.watcherStop)
		g.watcherStop = nil
	}

	if watcherNeeded && !g.keepAliveActive && g.starvationHoldsLocked() {
		g.keepAliveActive = true
		return true, false
	}
	if !watcherNeeded && g.keepAliveActive {
		g.keepAliveActive = false
		return false, true
	}
	return false, false
}

// watchStarvation ticks every interval while anyone is muted or the AI is
// paused. Each tick activates the timer once the predicate holds and sends
// one keepalive per tick while it stays active.
func (g *gate) watchStarvation(stop chan struct{}) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			g.mu.Lock()
			started := false
			if !g.keepAliveActive && g.starvationHoldsLocked() {
				g.keepAliveActive = true
				started = true
			}
			active := g.keepAliveActive
			g.mu.Unlock()

			g.emitKeepAliveTransition(started, false)
			if !active {
				continue
			}

			if err := g.link.KeepAlive(); err != nil {
				logger.Warn("keepalive send failed", "error", err)
				continue
			}
			g.emitEvent(events.NewGateKeepAliveSent())
		}
	}
}

func (g *gate) emitKeepAliveTransition(started, stopped bool) {
	if started {
		g.emitEvent(events.NewGateKeepAliveStarted())
	}
	if stopped {
		g.emitEvent(events.NewGateKeepAliveStopped())
	}
}
