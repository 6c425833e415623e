package routing

import (
	"testing"
	"time"

	"github.com/triadvoice/session-core/core/events"
)

func newTestGate(interval time.Duration) (*gate, *stubConversationalLink, *eventRecorder) {
	link := &stubConversationalLink{}
	recorder := &eventRecorder{}
	g := newGate(link, interval)
	g.emitEvent = recorder.record
	return g, link, recorder
}

func starveGate(g *gate) {
	g.mu.Lock()
	g.lastAudioSentAt = time.Now().Add(-3 * g.interval)
	g.mu.Unlock()
}

func TestGateMuteIsIdempotent(t *testing.T) {
	g, _, recorder := newTestGate(time.Hour)
	defer g.close()

	g.mute("coach")
	g.mute("coach")

	if !g.isMuted("coach") {
		t.Fatal("expected coach to be muted")
	}
	if got := recorder.countKind(events.KindParticipantMuted); got != 1 {
		t.Fatalf("expected 1 muted event, got %d", got)
	}

	g.unmute("coach")
	g.unmute("coach")

	if g.isMuted("coach") {
		t.Fatal("expected coach to be unmuted")
	}
	if got := recorder.countKind(events.KindParticipantUnmuted); got != 1 {
		t.Fatalf("expected 1 unmuted event, got %d", got)
	}
}

func TestGateRouteIfUnmuted(t *testing.T) {
	g, link, recorder := newTestGate(time.Hour)
	defer g.close()

	sent, blocked := g.routeIfUnmuted("coach", []byte{1})
	if !sent || blocked {
		t.Fatalf("expected unmuted frame sent, got sent=%v blocked=%v", sent, blocked)
	}
	if got := link.sentCount(); got != 1 {
		t.Fatalf("expected 1 send, got %d", got)
	}

	g.mute("coach")
	sent, blocked = g.routeIfUnmuted("coach", []byte{2})
	if sent || !blocked {
		t.Fatalf("expected muted frame blocked, got sent=%v blocked=%v", sent, blocked)
	}
	if got := link.sentCount(); got != 1 {
		t.Fatalf("expected no further sends, got %d", got)
	}
	if got := recorder.countKind(events.KindGateFrameBlocked); got != 1 {
		t.Fatalf("expected 1 blocked event, got %d", got)
	}
}

func TestGateRouteReportsLinkRefusal(t *testing.T) {
	g, link, _ := newTestGate(time.Hour)
	defer g.close()
	link.sendRefused = true

	sent, blocked := g.routeIfUnmuted("c1", []byte{1})
	if sent || blocked {
		t.Fatalf("expected link refusal, got sent=%v blocked=%v", sent, blocked)
	}
}

func TestGateKeepAliveRequiresStarvation(t *testing.T) {
	g, _, _ := newTestGate(time.Hour)
	defer g.close()

	g.mute("coach")
	if g.status().KeepAliveActive {
		t.Fatal("expected keepalive inactive while audio is recent")
	}

	g.unmute("coach")
	starveGate(g)
	g.mute("coach")
	if !g.status().KeepAliveActive {
		t.Fatal("expected keepalive active once muted and starved")
	}
}

func TestGateKeepAliveStopsWhenNothingIsMuted(t *testing.T) {
	g, _, recorder := newTestGate(time.Hour)
	defer g.close()

	starveGate(g)
	g.mute("coach")
	g.mute("client")
	if !g.status().KeepAliveActive {
		t.Fatal("expected keepalive active while muted and starved")
	}

	g.unmute("coach")
	if !g.status().KeepAliveActive {
		t.Fatal("expected keepalive active while any participant is muted")
	}

	g.unmute("client")
	if g.status().KeepAliveActive {
		t.Fatal("expected keepalive inactive once nothing is muted")
	}

	if got := recorder.countKind(events.KindGateKeepAliveStarted); got != 1 {
		t.Fatalf("expected 1 keepalive started event, got %d", got)
	}
	if got := recorder.countKind(events.KindGateKeepAliveStopped); got != 1 {
		t.Fatalf("expected 1 keepalive stopped event, got %d", got)
	}
}

func TestGateKeepAliveFollowsAIPause(t *testing.T) {
	g, _, _ := newTestGate(time.Hour)
	defer g.close()

	starveGate(g)
	if changed := g.setAIPaused(true); !changed {
		t.Fatal("expected pause to change state")
	}
	if changed := g.setAIPaused(true); changed {
		t.Fatal("expected repeated pause to be a no-op")
	}
	if !g.status().KeepAliveActive {
		t.Fatal("expected keepalive active while paused and starved")
	}

	if changed := g.setAIPaused(false); !changed {
		t.Fatal("expected resume to change state")
	}
	if g.status().KeepAliveActive {
		t.Fatal("expected keepalive inactive after resume")
	}
}

func TestGateKeepAliveSendsWhileStarved(t *testing.T) {
	g, link, recorder := newTestGate(5 * time.Millisecond)
	defer g.close()

	starveGate(g)
	g.mute("client")

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		link.mu.Lock()
		keepAlives := link.keepAlives
		link.mu.Unlock()
		if keepAlives >= 2 {
			if recorder.countKind(events.KindGateKeepAliveSent) == 0 {
				t.Fatal("expected keepalive sent events alongside the sends")
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("expected repeated keepalives while the link is starved")
}

func TestGateForwardedAudioStopsKeepAlive(t *testing.T) {
	g, _, recorder := newTestGate(time.Hour)
	defer g.close()

	starveGate(g)
	g.mute("coach")
	if !g.status().KeepAliveActive {
		t.Fatal("expected keepalive active before audio flows")
	}

	if sent, _ := g.routeIfUnmuted("client", []byte{1}); !sent {
		t.Fatal("expected client frame sent")
	}

	if g.status().KeepAliveActive {
		t.Fatal("expected forwarded audio to stop the keepalive timer")
	}
	if got := recorder.countKind(events.KindGateKeepAliveStopped); got != 1 {
		t.Fatalf("expected 1 keepalive stopped event, got %d", got)
	}
}

func TestGateForceKeepAlive(t *testing.T) {
	g, link, recorder := newTestGate(time.Hour)
	defer g.close()

	if err := g.forceKeepAlive(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link.keepAlives != 1 {
		t.Fatalf("expected 1 keepalive, got %d", link.keepAlives)
	}
	if got := recorder.countKind(events.KindGateKeepAliveSent); got != 1 {
		t.Fatalf("expected 1 keepalive sent event, got %d", got)
	}
}

func TestGateForceKeepAliveEngagesTimerEarly(t *testing.T) {
	g, _, _ := newTestGate(time.Hour)
	defer g.close()

	g.mute("coach")
	if g.status().KeepAliveActive {
		t.Fatal("expected keepalive inactive before the predicate holds")
	}

	if err := g.forceKeepAlive(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.status().KeepAliveActive {
		t.Fatal("expected force keepalive to engage the timer")
	}
}

func TestGateCloseStopsKeepAlive(t *testing.T) {
	g, _, _ := newTestGate(time.Hour)

	starveGate(g)
	g.mute("coach")
	g.close()

	if g.status().KeepAliveActive {
		t.Fatal("expected keepalive stopped after close")
	}

	g.mute("client")
	if g.status().KeepAliveActive {
		t.Fatal("expected no keepalive restart after close")
	}
}
