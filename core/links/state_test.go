package links

import (
	"testing"
	"time"
)

func TestCanTransitionFollowsLifecycle(t *testing.T) {
	allowed := []struct {
		from, to State
	}{
		{StateDisconnected, StateConnecting},
		{StateConnecting, StateSettingsPending},
		{StateSettingsPending, StateReady},
		{StateReady, StateClosing},
		{StateClosing, StateDisconnected},
		{StateReady, StateDisconnected},
		{StateConnecting, StateReady},
		{StateConnecting, StateFailed},
	}
	for _, transition := range allowed {
		if !transition.from.CanTransition(transition.to) {
			t.Fatalf("expected %s -> %s to be allowed", transition.from, transition.to)
		}
	}

	forbidden := []struct {
		from, to State
	}{
		{StateDisconnected, StateReady},
		{StateFailed, StateConnecting},
		{StateFailed, StateDisconnected},
		{StateClosing, StateReady},
		{StateReady, StateReady},
	}
	for _, transition := range forbidden {
		if transition.from.CanTransition(transition.to) {
			t.Fatalf("expected %s -> %s to be forbidden", transition.from, transition.to)
		}
	}
}

func TestFailedIsTerminal(t *testing.T) {
	if StateReady.IsTerminal() || StateDisconnected.IsTerminal() {
		t.Fatalf("expected only failed state to be terminal")
	}
	if !StateFailed.IsTerminal() {
		t.Fatalf("expected failed state to be terminal")
	}
}

func TestReconnectDelayGrowsLinearly(t *testing.T) {
	for attempt := 1; attempt <= DefaultReconnectAttempts; attempt++ {
		delay, ok := ReconnectDelay(attempt, DefaultReconnectAttempts, DefaultReconnectBaseDelay)
		if !ok {
			t.Fatalf("expected attempt %d to be within budget", attempt)
		}
		if delay != time.Duration(attempt)*DefaultReconnectBaseDelay {
			t.Fatalf("expected attempt %d delay %s, got %s", attempt, time.Duration(attempt)*DefaultReconnectBaseDelay, delay)
		}
	}
}

func TestReconnectDelayExhaustsBudget(t *testing.T) {
	if _, ok := ReconnectDelay(DefaultReconnectAttempts+1, DefaultReconnectAttempts, DefaultReconnectBaseDelay); ok {
		t.Fatalf("expected attempt beyond budget to be rejected")
	}
	if _, ok := ReconnectDelay(0, DefaultReconnectAttempts, DefaultReconnectBaseDelay); ok {
		t.Fatalf("expected attempt 0 to be rejected")
	}
}
