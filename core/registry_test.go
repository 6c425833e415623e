package routing

import (
	"testing"

	"github.com/triadvoice/session-core/core/events"
)

func TestRegistryRoleDefaultsToUnknown(t *testing.T) {
	registry := newParticipantRegistry()

	if got := registry.roleOf("stranger"); got != RoleUnknown {
		t.Fatalf("expected unknown role, got %q", got)
	}

	registry.register("c1", RoleClient, "Client")
	if got := registry.roleOf("c1"); got != RoleClient {
		t.Fatalf("expected client role, got %q", got)
	}
}

func TestRegistryReregistrationOverwrites(t *testing.T) {
	registry := newParticipantRegistry()

	registry.register("p1", RoleClient, "First")
	registry.register("p1", RoleCoach, "Second")

	if got := registry.roleOf("p1"); got != RoleCoach {
		t.Fatalf("expected coach role after re-registration, got %q", got)
	}
	if got := len(registry.snapshot()); got != 1 {
		t.Fatalf("expected 1 participant, got %d", got)
	}
}

func TestRegistryUnregisterRunsHookOnlyForKnownIDs(t *testing.T) {
	registry := newParticipantRegistry()
	recorder := &eventRecorder{}
	registry.emitEvent = recorder.record

	var hooked []string
	registry.onUnregister = func(id string) { hooked = append(hooked, id) }

	registry.register("coach", RoleCoach, "Coach")
	registry.unregister("coach")
	registry.unregister("coach")
	registry.unregister("ghost")

	if len(hooked) != 1 || hooked[0] != "coach" {
		t.Fatalf("unexpected hook calls: %v", hooked)
	}
	if got := recorder.countKind(events.KindParticipantUnregistered); got != 1 {
		t.Fatalf("expected 1 unregistered event, got %d", got)
	}
}

func TestRegistryClear(t *testing.T) {
	registry := newParticipantRegistry()
	registry.register("a", RoleClient, "A")
	registry.register("b", RoleCoach, "B")

	registry.clear()

	if got := len(registry.snapshot()); got != 0 {
		t.Fatalf("expected empty registry, got %d participants", got)
	}
	if registry.isRegistered("a") {
		t.Fatal("expected a unregistered after clear")
	}
}
