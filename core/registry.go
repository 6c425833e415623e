package routing

import (
	"sync"

	"github.com/triadvoice/session-core/core/events"
)

// Role describes a participant's part in the session. It is fixed for the
// participant's lifetime.
type Role string

const (
	RoleClient  Role = "client"
	RoleCoach   Role = "coach"
	RoleAI      Role = "ai"
	RoleUnknown Role = "unknown"
)

// Participant is one registered member of the session.
type Participant struct {
	ID          string
	DisplayName string
	Role        Role
}

// participantRegistry tracks id to role for a single session. It is owned
// by one router; concurrent sessions never share a registry.
type participantRegistry struct {
	mu           sync.Mutex
	participants map[string]Participant

	// onUnregister clears any residual per-participant state (mutes) so a
	// reused id never inherits it.
	onUnregister func(id string)
	emitEvent    eventEmitter
}

func newParticipantRegistry() *participantRegistry {
	return &participantRegistry{
		participants: map[string]Participant{},
		emitEvent:    noopEventEmitter,
	}
}

func (r *participantRegistry) register(id string, role Role, displayName string) {
	r.mu.Lock()
	r.participants[id] = Participant{ID: id, DisplayName: displayName, Role: role}
	r.mu.Unlock()

	r.emitEvent(events.NewParticipantRegistered(id, string(role)))
}

func (r *participantRegistry) unregister(id string) {
	r.mu.Lock()
	_, known := r.participants[id]
	delete(r.participants, id)
	r.mu.Unlock()

	if !known {
		return
	}

	if r.onUnregister != nil {
		r.onUnregister(id)
	}
	r.emitEvent(events.NewParticipantUnregistered(id))
}

// roleOf returns the registered role, or RoleUnknown for ids that were
// never registered. Unknown participants are routed under client policy,
// never silently dropped.
func (r *participantRegistry) roleOf(id string) Role {
	r.mu.Lock()
	defer r.mu.Unlock()

	if participant, ok := r.participants[id]; ok {
		return participant.Role
	}
	return RoleUnknown
}

func (r *participantRegistry) isRegistered(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.participants[id]
	return ok
}

func (r *participantRegistry) snapshot() []Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	participants := make([]Participant, 0, len(r.participants))
	for _, participant := range r.participants {
		participants = append(participants, participant)
	}
	return participants
}

func (r *participantRegistry) clear() {
	r.mu.Lock()
	r.participants = map[string]Participant{}
	r.mu.Unlock()
}
