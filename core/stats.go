package routing

import (
	"sync"

	"github.com/jinzhu/copier"
)

// ParticipantStats is the per-participant share of the session counters.
type ParticipantStats struct {
	Received             uint64
	SentToConversational uint64
	SentToTranscription  uint64
	BlockedByGate        uint64
	InvalidDropped       uint64
	SendFailures         uint64
}

// Stats are monotonic session counters. They reset only when the session
// ends; callers receive deep-copied snapshots, never live state.
type Stats struct {
	TotalReceived        uint64
	SentToConversational uint64
	SentToTranscription  uint64
	BlockedByGate        uint64
	InvalidDropped       uint64
	SendFailures         uint64

	PerParticipant map[string]ParticipantStats
}

type statsRecorder struct {
	mu    sync.Mutex
	stats Stats
}

func newStatsRecorder() *statsRecorder {
	return &statsRecorder{stats: Stats{PerParticipant: map[string]ParticipantStats{}}}
}

func (r *statsRecorder) recordReceived(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.TotalReceived++
	participant := r.stats.PerParticipant[participantID]
	participant.Received++
	r.stats.PerParticipant[participantID] = participant
}

func (r *statsRecorder) recordConversational(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.SentToConversational++
	participant := r.stats.PerParticipant[participantID]
	participant.SentToConversational++
	r.stats.PerParticipant[participantID] = participant
}

func (r *statsRecorder) recordTranscription(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.SentToTranscription++
	participant := r.stats.PerParticipant[participantID]
	participant.SentToTranscription++
	r.stats.PerParticipant[participantID] = participant
}

func (r *statsRecorder) recordBlocked(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.BlockedByGate++
	participant := r.stats.PerParticipant[participantID]
	participant.BlockedByGate++
	r.stats.PerParticipant[participantID] = participant
}

func (r *statsRecorder) recordInvalid(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.InvalidDropped++
	participant := r.stats.PerParticipant[participantID]
	participant.InvalidDropped++
	r.stats.PerParticipant[participantID] = participant
}

func (r *statsRecorder) recordSendFailure(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.SendFailures++
	participant := r.stats.PerParticipant[participantID]
	participant.SendFailures++
	r.stats.PerParticipant[participantID] = participant
}

// snapshot returns an immutable deep copy of the counters.
func (r *statsRecorder) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := Stats{}
	if err := copier.CopyWithOption(&snapshot, &r.stats, copier.Option{DeepCopy: true}); err != nil {
		// Copy failure degrades to an empty breakdown rather than sharing
		// live state with the caller.
		snapshot = Stats{
			TotalReceived:        r.stats.TotalReceived,
			SentToConversational: r.stats.SentToConversational,
			SentToTranscription:  r.stats.SentToTranscription,
			BlockedByGate:        r.stats.BlockedByGate,
			InvalidDropped:       r.stats.InvalidDropped,
			SendFailures:         r.stats.SendFailures,
			PerParticipant:       map[string]ParticipantStats{},
		}
	}
	if snapshot.PerParticipant == nil {
		snapshot.PerParticipant = map[string]ParticipantStats{}
	}
	return snapshot
}

func (r *statsRecorder) reset() {
	r.mu.Lock()
	r.stats = Stats{PerParticipant: map[string]ParticipantStats{}}
	r.mu.Unlock()
}
