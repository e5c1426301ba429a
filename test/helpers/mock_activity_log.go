package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
)

// RecordingActivityLog is an in-memory common.ActivityLogStore for testing
type RecordingActivityLog struct {
	mu      sync.Mutex
	Entries []common.ActivityEntry
}

// NewRecordingActivityLog creates an empty recording log
func NewRecordingActivityLog() *RecordingActivityLog {
	return &RecordingActivityLog{}
}

// Record appends an entry
func (l *RecordingActivityLog) Record(ctx context.Context, entry common.ActivityEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, entry)
	return nil
}

// Recent returns the newest entries first; agentID 0 means all agents
func (l *RecordingActivityLog) Recent(ctx context.Context, agentID int, limit int) ([]common.ActivityEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []common.ActivityEntry
	for i := len(l.Entries) - 1; i >= 0; i-- {
		e := l.Entries[i]
		if agentID != 0 && e.AgentID != agentID {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// PruneBefore drops entries older than cutoff
func (l *RecordingActivityLog) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.Entries[:0]
	var removed int64
	for _, e := range l.Entries {
		if e.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	l.Entries = kept
	return removed, nil
}

// Kinds lists recorded kinds for agentID in order
func (l *RecordingActivityLog) Kinds(agentID int) []common.ActivityKind {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []common.ActivityKind
	for _, e := range l.Entries {
		if e.AgentID == agentID {
			out = append(out, e.Kind)
		}
	}
	return out
}

// HasKind reports whether any entry of kind was recorded
func (l *RecordingActivityLog) HasKind(kind common.ActivityKind) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.Entries {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// TrainingCall is one recorded training callback
type TrainingCall struct {
	AgentID int
	Room    facility.RoomID
	Started bool
	At      time.Time
}

// RecordingTrainingRecorder captures training session callbacks
type RecordingTrainingRecorder struct {
	mu    sync.Mutex
	Calls []TrainingCall
}

// StartSession records a session start
func (r *RecordingTrainingRecorder) StartSession(ctx context.Context, agentID int, room facility.RoomID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, TrainingCall{AgentID: agentID, Room: room, Started: true, At: at})
	return nil
}

// EndSession records a session end
func (r *RecordingTrainingRecorder) EndSession(ctx context.Context, agentID int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, TrainingCall{AgentID: agentID, At: at})
	return nil
}
