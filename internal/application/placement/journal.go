package placement

import (
	"context"

	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
)

// Journal follows up committed agent transitions: it appends to the
// activity log and opens or closes training sessions. Failures are logged
// and swallowed; the transition is already durable.
type Journal struct {
	log      common.ActivityLog
	training common.TrainingRecorder
	clock    shared.Clock
}

// NewJournal creates a journal. Either sink may be nil.
func NewJournal(log common.ActivityLog, training common.TrainingRecorder, clock shared.Clock) *Journal {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Journal{log: log, training: training, clock: clock}
}

// Entry describes one audit record
type Entry struct {
	Kind   common.ActivityKind
	Room   string
	Detail string
	Level  string
}

// Committed records entry for the agent and reconciles its training session
// with the before/after states
func (j *Journal) Committed(ctx context.Context, before, after workforce.Snapshot, entry Entry) {
	j.Record(ctx, after.ID, entry)
	j.trackTraining(ctx, before, after)
}

// Record appends an entry without a state change
func (j *Journal) Record(ctx context.Context, agentID int, entry Entry) {
	if j == nil || j.log == nil {
		return
	}
	level := entry.Level
	if level == "" {
		level = common.LevelInfo
	}
	err := j.log.Record(ctx, common.ActivityEntry{
		AgentID:   agentID,
		Kind:      entry.Kind,
		Room:      entry.Room,
		Detail:    entry.Detail,
		Level:     level,
		Timestamp: j.clock.Now(),
	})
	if err != nil {
		logging.FromContext(ctx).Warn("activity log write failed", "agent_id", agentID, "kind", entry.Kind, "error", err)
	}
}

func (j *Journal) trackTraining(ctx context.Context, before, after workforce.Snapshot) {
	if j == nil || j.training == nil {
		return
	}
	at := j.clock.Now()
	logger := logging.FromContext(ctx)

	wasTraining := before.State == workforce.StateTraining
	isTraining := after.State == workforce.StateTraining && after.CurrentRoom != nil
	movedRooms := wasTraining && isTraining && !sameRoom(before.CurrentRoom, after.CurrentRoom)

	if wasTraining && (!isTraining || movedRooms) {
		if err := j.training.EndSession(ctx, after.ID, at); err != nil {
			logger.Warn("failed to close training session", "agent_id", after.ID, "error", err)
		} else {
			j.Record(ctx, after.ID, Entry{Kind: common.ActivityTrainingEnded, Room: roomText(before.CurrentRoom)})
		}
	}
	if isTraining && (!wasTraining || movedRooms) {
		if err := j.training.StartSession(ctx, after.ID, *after.CurrentRoom, at); err != nil {
			logger.Warn("failed to open training session", "agent_id", after.ID, "error", err)
		} else {
			j.Record(ctx, after.ID, Entry{Kind: common.ActivityTrainingStarted, Room: after.CurrentRoom.String()})
		}
	}
}
