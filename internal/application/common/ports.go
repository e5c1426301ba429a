package common

import (
	"context"
	"time"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// ActivityKind classifies audit trail entries
type ActivityKind string

const (
	ActivityMoved             ActivityKind = "moved"
	ActivityWalking           ActivityKind = "walking"
	ActivityWaiting           ActivityKind = "waiting"
	ActivityDenied            ActivityKind = "denied"
	ActivityArrived           ActivityKind = "arrived"
	ActivityRerouted          ActivityKind = "rerouted"
	ActivitySweepRelocation   ActivityKind = "sweep_relocation"
	ActivityStuckRepair       ActivityKind = "stuck_repair"
	ActivityEmergencyOverride ActivityKind = "emergency_override"
	ActivityTrainingStarted   ActivityKind = "training_started"
	ActivityTrainingEnded     ActivityKind = "training_ended"
	ActivityPresence          ActivityKind = "presence"
)

// Log levels used by the activity log
const (
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// ActivityEntry is one audit trail record
type ActivityEntry struct {
	ID        string
	AgentID   int
	Kind      ActivityKind
	Room      string
	Detail    string
	Level     string
	Timestamp time.Time
}

// ActivityLog is the audit sink for moves, denials and sweep corrections
type ActivityLog interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// ActivityLogStore adds reads and retention to the sink
type ActivityLogStore interface {
	ActivityLog
	Recent(ctx context.Context, agentID int, limit int) ([]ActivityEntry, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// TrainingRecorder receives training session callbacks
type TrainingRecorder interface {
	StartSession(ctx context.Context, agentID int, room facility.RoomID, at time.Time) error
	EndSession(ctx context.Context, agentID int, at time.Time) error
}

// Presence is where the business-hours oracle expects agents to be
type Presence string

const (
	PresenceOffice Presence = "office"
	PresenceHome   Presence = "home"
	PresenceAsleep Presence = "asleep"
)

// BusinessHours governs home-vs-office reconciliation
type BusinessHours interface {
	PresenceAt(t time.Time) Presence
}

// IntentSource decides what an agent wants to do next. ok=false keeps the
// agent on its current activity.
type IntentSource interface {
	NextIntent(ctx context.Context, agent workforce.Snapshot, now time.Time) (workforce.Intent, bool)
}
