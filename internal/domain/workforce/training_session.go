package workforce

import (
	"fmt"
	"math"
	"time"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
)

// MaxTrainingDuration caps every training session
const MaxTrainingDuration = 30 * time.Minute

// TrainingStatus tracks whether a session is still open
type TrainingStatus string

const (
	TrainingInProgress TrainingStatus = "in_progress"
	TrainingCompleted  TrainingStatus = "completed"
)

// TrainingSession is append-only history of one agent's stay in a training room
type TrainingSession struct {
	id              string
	agentID         int
	room            facility.RoomID
	startTime       time.Time
	endTime         *time.Time
	status          TrainingStatus
	durationMinutes int
}

// NewTrainingSession opens a session at start
func NewTrainingSession(id string, agentID int, room facility.RoomID, start time.Time) *TrainingSession {
	return &TrainingSession{
		id:        id,
		agentID:   agentID,
		room:      room,
		startTime: start,
		status:    TrainingInProgress,
	}
}

// RecoverTrainingSession rebuilds a session from storage
func RecoverTrainingSession(id string, agentID int, room facility.RoomID, start time.Time, end *time.Time, status TrainingStatus, durationMinutes int) *TrainingSession {
	return &TrainingSession{
		id:              id,
		agentID:         agentID,
		room:            room,
		startTime:       start,
		endTime:         end,
		status:          status,
		durationMinutes: durationMinutes,
	}
}

func (s *TrainingSession) ID() string              { return s.id }
func (s *TrainingSession) AgentID() int            { return s.agentID }
func (s *TrainingSession) Room() facility.RoomID   { return s.room }
func (s *TrainingSession) StartTime() time.Time    { return s.startTime }
func (s *TrainingSession) EndTime() *time.Time     { return s.endTime }
func (s *TrainingSession) Status() TrainingStatus  { return s.status }
func (s *TrainingSession) DurationMinutes() int    { return s.durationMinutes }
func (s *TrainingSession) IsOpen() bool            { return s.status == TrainingInProgress }

// Expired reports whether the session has reached the cap at now
func (s *TrainingSession) Expired(now time.Time) bool {
	return s.IsOpen() && now.Sub(s.startTime) >= MaxTrainingDuration
}

// Close completes the session. The recorded duration never exceeds the cap.
func (s *TrainingSession) Close(at time.Time) error {
	if !s.IsOpen() {
		return fmt.Errorf("training session %s already completed", s.id)
	}
	if at.Before(s.startTime) {
		at = s.startTime
	}
	if at.Sub(s.startTime) > MaxTrainingDuration {
		at = s.startTime.Add(MaxTrainingDuration)
	}
	end := at
	s.endTime = &end
	s.status = TrainingCompleted
	s.durationMinutes = int(math.Round(at.Sub(s.startTime).Minutes()))
	return nil
}
