package persistence

import (
	"time"
)

// AgentModel represents the agents table
// Rooms are stored in their rendered text form ("breakroom_floor2"); NULL means none.
type AgentModel struct {
	ID             int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name           string    `gorm:"column:name;not null"`
	Role           string    `gorm:"column:role;not null;default:''"`
	Department     string    `gorm:"column:department;not null;default:''"`
	HomeRoom       string    `gorm:"column:home_room;not null"`
	Floor          int       `gorm:"column:floor;not null"`
	CurrentRoom    *string   `gorm:"column:current_room;index:idx_agents_current_room"`
	TargetRoom     *string   `gorm:"column:target_room"`
	PendingRoom    *string   `gorm:"column:pending_room"`
	ActivityState  string    `gorm:"column:activity_state;not null;index:idx_agents_activity_state"`
	DesiredState   string    `gorm:"column:desired_state;not null;default:'working'"`
	HiredAt        time.Time `gorm:"column:hired_at;not null"`
	StateChangedAt time.Time `gorm:"column:state_changed_at;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (AgentModel) TableName() string {
	return "agents"
}

// TrainingSessionModel represents the training_sessions table
type TrainingSessionModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	AgentID         int        `gorm:"column:agent_id;not null;index:idx_training_sessions_agent_status"`
	Room            string     `gorm:"column:room;not null"`
	StartTime       time.Time  `gorm:"column:start_time;not null"`
	EndTime         *time.Time `gorm:"column:end_time"`
	Status          string     `gorm:"column:status;not null;index:idx_training_sessions_agent_status"`
	DurationMinutes int        `gorm:"column:duration_minutes;not null;default:0"`
}

func (TrainingSessionModel) TableName() string {
	return "training_sessions"
}

// ActivityLogModel represents the activity_logs table
type ActivityLogModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	AgentID   int       `gorm:"column:agent_id;not null;index:idx_activity_logs_agent_time"`
	Kind      string    `gorm:"column:kind;not null"`
	Room      string    `gorm:"column:room"`
	Detail    string    `gorm:"column:detail;type:text"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index:idx_activity_logs_agent_time;index:idx_activity_logs_timestamp"`
}

func (ActivityLogModel) TableName() string {
	return "activity_logs"
}
