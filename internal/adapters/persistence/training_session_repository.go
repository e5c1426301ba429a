package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// GormTrainingSessionRepository stores training history
type GormTrainingSessionRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

// NewGormTrainingSessionRepository creates a new training session repository.
// Writes that lose a lock race are retried per retry.
func NewGormTrainingSessionRepository(db *gorm.DB, retry RetryPolicy) *GormTrainingSessionRepository {
	return &GormTrainingSessionRepository{db: db, retry: retry}
}

// Add inserts a new session
func (r *GormTrainingSessionRepository) Add(ctx context.Context, session *workforce.TrainingSession) error {
	return WithRetry(ctx, r.retry, func(ctx context.Context) error {
		return r.add(ctx, session)
	})
}

// Save writes every column of an existing session
func (r *GormTrainingSessionRepository) Save(ctx context.Context, session *workforce.TrainingSession) error {
	return WithRetry(ctx, r.retry, func(ctx context.Context) error {
		return r.save(ctx, session)
	})
}

func (r *GormTrainingSessionRepository) add(ctx context.Context, session *workforce.TrainingSession) error {
	if err := dbFromCtx(ctx, r.db).Create(sessionToModel(session)).Error; err != nil {
		return fmt.Errorf("failed to add training session: %w", err)
	}
	return nil
}

func (r *GormTrainingSessionRepository) save(ctx context.Context, session *workforce.TrainingSession) error {
	if err := dbFromCtx(ctx, r.db).Save(sessionToModel(session)).Error; err != nil {
		return fmt.Errorf("failed to save training session %s: %w", session.ID(), err)
	}
	return nil
}

// FindOpenByAgent returns the agent's in-progress session, or nil if none
func (r *GormTrainingSessionRepository) FindOpenByAgent(ctx context.Context, agentID int) (*workforce.TrainingSession, error) {
	var model TrainingSessionModel
	err := dbFromCtx(ctx, r.db).
		Where("agent_id = ? AND status = ?", agentID, string(workforce.TrainingInProgress)).
		Order("start_time DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open training session for agent %d: %w", agentID, err)
	}
	return modelToSession(&model)
}

// ListOpen returns every in-progress session
func (r *GormTrainingSessionRepository) ListOpen(ctx context.Context) ([]*workforce.TrainingSession, error) {
	var models []TrainingSessionModel
	err := dbFromCtx(ctx, r.db).
		Where("status = ?", string(workforce.TrainingInProgress)).
		Order("start_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open training sessions: %w", err)
	}
	return modelsToSessions(models)
}

// ListExpired returns in-progress sessions that reached the maximum duration
func (r *GormTrainingSessionRepository) ListExpired(ctx context.Context, now time.Time) ([]*workforce.TrainingSession, error) {
	var models []TrainingSessionModel
	err := dbFromCtx(ctx, r.db).
		Where("status = ? AND start_time <= ?", string(workforce.TrainingInProgress), now.Add(-workforce.MaxTrainingDuration)).
		Order("start_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired training sessions: %w", err)
	}
	return modelsToSessions(models)
}

// StartSession opens a session for an agent that just settled in a training
// room. An already open session is kept.
func (r *GormTrainingSessionRepository) StartSession(ctx context.Context, agentID int, room facility.RoomID, at time.Time) error {
	id := uuid.NewString()
	return WithRetry(ctx, r.retry, func(ctx context.Context) error {
		open, err := r.FindOpenByAgent(ctx, agentID)
		if err != nil {
			return err
		}
		if open != nil {
			return nil
		}
		return r.add(ctx, workforce.NewTrainingSession(id, agentID, room, at))
	})
}

// EndSession closes the agent's open session, if any
func (r *GormTrainingSessionRepository) EndSession(ctx context.Context, agentID int, at time.Time) error {
	return WithRetry(ctx, r.retry, func(ctx context.Context) error {
		open, err := r.FindOpenByAgent(ctx, agentID)
		if err != nil || open == nil {
			return err
		}
		if err := open.Close(at); err != nil {
			return err
		}
		return r.save(ctx, open)
	})
}

func sessionToModel(s *workforce.TrainingSession) *TrainingSessionModel {
	return &TrainingSessionModel{
		ID:              s.ID(),
		AgentID:         s.AgentID(),
		Room:            s.Room().String(),
		StartTime:       s.StartTime(),
		EndTime:         s.EndTime(),
		Status:          string(s.Status()),
		DurationMinutes: s.DurationMinutes(),
	}
}

func modelToSession(m *TrainingSessionModel) (*workforce.TrainingSession, error) {
	room, err := facility.ParseRoomID(m.Room)
	if err != nil {
		return nil, fmt.Errorf("training session %s: %w", m.ID, err)
	}
	return workforce.RecoverTrainingSession(m.ID, m.AgentID, room, m.StartTime, m.EndTime, workforce.TrainingStatus(m.Status), m.DurationMinutes), nil
}

func modelsToSessions(models []TrainingSessionModel) ([]*workforce.TrainingSession, error) {
	sessions := make([]*workforce.TrainingSession, 0, len(models))
	for i := range models {
		s, err := modelToSession(&models[i])
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
