package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// GormAgentRepository implements AgentRepository using GORM
type GormAgentRepository struct {
	db    *gorm.DB
	clock shared.Clock
	retry RetryPolicy
}

// NewGormAgentRepository creates a new GORM agent repository
// If clock is nil, uses RealClock (production behavior)
func NewGormAgentRepository(db *gorm.DB, clock shared.Clock, retry RetryPolicy) *GormAgentRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormAgentRepository{db: db, clock: clock, retry: retry}
}

// FindByID retrieves one agent
func (r *GormAgentRepository) FindByID(ctx context.Context, id int) (*workforce.Agent, error) {
	var model AgentModel
	result := dbFromCtx(ctx, r.db).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.NewAgentNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to find agent %d: %w", id, result.Error)
	}
	return r.modelToDomain(&model)
}

// List returns every agent ordered by id
func (r *GormAgentRepository) List(ctx context.Context) ([]*workforce.Agent, error) {
	var models []AgentModel
	if err := dbFromCtx(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	return r.modelsToDomain(models)
}

// ListByState returns agents currently in one of the given states
func (r *GormAgentRepository) ListByState(ctx context.Context, states ...workforce.ActivityState) ([]*workforce.Agent, error) {
	if len(states) == 0 {
		return nil, nil
	}
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = string(s)
	}

	var models []AgentModel
	if err := dbFromCtx(ctx, r.db).Where("activity_state IN ?", names).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list agents by state: %w", err)
	}
	return r.modelsToDomain(models)
}

// ListInRoom returns agents whose current room is room
func (r *GormAgentRepository) ListInRoom(ctx context.Context, room facility.RoomID) ([]*workforce.Agent, error) {
	var models []AgentModel
	if err := dbFromCtx(ctx, r.db).Where("current_room = ?", room.String()).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list agents in %s: %w", room, err)
	}
	return r.modelsToDomain(models)
}

// Occupancy counts agents per current room
func (r *GormAgentRepository) Occupancy(ctx context.Context) (facility.Occupancy, error) {
	return countOccupancy(dbFromCtx(ctx, r.db))
}

// CountInRoom counts agents whose current room is room
func (r *GormAgentRepository) CountInRoom(ctx context.Context, room facility.RoomID) (int, error) {
	return countInRoom(dbFromCtx(ctx, r.db), room)
}

// Add inserts a new agent, retrying lock contention like Update
func (r *GormAgentRepository) Add(ctx context.Context, agent *workforce.Agent) error {
	model := r.domainToModel(agent)
	model.UpdatedAt = r.clock.Now()
	err := WithRetry(ctx, r.retry, func(ctx context.Context) error {
		return dbFromCtx(ctx, r.db).Create(model).Error
	})
	if err != nil {
		return fmt.Errorf("failed to add agent %d: %w", agent.ID(), err)
	}
	return nil
}

// Update locks the agent row, applies fn and writes the result back in one
// short transaction. Lock contention is retried per the repository policy.
func (r *GormAgentRepository) Update(ctx context.Context, id int, fn workforce.UpdateFunc) (*workforce.Agent, error) {
	var updated *workforce.Agent

	err := WithRetry(ctx, r.retry, func(ctx context.Context) error {
		return r.runInTx(ctx, func(txCtx context.Context) error {
			tx := dbFromCtx(txCtx, r.db)

			query := tx
			if isPostgres(tx) {
				query = query.Clauses(clause.Locking{Strength: "UPDATE"})
			}

			var model AgentModel
			if err := query.Where("id = ?", id).First(&model).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return shared.NewAgentNotFoundError(id)
				}
				return fmt.Errorf("failed to lock agent %d: %w", id, err)
			}

			agent, err := r.modelToDomain(&model)
			if err != nil {
				return err
			}

			if err := fn(txCtx, agent, txCounter{db: tx}); err != nil {
				return err
			}

			next := r.domainToModel(agent)
			next.UpdatedAt = r.clock.Now()
			if err := tx.Save(next).Error; err != nil {
				return fmt.Errorf("failed to save agent %d: %w", id, err)
			}

			updated = agent
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// runInTx joins a transaction already on ctx or opens one. Postgres runs
// serializable so two agents racing for the last seat cannot both commit.
func (r *GormAgentRepository) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}

	var opts []*sql.TxOptions
	if isPostgres(r.db) {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	}, opts...)
}

// txCounter answers occupancy questions from inside the update transaction
type txCounter struct {
	db *gorm.DB
}

func (c txCounter) CountInRoom(_ context.Context, room facility.RoomID) (int, error) {
	return countInRoom(c.db, room)
}

func (c txCounter) Occupancy(_ context.Context) (facility.Occupancy, error) {
	return countOccupancy(c.db)
}

func countInRoom(db *gorm.DB, room facility.RoomID) (int, error) {
	var count int64
	if err := db.Model(&AgentModel{}).Where("current_room = ?", room.String()).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count agents in %s: %w", room, err)
	}
	return int(count), nil
}

func countOccupancy(db *gorm.DB) (facility.Occupancy, error) {
	var rows []struct {
		CurrentRoom string
		N           int
	}
	err := db.Model(&AgentModel{}).
		Select("current_room, COUNT(*) AS n").
		Where("current_room IS NOT NULL").
		Group("current_room").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count occupancy: %w", err)
	}

	occ := make(facility.Occupancy, len(rows))
	for _, row := range rows {
		id, err := facility.ParseRoomID(row.CurrentRoom)
		if err != nil {
			// not a catalog room; cannot count against any capacity
			continue
		}
		occ[id] += row.N
	}
	return occ, nil
}

func (r *GormAgentRepository) modelsToDomain(models []AgentModel) ([]*workforce.Agent, error) {
	agents := make([]*workforce.Agent, 0, len(models))
	for i := range models {
		agent, err := r.modelToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, nil
}

func (r *GormAgentRepository) modelToDomain(m *AgentModel) (*workforce.Agent, error) {
	home, err := facility.ParseRoomID(m.HomeRoom)
	if err != nil {
		return nil, shared.NewInvalidAgentDataError(m.ID, fmt.Sprintf("bad home room: %v", err))
	}

	return workforce.RecoverAgent(workforce.AgentRecord{
		ID:             m.ID,
		Name:           m.Name,
		Role:           m.Role,
		Department:     m.Department,
		HomeRoom:       home,
		Floor:          m.Floor,
		CurrentRoom:    parseRoomColumn(m.CurrentRoom),
		TargetRoom:     parseRoomColumn(m.TargetRoom),
		PendingRoom:    parseRoomColumn(m.PendingRoom),
		State:          workforce.ActivityState(m.ActivityState),
		DesiredState:   workforce.ActivityState(m.DesiredState),
		HiredAt:        m.HiredAt,
		StateChangedAt: m.StateChangedAt,
	}, r.clock)
}

func (r *GormAgentRepository) domainToModel(agent *workforce.Agent) *AgentModel {
	rec := agent.Record()
	return &AgentModel{
		ID:             rec.ID,
		Name:           rec.Name,
		Role:           rec.Role,
		Department:     rec.Department,
		HomeRoom:       rec.HomeRoom.String(),
		Floor:          rec.Floor,
		CurrentRoom:    roomColumn(rec.CurrentRoom),
		TargetRoom:     roomColumn(rec.TargetRoom),
		PendingRoom:    roomColumn(rec.PendingRoom),
		ActivityState:  string(rec.State),
		DesiredState:   string(rec.DesiredState),
		HiredAt:        rec.HiredAt,
		StateChangedAt: rec.StateChangedAt,
	}
}

// Unparseable room text loads as "no room" so stuck repair can fix the row
func parseRoomColumn(v *string) *facility.RoomID {
	if v == nil || *v == "" {
		return nil
	}
	id, err := facility.ParseRoomID(*v)
	if err != nil {
		return nil
	}
	return &id
}

func roomColumn(id *facility.RoomID) *string {
	if id == nil || id.IsZero() {
		return nil
	}
	s := id.String()
	return &s
}
