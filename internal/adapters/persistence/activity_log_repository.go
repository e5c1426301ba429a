package persistence

import (
	"context"
	"crypto/rand"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
)

// GormActivityLogRepository is the audit trail of moves, denials and repairs
type GormActivityLogRepository struct {
	db    *gorm.DB
	clock shared.Clock
	retry RetryPolicy

	// identical entries inside the window are dropped
	dedupCache   map[string]time.Time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormActivityLogRepository creates a new activity log repository
// If clock is nil, uses RealClock (production behavior)
func NewGormActivityLogRepository(db *gorm.DB, clock shared.Clock, retry RetryPolicy) *GormActivityLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormActivityLogRepository{
		db:           db,
		clock:        clock,
		retry:        retry,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  60 * time.Second,
		dedupMaxSize: 10000,
	}
}

// Record writes one entry unless the same agent logged the same thing
// within the dedup window. A failed write releases its dedup slot so the
// caller can record the entry again.
func (r *GormActivityLogRepository) Record(ctx context.Context, entry common.ActivityEntry) error {
	now := r.clock.Now()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now
	}
	if entry.Level == "" {
		entry.Level = common.LevelInfo
	}

	key := strconv.Itoa(entry.AgentID) + "|" + string(entry.Kind) + "|" + entry.Room + "|" + entry.Detail

	r.dedupMu.Lock()
	if last, ok := r.dedupCache[key]; ok && now.Sub(last) < r.dedupWindow {
		r.dedupMu.Unlock()
		return nil
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(now)
	}
	r.dedupCache[key] = now
	r.dedupMu.Unlock()

	if entry.ID == "" {
		entry.ID = ulid.MustNew(ulid.Timestamp(entry.Timestamp), rand.Reader).String()
	}

	model := &ActivityLogModel{
		ID:        entry.ID,
		AgentID:   entry.AgentID,
		Kind:      string(entry.Kind),
		Room:      entry.Room,
		Detail:    entry.Detail,
		Level:     entry.Level,
		Timestamp: entry.Timestamp,
	}
	err := WithRetry(ctx, r.retry, func(ctx context.Context) error {
		return dbFromCtx(ctx, r.db).Create(model).Error
	})
	if err != nil {
		r.releaseDedupKey(key, now)
		return fmt.Errorf("failed to record activity for agent %d: %w", entry.AgentID, err)
	}
	return nil
}

// releaseDedupKey forgets key unless a later write already refreshed it
func (r *GormActivityLogRepository) releaseDedupKey(key string, at time.Time) {
	r.dedupMu.Lock()
	defer r.dedupMu.Unlock()
	if ts, ok := r.dedupCache[key]; ok && ts.Equal(at) {
		delete(r.dedupCache, key)
	}
}

// Must be called while holding dedupMu
func (r *GormActivityLogRepository) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, ts := range r.dedupCache {
		if ts.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// Recent returns the newest entries for one agent, newest first.
// agentID 0 returns entries for every agent.
func (r *GormActivityLogRepository) Recent(ctx context.Context, agentID int, limit int) ([]common.ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := dbFromCtx(ctx, r.db)
	if agentID > 0 {
		query = query.Where("agent_id = ?", agentID)
	}

	var models []ActivityLogModel
	if err := query.Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to read activity log: %w", err)
	}

	entries := make([]common.ActivityEntry, len(models))
	for i, m := range models {
		entries[i] = common.ActivityEntry{
			ID:        m.ID,
			AgentID:   m.AgentID,
			Kind:      common.ActivityKind(m.Kind),
			Room:      m.Room,
			Detail:    m.Detail,
			Level:     m.Level,
			Timestamp: m.Timestamp,
		}
	}
	return entries, nil
}

// PruneBefore deletes entries older than cutoff
func (r *GormActivityLogRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := dbFromCtx(ctx, r.db).Where("timestamp < ?", cutoff).Delete(&ActivityLogModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune activity log: %w", result.Error)
	}
	return result.RowsAffected, nil
}
