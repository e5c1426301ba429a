package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
)

// LogPrunerJobName names the activity log retention job
const LogPrunerJobName = "log_pruner"

// LogPruner deletes activity log entries older than the retention window
type LogPruner struct {
	store     common.ActivityLogStore
	retention time.Duration
}

// NewLogPruner creates the job
func NewLogPruner(store common.ActivityLogStore, retention time.Duration) *LogPruner {
	return &LogPruner{store: store, retention: retention}
}

func (p *LogPruner) Name() string { return LogPrunerJobName }

// Run prunes everything recorded before now minus the retention window
func (p *LogPruner) Run(ctx context.Context, _ *Context, now time.Time) error {
	if p.retention <= 0 {
		return nil
	}
	cutoff := now.Add(-p.retention)
	removed, err := p.store.PruneBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune activity log: %w", err)
	}
	if removed > 0 {
		logging.FromContext(ctx).Info("activity log pruned", "removed", removed, "cutoff", cutoff.Format(time.RFC3339))
	}
	return nil
}
