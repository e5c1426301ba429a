package upkeep

import (
	"context"
	"errors"

	"github.com/andrescamacho/officesim-go/internal/adapters/metrics"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
)

// Report summarises one pass of an upkeep job
type Report struct {
	Checked int
	Changed int
	Skipped int
	Failed  int
}

// Add folds other into r
func (r *Report) Add(other Report) {
	r.Checked += other.Checked
	r.Changed += other.Changed
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

// errUnchanged aborts an agent update without writing when a re-read shows
// the job has nothing to do
var errUnchanged = errors.New("agent no longer needs this job")

// settle folds the result of one agent update into the report. Contention
// and per-agent failures are logged and never abort the pass.
func (r *Report) settle(ctx context.Context, job string, agentID int, err error) bool {
	switch {
	case err == nil:
		r.Changed++
		return true
	case errors.Is(err, errUnchanged):
		r.Skipped++
	case errors.Is(err, shared.ErrStoreContended):
		r.Skipped++
		metrics.RecordContention(job)
		logging.FromContext(ctx).Warn("store contended, skipping agent this cycle", "job", job, "agent_id", agentID, "error", err)
	default:
		r.Failed++
		logging.FromContext(ctx).Warn("upkeep failed for agent", "job", job, "agent_id", agentID, "error", err)
	}
	return false
}
