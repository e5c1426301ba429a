package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/officesim-go/internal/adapters/metrics"
	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/application/placement"
	"github.com/andrescamacho/officesim-go/internal/application/upkeep"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
)

// TickJobName names the orchestrator in metrics and the scheduler context
const TickJobName = "tick"

const activityStep = "activity"

// Steps are the per-tick upkeep passes, run in this order
type Steps struct {
	Presence        *upkeep.Presence
	StuckRepair     *upkeep.StuckRepair
	CapacitySweep   *upkeep.CapacitySweep
	Arrivals        *upkeep.Arrivals
	TrainingTimeout *upkeep.TrainingTimeout
}

// Orchestrator is the main tick: presence, stuck repair, capacity sweep,
// arrivals with waiting retries and a batch of activity decisions, then the
// training timeout sweep. A failing step is logged and the tick moves on.
type Orchestrator struct {
	steps     Steps
	agents    workforce.AgentRepository
	placer    *placement.Placer
	intents   common.IntentSource
	limiter   *rate.Limiter
	batchSize int
}

// NewOrchestrator creates the tick job. limiter throttles activity decisions
// across ticks; nil means unthrottled.
func NewOrchestrator(steps Steps, agents workforce.AgentRepository, placer *placement.Placer, intents common.IntentSource, limiter *rate.Limiter, batchSize int) *Orchestrator {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return &Orchestrator{
		steps:     steps,
		agents:    agents,
		placer:    placer,
		intents:   intents,
		limiter:   limiter,
		batchSize: batchSize,
	}
}

func (o *Orchestrator) Name() string { return TickJobName }

// Run executes one tick
func (o *Orchestrator) Run(ctx context.Context, sc *Context, now time.Time) error {
	tick := sc.nextTick()
	ctx, logger := logging.With(ctx, "tick", tick)

	var errs []error
	step := func(name string, run func(context.Context, time.Time) (upkeep.Report, error)) {
		report, err := run(ctx, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			logger.Warn("tick step failed", "step", name, "error", err)
			return
		}
		if report.Changed > 0 || report.Failed > 0 {
			logger.Info("tick step", "step", name, "checked", report.Checked, "changed", report.Changed,
				"skipped", report.Skipped, "failed", report.Failed)
		}
	}

	if o.steps.Presence != nil {
		step("presence", o.steps.Presence.Run)
	}
	if o.steps.StuckRepair != nil {
		step("stuck_repair", o.steps.StuckRepair.Run)
	}
	if o.steps.CapacitySweep != nil {
		step("capacity_sweep", o.steps.CapacitySweep.Run)
	}
	if o.steps.Arrivals != nil {
		step("arrivals", o.steps.Arrivals.Run)
	}
	if o.intents != nil {
		step(activityStep, func(ctx context.Context, now time.Time) (upkeep.Report, error) {
			return o.decideActivities(ctx, sc, now)
		})
	}
	if o.steps.TrainingTimeout != nil {
		step("training_timeout", o.steps.TrainingTimeout.Run)
	}

	return errors.Join(errs...)
}

// decideActivities asks the intent source about the next batch of agents,
// resuming where the previous tick stopped
func (o *Orchestrator) decideActivities(ctx context.Context, sc *Context, now time.Time) (upkeep.Report, error) {
	var report upkeep.Report

	agents, err := o.agents.List(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list agents: %w", err)
	}
	if len(agents) == 0 {
		return report, nil
	}

	start := sc.Cursor() % len(agents)
	n := o.batchSize
	if n > len(agents) {
		n = len(agents)
	}
	sc.SetCursor((start + n) % len(agents))

	for i := 0; i < n; i++ {
		agent := agents[(start+i)%len(agents)]
		report.Checked++

		if agent.State().IsOffsite() {
			report.Skipped++
			continue
		}
		intent, ok := o.intents.NextIntent(ctx, agent.Snapshot(), now)
		if !ok {
			report.Skipped++
			continue
		}

		if err := o.limiter.Wait(ctx); err != nil {
			return report, err
		}
		result, err := o.placer.ReportActivity(ctx, agent.ID(), intent)
		switch {
		case errors.Is(err, shared.ErrStoreContended):
			report.Skipped++
			metrics.RecordContention(activityStep)
			logging.FromContext(ctx).Warn("store contended, skipping agent this cycle", "agent_id", agent.ID(), "error", err)
		case err != nil:
			report.Failed++
			logging.FromContext(ctx).Warn("activity decision failed", "agent_id", agent.ID(), "activity", string(intent.Activity), "error", err)
		case result == nil || result.Decision.NoChange:
			report.Skipped++
		default:
			report.Changed++
		}
	}
	return report, nil
}
