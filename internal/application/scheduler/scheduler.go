package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andrescamacho/officesim-go/internal/adapters/metrics"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
)

type entry struct {
	job   Job
	every time.Duration
}

// Scheduler runs jobs at fixed intervals, each on its own goroutine so a
// slow job never delays the others. Stop is cooperative: it stops new runs
// and waits for in-flight runs to finish. A run is never cancelled midway.
type Scheduler struct {
	clock   shared.Clock
	sc      *Context
	entries []entry

	stopping atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	loops    sync.WaitGroup
}

// New creates a scheduler sharing sc across all jobs
func New(clock shared.Clock, sc *Context) *Scheduler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if sc == nil {
		sc = NewContext()
	}
	return &Scheduler{clock: clock, sc: sc, stopCh: make(chan struct{})}
}

// Context returns the cross-tick state
func (s *Scheduler) Context() *Context { return s.sc }

// Every registers job to run at the given interval. Must be called before Run.
func (s *Scheduler) Every(every time.Duration, job Job) {
	s.entries = append(s.entries, entry{job: job, every: every})
}

// Run starts every job loop and blocks until ctx is done or Stop is called.
// It returns once all loops have exited.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	for _, e := range s.entries {
		s.loops.Add(1)
		go s.loop(ctx, e)
		logger.Info("job scheduled", "job", e.job.Name(), "every", e.every.String())
	}

	select {
	case <-ctx.Done():
	case <-s.stopCh:
	}
	s.stopping.Store(true)
	s.loops.Wait()
	logger.Info("scheduler stopped")
	return nil
}

// Stop prevents new runs and waits for in-flight runs to finish
func (s *Scheduler) Stop() {
	s.stopping.Store(true)
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.loops.Wait()
}

// Stopping reports whether Stop has been requested
func (s *Scheduler) Stopping() bool {
	return s.stopping.Load()
}

func (s *Scheduler) loop(ctx context.Context, e entry) {
	defer s.loops.Done()

	ticker := time.NewTicker(e.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if s.stopping.Load() {
				return
			}
			_ = s.RunOnce(ctx, e.job)
		}
	}
}

// RunOnce runs job immediately with the shared context. The run is detached
// from ctx cancellation so a shutdown never interrupts a write halfway.
func (s *Scheduler) RunOnce(ctx context.Context, job Job) error {
	runCtx, logger := logging.With(context.WithoutCancel(ctx), "job", job.Name())

	start := s.clock.Now()
	err := job.Run(runCtx, s.sc, start)
	elapsed := s.clock.Now().Sub(start)

	metrics.RecordJobRun(job.Name(), elapsed.Seconds(), err == nil)
	s.sc.MarkRun(job.Name(), start)

	if err != nil {
		logger.Error("job failed", "duration", elapsed.String(), "error", err)
		return err
	}
	logger.Debug("job finished", "duration", elapsed.String())
	return nil
}
