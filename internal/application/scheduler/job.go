package scheduler

import (
	"context"
	"time"
)

// Job is one unit of periodic work
type Job interface {
	Name() string
	Run(ctx context.Context, sc *Context, now time.Time) error
}

// JobFunc adapts a function to Job
type JobFunc struct {
	name string
	fn   func(ctx context.Context, sc *Context, now time.Time) error
}

// NewJob wraps fn as a named job
func NewJob(name string, fn func(ctx context.Context, sc *Context, now time.Time) error) *JobFunc {
	return &JobFunc{name: name, fn: fn}
}

func (j *JobFunc) Name() string { return j.name }

func (j *JobFunc) Run(ctx context.Context, sc *Context, now time.Time) error {
	return j.fn(ctx, sc, now)
}
