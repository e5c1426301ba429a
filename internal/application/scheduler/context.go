package scheduler

import (
	"sync"
	"time"
)

// Context is the state that survives between ticks: when each job last ran,
// where the activity batch stopped, and how many ticks have run. It is
// passed explicitly into every job invocation.
type Context struct {
	mu      sync.Mutex
	lastRun map[string]time.Time
	cursor  int
	ticks   uint64
}

// NewContext creates an empty scheduler context
func NewContext() *Context {
	return &Context{lastRun: make(map[string]time.Time)}
}

// LastRun returns when job last completed
func (c *Context) LastRun(job string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.lastRun[job]
	return t, ok
}

// MarkRun records a completed run of job
func (c *Context) MarkRun(job string, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRun[job] = at
}

// Due reports whether job has not run within every of now
func (c *Context) Due(job string, every time.Duration, now time.Time) bool {
	last, ok := c.LastRun(job)
	return !ok || now.Sub(last) >= every
}

// Cursor is the index of the next agent the activity batch evaluates
func (c *Context) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// SetCursor moves the activity batch cursor
func (c *Context) SetCursor(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor = i
}

// Ticks is the number of orchestrator ticks started so far
func (c *Context) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

func (c *Context) nextTick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks++
	return c.ticks
}
