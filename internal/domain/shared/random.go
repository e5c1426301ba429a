package shared

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource isolates every intentional random choice (break room picks,
// training tie-breaks, sweep victim selection) so tests can pin outcomes.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// LockedRandom is a RandomSource safe for concurrent jobs
type LockedRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRandom creates a deterministic RandomSource
func NewSeededRandom(seed int64) *LockedRandom {
	return &LockedRandom{rng: rand.New(rand.NewSource(seed))}
}

// NewRandom creates a RandomSource seeded from the wall clock
func NewRandom() *LockedRandom {
	return NewSeededRandom(time.Now().UnixNano())
}

func (r *LockedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *LockedRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

func (r *LockedRandom) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(n, swap)
}

// FixedRandom replays scripted values; used by tests that need a specific branch.
// Float64 and Intn cycle through their slices; Shuffle is a no-op.
type FixedRandom struct {
	mu     sync.Mutex
	Floats []float64
	Ints   []int
	fi, ii int
}

func (f *FixedRandom) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Floats) == 0 {
		return 0.99
	}
	v := f.Floats[f.fi%len(f.Floats)]
	f.fi++
	return v
}

func (f *FixedRandom) Intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Ints) == 0 || n <= 0 {
		return 0
	}
	v := f.Ints[f.ii%len(f.Ints)]
	f.ii++
	return v % n
}

func (f *FixedRandom) Shuffle(n int, swap func(i, j int)) {}
