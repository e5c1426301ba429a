package intents

import (
	"context"
	"time"

	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// Weights are per-decision probabilities of starting each activity. The
// remainder keeps the agent on its current activity.
type Weights struct {
	Break    float64
	Meeting  float64
	Training float64
}

// DefaultWeights give a working agent a new activity roughly one decision in four
func DefaultWeights() Weights {
	return Weights{Break: 0.12, Meeting: 0.08, Training: 0.05}
}

// meetingHints feed the resolver's keyword rules
var meetingHints = []string{
	"one-on-one", "1:1 catch-up", "quarterly strategy review", "planning session",
	"all-hands", "team sync", "product demo", "design review",
}

// RoutinePolicy is the default intent source. Working agents occasionally
// take a break, join a meeting, or (when recently hired) go to training;
// breaks and meetings end after their configured durations.
type RoutinePolicy struct {
	random              shared.RandomSource
	weights             Weights
	breakDuration       time.Duration
	meetingDuration     time.Duration
	trainingEligibility time.Duration
}

// Option configures a RoutinePolicy
type Option func(*RoutinePolicy)

// WithWeights overrides the activity probabilities
func WithWeights(w Weights) Option {
	return func(p *RoutinePolicy) { p.weights = w }
}

// WithTrainingEligibility limits training intents to agents hired within d
func WithTrainingEligibility(d time.Duration) Option {
	return func(p *RoutinePolicy) { p.trainingEligibility = d }
}

// NewRoutinePolicy creates the policy
func NewRoutinePolicy(random shared.RandomSource, breakDuration, meetingDuration time.Duration, opts ...Option) *RoutinePolicy {
	if random == nil {
		random = shared.NewRandom()
	}
	p := &RoutinePolicy{
		random:          random,
		weights:         DefaultWeights(),
		breakDuration:   breakDuration,
		meetingDuration: meetingDuration,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NextIntent implements common.IntentSource
func (p *RoutinePolicy) NextIntent(_ context.Context, agent workforce.Snapshot, now time.Time) (workforce.Intent, bool) {
	inState := now.Sub(agent.StateChangedAt)

	switch agent.State {
	case workforce.StateBreak:
		if inState >= p.breakDuration {
			return workforce.Intent{Activity: workforce.ActivityWorking}, true
		}
		return workforce.Intent{}, false
	case workforce.StateMeeting:
		if inState >= p.meetingDuration {
			return workforce.Intent{Activity: workforce.ActivityWorking}, true
		}
		return workforce.Intent{}, false
	case workforce.StateIdle:
		return workforce.Intent{Activity: workforce.ActivityWorking}, true
	case workforce.StateWorking:
		return p.roll(agent, now)
	}
	// Walking, waiting, training and offsite agents are driven by upkeep jobs
	return workforce.Intent{}, false
}

func (p *RoutinePolicy) roll(agent workforce.Snapshot, now time.Time) (workforce.Intent, bool) {
	r := p.random.Float64()

	if r < p.weights.Break {
		return workforce.Intent{Activity: workforce.ActivityBreak}, true
	}
	r -= p.weights.Break

	if r < p.weights.Meeting {
		hint := meetingHints[p.random.Intn(len(meetingHints))]
		return workforce.Intent{Activity: workforce.ActivityMeeting, Hint: hint}, true
	}
	r -= p.weights.Meeting

	if r < p.weights.Training && p.eligibleForTraining(agent, now) {
		return workforce.Intent{Activity: workforce.ActivityTraining}, true
	}
	return workforce.Intent{}, false
}

func (p *RoutinePolicy) eligibleForTraining(agent workforce.Snapshot, now time.Time) bool {
	if workforce.IsRoleRestricted(agent.Role) {
		return false
	}
	if p.trainingEligibility <= 0 {
		return true
	}
	return now.Sub(agent.HiredAt) <= p.trainingEligibility
}
