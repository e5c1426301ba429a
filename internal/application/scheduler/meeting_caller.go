package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/internal/application/placement/commands"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
	"github.com/andrescamacho/officesim-go/pkg/utils"
)

// MeetingCallerJobName names the meeting caller job
const MeetingCallerJobName = "meeting_caller"

var meetingTopics = []string{"team sync", "one-on-one", "strategy offsite prep", "sprint planning", "quarterly review"}

// MeetingCaller convenes a meeting of a few working agents through the
// mediator, the same path an external collaborator uses
type MeetingCaller struct {
	mediator mediator.Mediator
	agents   workforce.AgentRepository
	random   shared.RandomSource
	minSize  int
	maxSize  int
}

// NewMeetingCaller creates the job. Meetings have two to four attendees.
func NewMeetingCaller(m mediator.Mediator, agents workforce.AgentRepository, random shared.RandomSource) *MeetingCaller {
	if random == nil {
		random = shared.NewRandom()
	}
	return &MeetingCaller{mediator: m, agents: agents, random: random, minSize: 2, maxSize: 4}
}

func (c *MeetingCaller) Name() string { return MeetingCallerJobName }

// Run picks attendees and asks each of them to join the meeting
func (c *MeetingCaller) Run(ctx context.Context, _ *Context, _ time.Time) error {
	working, err := c.agents.ListByState(ctx, workforce.StateWorking)
	if err != nil {
		return fmt.Errorf("failed to list working agents: %w", err)
	}
	if len(working) < c.minSize {
		return nil
	}

	size := utils.Min(c.minSize+c.random.Intn(c.maxSize-c.minSize+1), len(working))
	c.random.Shuffle(len(working), func(i, j int) { working[i], working[j] = working[j], working[i] })
	topic := meetingTopics[c.random.Intn(len(meetingTopics))]

	logger := logging.FromContext(ctx)
	called := 0
	for _, agent := range working[:size] {
		resp, err := mediator.Send[*commands.MoveResponse](ctx, c.mediator, &commands.ReportActivityCommand{
			AgentID:  agent.ID(),
			Activity: string(workforce.ActivityMeeting),
			Hint:     topic,
		})
		if err != nil {
			logger.Warn("meeting invite failed", "agent_id", agent.ID(), "error", err)
			continue
		}
		called++
		logger.Debug("meeting invite", "agent_id", agent.ID(), "outcome", string(resp.Outcome), "room", resp.Room)
	}
	logger.Info("meeting called", "topic", topic, "invited", size, "accepted", called)
	return nil
}
