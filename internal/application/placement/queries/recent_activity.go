package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/pkg/utils"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

// RecentActivityQuery reads the newest activity log entries. ForAgent 0
// reads across all agents.
type RecentActivityQuery struct {
	ForAgent int
	Limit    int
}

// RecentActivityResponse lists entries newest first
type RecentActivityResponse struct {
	Entries []common.ActivityEntry
}

// RecentActivityHandler handles RecentActivityQuery
type RecentActivityHandler struct {
	store common.ActivityLogStore
}

// NewRecentActivityHandler creates a new recent activity handler
func NewRecentActivityHandler(store common.ActivityLogStore) *RecentActivityHandler {
	return &RecentActivityHandler{store: store}
}

// Handle executes the recent activity query
func (h *RecentActivityHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*RecentActivityQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	limit = utils.Clamp(limit, 1, maxActivityLimit)
	entries, err := h.store.Recent(ctx, query.ForAgent, limit)
	if err != nil {
		return nil, err
	}
	return &RecentActivityResponse{Entries: entries}, nil
}
