// Package client is the typed Go client of goal-service.
package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/gomicro/client"
	"github.com/suteetoe/homeorganizer/services/goal-service/pkg/api"
	"go.uber.org/zap"
)

type Client struct {
	Goals      *client.Resource[api.GoalDto]
	Milestones *client.Resource[api.MilestoneDto]
	Progress   *client.Resource[api.ProgressDto]

	conn *client.Client
}

func New(baseURL, token string, logger *zap.Logger) *Client {
	c := client.New(baseURL, logger).WithToken(token)
	return &Client{
		Goals:      client.NewResource[api.GoalDto](c, "/api/goals"),
		Milestones: client.NewResource[api.MilestoneDto](c, "/api/milestones"),
		Progress:   client.NewResource[api.ProgressDto](c, "/api/progress"),
		conn:       c,
	}
}

// GoalDetail fetches a goal with its milestones and progress entries
func (c *Client) GoalDetail(ctx context.Context, id uuid.UUID) (api.GoalDetailDto, error) {
	var out api.GoalDetailDto
	err := c.conn.Do(ctx, http.MethodGet, "/api/goals/"+url.PathEscape(id.String()), nil, &out)
	return out, err
}

// CompleteGoal marks the goal completed and refreshes the cached goal list
func (c *Client) CompleteGoal(ctx context.Context, id uuid.UUID) (api.GoalDto, error) {
	return c.Goals.Action(ctx, id.String(), "complete")
}

func (c *Client) StartGoal(ctx context.Context, id uuid.UUID) (api.GoalDto, error) {
	return c.Goals.Action(ctx, id.String(), "start")
}

func (c *Client) CompleteMilestone(ctx context.Context, id uuid.UUID) (api.MilestoneDto, error) {
	return c.Milestones.Action(ctx, id.String(), "complete")
}

// MilestonesFor lists and caches the milestones of one goal
func (c *Client) MilestonesFor(ctx context.Context, goalID uuid.UUID) ([]api.MilestoneDto, error) {
	return c.Milestones.List(ctx, url.Values{"goal_id": {goalID.String()}})
}

// ProgressFor lists and caches the progress entries of one goal
func (c *Client) ProgressFor(ctx context.Context, goalID uuid.UUID) ([]api.ProgressDto, error) {
	return c.Progress.List(ctx, url.Values{"goal_id": {goalID.String()}})
}
