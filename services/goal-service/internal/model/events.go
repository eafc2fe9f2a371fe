package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoutingGoalCreated   = "goal.created"
	RoutingGoalCompleted = "goal.completed"
)

type GoalCreatedEvent struct {
	EventType string    `json:"event_type"`
	GoalID    uuid.UUID `json:"goal_id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	IsShared  bool      `json:"is_shared"`
	Timestamp time.Time `json:"timestamp"`
}

type GoalCompletedEvent struct {
	EventType     string    `json:"event_type"`
	GoalID        uuid.UUID `json:"goal_id"`
	UserID        uuid.UUID `json:"user_id"`
	Title         string    `json:"title"`
	CompletedDate time.Time `json:"completed_date"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewGoalCreatedEvent(g *Goal, at time.Time) GoalCreatedEvent {
	return GoalCreatedEvent{
		EventType: "GoalCreated",
		GoalID:    g.ID,
		UserID:    g.UserID,
		Title:     g.Title,
		Category:  g.Category,
		IsShared:  g.IsShared,
		Timestamp: at.UTC(),
	}
}

func NewGoalCompletedEvent(g *Goal, at time.Time) GoalCompletedEvent {
	completed := at
	if g.CompletedDate != nil {
		completed = *g.CompletedDate
	}
	return GoalCompletedEvent{
		EventType:     "GoalCompleted",
		GoalID:        g.ID,
		UserID:        g.UserID,
		Title:         g.Title,
		CompletedDate: completed.UTC(),
		Timestamp:     at.UTC(),
	}
}
