package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/homeorganizer/services/goal-service/pkg/api"
)

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		name       string
		milestones []Milestone
		want       float64
	}{
		{"no milestones", nil, 0},
		{"all completed", []Milestone{{IsCompleted: true}, {IsCompleted: true}, {IsCompleted: true}}, 100},
		{"half", []Milestone{{IsCompleted: true}, {}, {IsCompleted: true}, {}}, 50},
		{"one of three", []Milestone{{IsCompleted: true}, {}, {}}, 100.0 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{Milestones: tt.milestones}
			assert.InDelta(t, tt.want, g.CompletionPercentage(), 0.0001)
		})
	}
}

func TestMarkAsCompleted(t *testing.T) {
	now := time.Date(2025, time.February, 14, 19, 0, 0, 0, time.UTC)
	g := Goal{Status: string(api.GoalStatusInProgress)}

	g.MarkAsCompleted(now)

	assert.Equal(t, string(api.GoalStatusCompleted), g.Status)
	require.NotNil(t, g.CompletedDate)
	assert.Equal(t, now, *g.CompletedDate)
}

func TestMarkAsInProgress(t *testing.T) {
	g := Goal{Status: string(api.GoalStatusNotStarted)}
	g.MarkAsInProgress()
	assert.Equal(t, string(api.GoalStatusInProgress), g.Status)
}

func TestMilestoneCompletionKeepsFirstDate(t *testing.T) {
	first := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	m := Milestone{}

	m.MarkAsCompleted(first)
	m.MarkAsCompleted(first.Add(48 * time.Hour))

	assert.True(t, m.IsCompleted)
	assert.Equal(t, first, *m.CompletedDate)
}

func TestGoalCompletedEventUsesCompletionDate(t *testing.T) {
	done := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	g := Goal{Title: "Weekly Date Night"}
	g.MarkAsCompleted(done)

	evt := NewGoalCompletedEvent(&g, done.Add(time.Second))
	assert.Equal(t, "GoalCompleted", evt.EventType)
	assert.Equal(t, done, evt.CompletedDate)
	assert.Equal(t, "Weekly Date Night", evt.Title)
}
