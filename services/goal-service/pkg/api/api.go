// Package api holds the JSON contract of goal-service.
package api

import (
	"time"

	"github.com/google/uuid"
)

// GoalCategory groups goals by the area of the relationship they serve
type GoalCategory string

const (
	GoalCategoryCommunication      GoalCategory = "Communication"
	GoalCategoryQualityTime        GoalCategory = "QualityTime"
	GoalCategoryFinancial          GoalCategory = "Financial"
	GoalCategoryAdventureAndTravel GoalCategory = "AdventureAndTravel"
	GoalCategoryPersonalGrowth     GoalCategory = "PersonalGrowth"
	GoalCategoryHealthAndFitness   GoalCategory = "HealthAndFitness"
	GoalCategoryHome               GoalCategory = "Home"
	GoalCategoryOther              GoalCategory = "Other"
)

// GoalStatus is the lifecycle state of a goal
type GoalStatus string

const (
	GoalStatusNotStarted GoalStatus = "NotStarted"
	GoalStatusInProgress GoalStatus = "InProgress"
	GoalStatusCompleted  GoalStatus = "Completed"
	GoalStatusOnHold     GoalStatus = "OnHold"
	GoalStatusCancelled  GoalStatus = "Cancelled"
)

// DefaultPriority applies when a request leaves priority unset
const DefaultPriority = 3

// GoalDto is a goal with its completion derived from milestones
type GoalDto struct {
	ID                   uuid.UUID    `json:"id"`
	UserID               uuid.UUID    `json:"user_id"`
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	Category             GoalCategory `json:"category"`
	Status               GoalStatus   `json:"status"`
	TargetDate           *time.Time   `json:"target_date,omitempty"`
	CompletedDate        *time.Time   `json:"completed_date,omitempty"`
	Priority             int          `json:"priority"`
	IsShared             bool         `json:"is_shared"`
	MilestoneCount       int          `json:"milestone_count"`
	CompletionPercentage float64      `json:"completion_percentage"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// GoalDetailDto adds the milestones and progress entries of a goal
type GoalDetailDto struct {
	GoalDto
	Milestones []MilestoneDto `json:"milestones"`
	Progress   []ProgressDto  `json:"progress"`
}

// GoalRequest creates or replaces a goal. Zero category, status and priority
// fall back to Other, NotStarted and DefaultPriority; a nil IsShared means shared.
type GoalRequest struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description" validate:"max=2000"`
	Category    GoalCategory `json:"category" validate:"omitempty,oneof=Communication QualityTime Financial AdventureAndTravel PersonalGrowth HealthAndFitness Home Other"`
	Status      GoalStatus   `json:"status" validate:"omitempty,oneof=NotStarted InProgress Completed OnHold Cancelled"`
	TargetDate  *time.Time   `json:"target_date"`
	Priority    int          `json:"priority" validate:"omitempty,gte=1,lte=5"`
	IsShared    *bool        `json:"is_shared"`
}

// MilestoneDto is a step towards a goal
type MilestoneDto struct {
	ID            uuid.UUID  `json:"id"`
	GoalID        uuid.UUID  `json:"goal_id"`
	UserID        uuid.UUID  `json:"user_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
	IsCompleted   bool       `json:"is_completed"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	SortOrder     int        `json:"sort_order"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// MilestoneRequest creates or replaces a milestone
type MilestoneRequest struct {
	GoalID      uuid.UUID  `json:"goal_id" validate:"required"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	TargetDate  *time.Time `json:"target_date"`
	IsCompleted bool       `json:"is_completed"`
	SortOrder   int        `json:"sort_order" validate:"gte=0"`
}

// ProgressDto is a dated progress note on a goal
type ProgressDto struct {
	ID                   uuid.UUID `json:"id"`
	GoalID               uuid.UUID `json:"goal_id"`
	UserID               uuid.UUID `json:"user_id"`
	ProgressDate         time.Time `json:"progress_date"`
	Notes                string    `json:"notes"`
	CompletionPercentage int       `json:"completion_percentage"`
	IsSignificant        bool      `json:"is_significant"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ProgressRequest records or replaces a progress entry. A nil date means now.
type ProgressRequest struct {
	GoalID               uuid.UUID  `json:"goal_id" validate:"required"`
	ProgressDate         *time.Time `json:"progress_date"`
	Notes                string     `json:"notes" validate:"max=2000"`
	CompletionPercentage int        `json:"completion_percentage" validate:"gte=0,lte=100"`
	IsSignificant        bool       `json:"is_significant"`
}
