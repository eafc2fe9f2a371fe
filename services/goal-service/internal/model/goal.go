package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/services/goal-service/pkg/api"
)

// Goal is the aggregate root of milestones and progress entries
type Goal struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`
	Title         string    `gorm:"type:varchar(200);not null"`
	Description   string    `gorm:"type:varchar(2000)"`
	Category      string    `gorm:"type:varchar(50);not null"`
	Status        string    `gorm:"type:varchar(50);not null;index"`
	TargetDate    *time.Time
	CompletedDate *time.Time
	Priority      int  `gorm:"not null"`
	IsShared      bool `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Milestones []Milestone `gorm:"constraint:OnDelete:CASCADE"`
	Progresses []Progress  `gorm:"constraint:OnDelete:CASCADE"`
}

// Milestone is removed together with its goal
type Milestone struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	GoalID        uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`
	Title         string    `gorm:"type:varchar(200);not null"`
	Description   string    `gorm:"type:varchar(2000)"`
	TargetDate    *time.Time
	IsCompleted   bool `gorm:"not null"`
	CompletedDate *time.Time
	SortOrder     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Progress is removed together with its goal
type Progress struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	GoalID               uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID               uuid.UUID `gorm:"type:uuid;index;not null"`
	ProgressDate         time.Time `gorm:"not null"`
	Notes                string    `gorm:"type:varchar(2000)"`
	CompletionPercentage int
	IsSignificant        bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func Models() []interface{} {
	return []interface{}{&Goal{}, &Milestone{}, &Progress{}}
}

// MarkAsCompleted moves the goal to Completed and stamps the completion date
func (g *Goal) MarkAsCompleted(now time.Time) {
	g.Status = string(api.GoalStatusCompleted)
	g.CompletedDate = &now
}

// MarkAsInProgress moves the goal to InProgress
func (g *Goal) MarkAsInProgress() {
	g.Status = string(api.GoalStatusInProgress)
}

// CompletionPercentage is the share of completed milestones, 0 without milestones
func (g *Goal) CompletionPercentage() float64 {
	if len(g.Milestones) == 0 {
		return 0
	}
	done := 0
	for _, m := range g.Milestones {
		if m.IsCompleted {
			done++
		}
	}
	return float64(done) / float64(len(g.Milestones)) * 100
}

// MarkAsCompleted flags the milestone done; an already completed milestone keeps its date
func (m *Milestone) MarkAsCompleted(now time.Time) {
	if m.IsCompleted && m.CompletedDate != nil {
		return
	}
	m.IsCompleted = true
	m.CompletedDate = &now
}

// ToDto expects Milestones to be loaded for the completion figures
func (g *Goal) ToDto() api.GoalDto {
	return api.GoalDto{
		ID:                   g.ID,
		UserID:               g.UserID,
		Title:                g.Title,
		Description:          g.Description,
		Category:             api.GoalCategory(g.Category),
		Status:               api.GoalStatus(g.Status),
		TargetDate:           g.TargetDate,
		CompletedDate:        g.CompletedDate,
		Priority:             g.Priority,
		IsShared:             g.IsShared,
		MilestoneCount:       len(g.Milestones),
		CompletionPercentage: g.CompletionPercentage(),
		CreatedAt:            g.CreatedAt,
		UpdatedAt:            g.UpdatedAt,
	}
}

func (g *Goal) ToDetailDto() api.GoalDetailDto {
	out := api.GoalDetailDto{
		GoalDto:    g.ToDto(),
		Milestones: make([]api.MilestoneDto, 0, len(g.Milestones)),
		Progress:   make([]api.ProgressDto, 0, len(g.Progresses)),
	}
	for i := range g.Milestones {
		out.Milestones = append(out.Milestones, g.Milestones[i].ToDto())
	}
	for i := range g.Progresses {
		out.Progress = append(out.Progress, g.Progresses[i].ToDto())
	}
	return out
}

func (m *Milestone) ToDto() api.MilestoneDto {
	return api.MilestoneDto{
		ID:            m.ID,
		GoalID:        m.GoalID,
		UserID:        m.UserID,
		Title:         m.Title,
		Description:   m.Description,
		TargetDate:    m.TargetDate,
		IsCompleted:   m.IsCompleted,
		CompletedDate: m.CompletedDate,
		SortOrder:     m.SortOrder,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (p *Progress) ToDto() api.ProgressDto {
	return api.ProgressDto{
		ID:                   p.ID,
		GoalID:               p.GoalID,
		UserID:               p.UserID,
		ProgressDate:         p.ProgressDate,
		Notes:                p.Notes,
		CompletionPercentage: p.CompletionPercentage,
		IsSignificant:        p.IsSignificant,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
