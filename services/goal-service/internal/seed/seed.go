// Package seed inserts sample goals for demos and local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/goal-service/pkg/api"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SampleUserID owns every seeded row
var SampleUserID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

// Run seeds the database unless it already holds goals. Dates are relative to now.
func Run(ctx context.Context, db *gorm.DB, log *zap.Logger, now time.Time) error {
	db = db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.Goal{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count goals: %w", err)
	}
	if count > 0 {
		log.Info("Database already contains data. Skipping seed.")
		return nil
	}

	log.Info("Seeding initial data...")
	if err := db.Transaction(func(tx *gorm.DB) error {
		return insert(tx, now.UTC())
	}); err != nil {
		log.Error("An error occurred while seeding the database", zap.Error(err))
		return err
	}
	log.Info("Initial data seeded successfully")
	return nil
}

func insert(tx *gorm.DB, now time.Time) error {
	goals := []*model.Goal{
		{
			ID:          uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
			Title:       "Plan a Weekend Getaway",
			Description: "Research and plan a romantic weekend trip to the mountains",
			Category:    string(api.GoalCategoryAdventureAndTravel),
			Status:      string(api.GoalStatusInProgress),
			TargetDate:  at(now.AddDate(0, 2, 0)),
			Priority:    4,
		},
		{
			ID:          uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"),
			Title:       "Save for Home Down Payment",
			Description: "Save $50,000 for a down payment on our first home",
			Category:    string(api.GoalCategoryFinancial),
			Status:      string(api.GoalStatusInProgress),
			TargetDate:  at(now.AddDate(2, 0, 0)),
			Priority:    5,
		},
		{
			ID:          uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc"),
			Title:       "Weekly Date Night",
			Description: "Dedicate every Friday evening as our date night",
			Category:    string(api.GoalCategoryQualityTime),
			Status:      string(api.GoalStatusInProgress),
			Priority:    5,
		},
		{
			ID:          uuid.MustParse("dddddddd-dddd-dddd-dddd-dddddddddddd"),
			Title:       "Learn Couples Dance",
			Description: "Take salsa dancing classes together",
			Category:    string(api.GoalCategoryPersonalGrowth),
			Status:      string(api.GoalStatusNotStarted),
			TargetDate:  at(now.AddDate(0, 6, 0)),
			Priority:    3,
		},
		{
			ID:          uuid.MustParse("eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee"),
			Title:       "Practice Active Listening",
			Description: "Improve our communication by practicing active listening techniques",
			Category:    string(api.GoalCategoryCommunication),
			Status:      string(api.GoalStatusInProgress),
			Priority:    5,
		},
	}
	for _, g := range goals {
		g.UserID = SampleUserID
		g.IsShared = true
	}
	if err := tx.Omit(clause.Associations).Create(goals).Error; err != nil {
		return err
	}

	getaway := goals[0].ID
	milestones := []*model.Milestone{
		{
			ID:            uuid.MustParse("11111111-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
			GoalID:        getaway,
			Title:         "Research destinations",
			Description:   "Look up mountain resorts within 3 hours drive",
			TargetDate:    at(now.AddDate(0, 0, 14)),
			IsCompleted:   true,
			CompletedDate: at(now.AddDate(0, 0, -5)),
			SortOrder:     1,
		},
		{
			ID:          uuid.MustParse("22222222-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
			GoalID:      getaway,
			Title:       "Book accommodation",
			Description: "Reserve cabin or hotel room",
			TargetDate:  at(now.AddDate(0, 0, 28)),
			SortOrder:   2,
		},
		{
			ID:          uuid.MustParse("33333333-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
			GoalID:      getaway,
			Title:       "Plan activities",
			Description: "Create itinerary for hiking, dining, and relaxation",
			TargetDate:  at(now.AddDate(0, 0, 42)),
			SortOrder:   3,
		},
	}
	for _, m := range milestones {
		m.UserID = SampleUserID
	}
	if err := tx.Create(milestones).Error; err != nil {
		return err
	}

	savings := goals[1].ID
	progress := []*model.Progress{
		{
			ID:                   uuid.MustParse("44444444-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
			ProgressDate:         now.AddDate(0, -3, 0),
			Notes:                "Started savings account with initial deposit",
			CompletionPercentage: 5,
			IsSignificant:        true,
		},
		{
			ID:                   uuid.MustParse("55555555-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
			ProgressDate:         now.AddDate(0, -1, 0),
			Notes:                "Added tax refund to savings",
			CompletionPercentage: 12,
			IsSignificant:        true,
		},
		{
			ID:                   uuid.MustParse("66666666-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
			ProgressDate:         now,
			Notes:                "Monthly savings contribution",
			CompletionPercentage: 15,
		},
	}
	for _, p := range progress {
		p.GoalID = savings
		p.UserID = SampleUserID
	}
	return tx.Create(progress).Error
}

func at(t time.Time) *time.Time {
	return &t
}
