package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"github.com/suteetoe/homeorganizer/gomicro/apperr"
	"github.com/suteetoe/homeorganizer/gomicro/database/dbtest"
	"github.com/suteetoe/homeorganizer/gomicro/events"
	"github.com/suteetoe/homeorganizer/gomicro/metrics"
	"github.com/suteetoe/homeorganizer/services/goal-service/internal/model"
	"github.com/suteetoe/homeorganizer/services/goal-service/pkg/api"
	"gorm.io/gorm"
)

type published struct {
	routingKey string
	body       []byte
}

type ServiceSuite struct {
	suite.Suite

	db         *gorm.DB
	svc        *Service
	ops        *metrics.OperationMetrics
	events     *metrics.EventMetrics
	publishErr error
	clock      time.Time

	mu        sync.Mutex
	published []published

	owner uuid.UUID
	ctx   context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.db = dbtest.New(s.T(), model.Models()...)
	reg := prometheus.NewRegistry()
	s.ops = metrics.NewOperationMetrics("goal_service", reg)
	s.events = metrics.NewEventMetrics("goal-service", reg)
	s.publishErr = nil
	s.published = nil

	pub := events.PublisherFunc(func(_ context.Context, _, routingKey string, body []byte) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.published = append(s.published, published{routingKey: routingKey, body: body})
		return s.publishErr
	})
	emitter := events.NewEmitter(pub, events.EmitterConfig{
		Exchange: "goal-events",
		Timeout:  time.Second,
		Enabled:  true,
		Metrics:  s.events,
	})

	s.svc = New(s.db, emitter, s.ops)
	s.clock = time.Date(2025, time.February, 14, 18, 30, 0, 0, time.UTC)
	s.svc.now = func() time.Time { return s.clock }
	s.owner = uuid.New()
	s.ctx = context.Background()
}

func (s *ServiceSuite) createGoal(title string) api.GoalDto {
	g, err := s.svc.CreateGoal(s.ctx, CreateGoalCommand{
		UserID:      s.owner,
		GoalRequest: api.GoalRequest{Title: title, Category: api.GoalCategoryQualityTime},
	})
	s.Require().NoError(err)
	return g
}

func (s *ServiceSuite) addMilestone(goalID uuid.UUID, title string, order int) api.MilestoneDto {
	m, err := s.svc.CreateMilestone(s.ctx, CreateMilestoneCommand{
		UserID:           s.owner,
		MilestoneRequest: api.MilestoneRequest{GoalID: goalID, Title: title, SortOrder: order},
	})
	s.Require().NoError(err)
	return m
}

func (s *ServiceSuite) count(m interface{}) int64 {
	var n int64
	s.Require().NoError(s.db.Model(m).Count(&n).Error)
	return n
}

func (s *ServiceSuite) TestCreateGoalAppliesDefaults() {
	g, err := s.svc.CreateGoal(s.ctx, CreateGoalCommand{
		UserID:      s.owner,
		GoalRequest: api.GoalRequest{Title: "Weekly Date Night"},
	})
	s.Require().NoError(err)

	s.NotEqual(uuid.Nil, g.ID)
	s.Equal(s.owner, g.UserID)
	s.Equal(api.GoalCategoryOther, g.Category)
	s.Equal(api.GoalStatusNotStarted, g.Status)
	s.Equal(api.DefaultPriority, g.Priority)
	s.True(g.IsShared)
	s.Zero(g.CompletionPercentage)
	s.Nil(g.CompletedDate)
	s.Equal(1.0, s.ops.Count("goal", "create"))
}

func (s *ServiceSuite) TestCreateGoalPublishesEvent() {
	private := false
	g, err := s.svc.CreateGoal(s.ctx, CreateGoalCommand{
		UserID: s.owner,
		GoalRequest: api.GoalRequest{
			Title:    "Save for Home Down Payment",
			Category: api.GoalCategoryFinancial,
			IsShared: &private,
		},
	})
	s.Require().NoError(err)

	s.Require().Len(s.published, 1)
	s.Equal(model.RoutingGoalCreated, s.published[0].routingKey)

	var evt model.GoalCreatedEvent
	s.Require().NoError(json.Unmarshal(s.published[0].body, &evt))
	s.Equal("GoalCreated", evt.EventType)
	s.Equal(g.ID, evt.GoalID)
	s.Equal(s.owner, evt.UserID)
	s.Equal("Financial", evt.Category)
	s.False(evt.IsShared)
	s.True(s.clock.Equal(evt.Timestamp))
}

func (s *ServiceSuite) TestCreateGoalSurvivesPublishFailure() {
	s.publishErr = errors.New("broker unreachable")

	g := s.createGoal("Learn Couples Dance")

	got, err := s.svc.GetGoal(s.ctx, Ref{UserID: s.owner, ID: g.ID})
	s.Require().NoError(err)
	s.Equal(g.Title, got.Title)
	s.Equal(1.0, s.events.Count("goal-events", model.RoutingGoalCreated, metrics.OutcomeFailed))
}

func (s *ServiceSuite) TestCompletionPercentageFollowsMilestones() {
	g := s.createGoal("Plan a Weekend Getaway")
	first := s.addMilestone(g.ID, "Research destinations", 1)
	s.addMilestone(g.ID, "Book accommodation", 2)
	s.addMilestone(g.ID, "Plan activities", 3)
	s.addMilestone(g.ID, "Pack", 4)

	done, err := s.svc.CompleteMilestone(s.ctx, Ref{UserID: s.owner, ID: first.ID})
	s.Require().NoError(err)
	s.True(done.IsCompleted)
	s.Require().NotNil(done.CompletedDate)
	s.True(s.clock.Equal(*done.CompletedDate))

	got, err := s.svc.GetGoal(s.ctx, Ref{UserID: s.owner, ID: g.ID})
	s.Require().NoError(err)
	s.Equal(4, got.MilestoneCount)
	s.InDelta(25.0, got.CompletionPercentage, 0.001)
	s.Require().Len(got.Milestones, 4)
	s.Equal("Research destinations", got.Milestones[0].Title)
	s.Equal("Pack", got.Milestones[3].Title)

	list, err := s.svc.ListGoals(s.ctx, ListGoalsQuery{UserID: s.owner})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.InDelta(25.0, list[0].CompletionPercentage, 0.001)
}

func (s *ServiceSuite) TestCompleteGoalStampsDateAndPublishes() {
	g := s.createGoal("Practice Active Listening")
	s.published = nil

	done, err := s.svc.CompleteGoal(s.ctx, Ref{UserID: s.owner, ID: g.ID})
	s.Require().NoError(err)
	s.Equal(api.GoalStatusCompleted, done.Status)
	s.Require().NotNil(done.CompletedDate)
	s.True(s.clock.Equal(*done.CompletedDate))

	s.Require().Len(s.published, 1)
	s.Equal(model.RoutingGoalCompleted, s.published[0].routingKey)
	var evt model.GoalCompletedEvent
	s.Require().NoError(json.Unmarshal(s.published[0].body, &evt))
	s.Equal(g.ID, evt.GoalID)
	s.True(s.clock.Equal(evt.CompletedDate))
}

func (s *ServiceSuite) TestStartGoalClearsCompletion() {
	g := s.createGoal("Weekly Date Night")
	_, err := s.svc.CompleteGoal(s.ctx, Ref{UserID: s.owner, ID: g.ID})
	s.Require().NoError(err)

	started, err := s.svc.StartGoal(s.ctx, Ref{UserID: s.owner, ID: g.ID})
	s.Require().NoError(err)
	s.Equal(api.GoalStatusInProgress, started.Status)
	s.Nil(started.CompletedDate)
}

func (s *ServiceSuite) TestStateFlipsOnMissingGoalAreNotFound() {
	missing := Ref{UserID: s.owner, ID: uuid.New()}

	_, err := s.svc.CompleteGoal(s.ctx, missing)
	s.ErrorIs(err, apperr.ErrNotFound)
	_, err = s.svc.StartGoal(s.ctx, missing)
	s.ErrorIs(err, apperr.ErrNotFound)
	_, err = s.svc.CompleteMilestone(s.ctx, missing)
	s.ErrorIs(err, apperr.ErrNotFound)
	s.Empty(s.published)
}

func (s *ServiceSuite) TestDeleteGoalCascades() {
	g := s.createGoal("Plan a Weekend Getaway")
	s.addMilestone(g.ID, "Research destinations", 1)
	_, err := s.svc.RecordProgress(s.ctx, RecordProgressCommand{
		UserID:          s.owner,
		ProgressRequest: api.ProgressRequest{GoalID: g.ID, Notes: "Shortlisted three cabins", CompletionPercentage: 20},
	})
	s.Require().NoError(err)

	other := s.createGoal("Weekly Date Night")
	s.addMilestone(other.ID, "Pick a restaurant", 1)

	s.Require().NoError(s.svc.DeleteGoal(s.ctx, Ref{UserID: s.owner, ID: g.ID}))

	s.Equal(int64(1), s.count(&model.Goal{}))
	s.Equal(int64(1), s.count(&model.Milestone{}))
	s.Equal(int64(0), s.count(&model.Progress{}))

	_, err = s.svc.GetGoal(s.ctx, Ref{UserID: s.owner, ID: g.ID})
	s.ErrorIs(err, apperr.ErrNotFound)
}

func (s *ServiceSuite) TestChildOfUnknownGoalIsNotFound() {
	_, err := s.svc.CreateMilestone(s.ctx, CreateMilestoneCommand{
		UserID:           s.owner,
		MilestoneRequest: api.MilestoneRequest{GoalID: uuid.New(), Title: "Orphan"},
	})
	s.ErrorIs(err, apperr.ErrNotFound)

	_, err = s.svc.RecordProgress(s.ctx, RecordProgressCommand{
		UserID:          s.owner,
		ProgressRequest: api.ProgressRequest{GoalID: uuid.New()},
	})
	s.ErrorIs(err, apperr.ErrNotFound)

	s.Equal(int64(0), s.count(&model.Milestone{}))
	s.Equal(int64(0), s.count(&model.Progress{}))
}

func (s *ServiceSuite) TestRecordProgressDefaultsDateToNow() {
	g := s.createGoal("Save for Home Down Payment")

	p, err := s.svc.RecordProgress(s.ctx, RecordProgressCommand{
		UserID:          s.owner,
		ProgressRequest: api.ProgressRequest{GoalID: g.ID, Notes: "Monthly savings contribution", CompletionPercentage: 15},
	})
	s.Require().NoError(err)
	s.True(s.clock.Equal(p.ProgressDate))
	s.Equal(15, p.CompletionPercentage)

	earlier := s.clock.AddDate(0, -1, 0)
	_, err = s.svc.RecordProgress(s.ctx, RecordProgressCommand{
		UserID:          s.owner,
		ProgressRequest: api.ProgressRequest{GoalID: g.ID, ProgressDate: &earlier, Notes: "Added tax refund to savings"},
	})
	s.Require().NoError(err)

	list, err := s.svc.ListProgress(s.ctx, ListProgressQuery{UserID: s.owner, GoalID: &g.ID})
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("Monthly savings contribution", list[0].Notes)
}

func (s *ServiceSuite) TestUpdateMissingIsNotFoundWithoutMutation() {
	g := s.createGoal("Weekly Date Night")

	_, err := s.svc.UpdateGoal(s.ctx, UpdateGoalCommand{
		Ref:         Ref{UserID: s.owner, ID: uuid.New()},
		GoalRequest: api.GoalRequest{Title: "Y"},
	})
	s.ErrorIs(err, apperr.ErrNotFound)

	_, err = s.svc.UpdateMilestone(s.ctx, UpdateMilestoneCommand{
		Ref:              Ref{UserID: s.owner, ID: uuid.New()},
		MilestoneRequest: api.MilestoneRequest{GoalID: g.ID, Title: "Y"},
	})
	s.ErrorIs(err, apperr.ErrNotFound)

	got, err := s.svc.GetGoal(s.ctx, Ref{UserID: s.owner, ID: g.ID})
	s.Require().NoError(err)
	s.Equal("Weekly Date Night", got.Title)
	s.Equal(int64(0), s.count(&model.Milestone{}))
}

func (s *ServiceSuite) TestUpdateGoalReplacesFields() {
	g := s.createGoal("Weekly Date Night")
	target := s.clock.AddDate(0, 6, 0)

	updated, err := s.svc.UpdateGoal(s.ctx, UpdateGoalCommand{
		Ref: Ref{UserID: s.owner, ID: g.ID},
		GoalRequest: api.GoalRequest{
			Title:      "Biweekly Date Night",
			Category:   api.GoalCategoryQualityTime,
			Status:     api.GoalStatusCompleted,
			TargetDate: &target,
			Priority:   5,
		},
	})
	s.Require().NoError(err)
	s.Equal("Biweekly Date Night", updated.Title)
	s.Equal(5, updated.Priority)
	s.Equal(api.GoalStatusCompleted, updated.Status)
	s.Require().NotNil(updated.CompletedDate)

	updated, err = s.svc.UpdateGoal(s.ctx, UpdateGoalCommand{
		Ref:         Ref{UserID: s.owner, ID: g.ID},
		GoalRequest: api.GoalRequest{Title: "Biweekly Date Night", Status: api.GoalStatusOnHold},
	})
	s.Require().NoError(err)
	s.Equal(api.GoalStatusOnHold, updated.Status)
	s.Nil(updated.CompletedDate)
}

func (s *ServiceSuite) TestDeleteMissingIsNotFound() {
	missing := Ref{UserID: s.owner, ID: uuid.New()}

	s.ErrorIs(s.svc.DeleteGoal(s.ctx, missing), apperr.ErrNotFound)
	s.ErrorIs(s.svc.DeleteMilestone(s.ctx, missing), apperr.ErrNotFound)
	s.ErrorIs(s.svc.DeleteProgress(s.ctx, missing), apperr.ErrNotFound)
}

func (s *ServiceSuite) TestOtherOwnersSeeNotFound() {
	g := s.createGoal("Learn Couples Dance")
	m := s.addMilestone(g.ID, "Book first class", 1)
	stranger := uuid.New()

	_, err := s.svc.GetGoal(s.ctx, Ref{UserID: stranger, ID: g.ID})
	s.ErrorIs(err, apperr.ErrNotFound)
	_, err = s.svc.GetMilestone(s.ctx, Ref{UserID: stranger, ID: m.ID})
	s.ErrorIs(err, apperr.ErrNotFound)
	_, err = s.svc.CreateMilestone(s.ctx, CreateMilestoneCommand{
		UserID:           stranger,
		MilestoneRequest: api.MilestoneRequest{GoalID: g.ID, Title: "Sneaky"},
	})
	s.ErrorIs(err, apperr.ErrNotFound)
	s.ErrorIs(s.svc.DeleteGoal(s.ctx, Ref{UserID: stranger, ID: g.ID}), apperr.ErrNotFound)

	list, err := s.svc.ListGoals(s.ctx, ListGoalsQuery{UserID: stranger})
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ServiceSuite) TestListGoalsFilters() {
	s.createGoal("Weekly Date Night")
	private := false
	_, err := s.svc.CreateGoal(s.ctx, CreateGoalCommand{
		UserID: s.owner,
		GoalRequest: api.GoalRequest{
			Title:    "Run a half marathon",
			Category: api.GoalCategoryHealthAndFitness,
			Status:   api.GoalStatusInProgress,
			Priority: 5,
			IsShared: &private,
		},
	})
	s.Require().NoError(err)

	all, err := s.svc.ListGoals(s.ctx, ListGoalsQuery{UserID: s.owner})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("Run a half marathon", all[0].Title)

	status := api.GoalStatusInProgress
	byStatus, err := s.svc.ListGoals(s.ctx, ListGoalsQuery{UserID: s.owner, Status: &status})
	s.Require().NoError(err)
	s.Len(byStatus, 1)

	category := api.GoalCategoryQualityTime
	byCategory, err := s.svc.ListGoals(s.ctx, ListGoalsQuery{UserID: s.owner, Category: &category})
	s.Require().NoError(err)
	s.Require().Len(byCategory, 1)
	s.Equal("Weekly Date Night", byCategory[0].Title)

	shared := true
	byShared, err := s.svc.ListGoals(s.ctx, ListGoalsQuery{UserID: s.owner, IsShared: &shared})
	s.Require().NoError(err)
	s.Len(byShared, 1)
}
