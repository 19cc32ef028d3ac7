package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-services/internal/domain"
	"github.com/spec-kit/wellness-services/internal/events"
	"github.com/spec-kit/wellness-services/internal/repository"
	apperrors "github.com/spec-kit/wellness-services/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

// ActivityService coordinates activity workflows for verified callers.
type ActivityService struct {
	users      repository.UserRepository
	activities repository.ActivityRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ActivityDependencies bundles collaborators for the activity service.
type ActivityDependencies struct {
	UserRepo     repository.UserRepository
	ActivityRepo repository.ActivityRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// ActivityInput describes an activity record. The owner is never part of it.
type ActivityInput struct {
	Date           time.Time
	Steps          *int
	CaloriesBurned *float64
	DistanceKm     *float64
	ActiveMinutes  *int
	WorkoutType    *string
}

// NewActivityService constructs the service.
func NewActivityService(deps ActivityDependencies) *ActivityService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{
		users:      deps.UserRepo,
		activities: deps.ActivityRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// LogActivity stores a record owned by the caller's resolved user id.
func (s *ActivityService) LogActivity(ctx context.Context, caller *domain.AuthorizationContext, input ActivityInput) (*domain.Activity, error) {
	ownerID, err := s.resolveOwner(ctx, caller)
	if err != nil {
		return nil, err
	}

	activity := &domain.Activity{
		UserID:         ownerID,
		Date:           input.Date,
		Steps:          input.Steps,
		CaloriesBurned: input.CaloriesBurned,
		DistanceKm:     input.DistanceKm,
		ActiveMinutes:  input.ActiveMinutes,
		WorkoutType:    input.WorkoutType,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.logger.Warn("activity insert violated a unique constraint", zap.Int64("user_id", ownerID), zap.Error(err))
			return nil, apperrors.NewConflict("data consistency error occurred", nil)
		}
		s.logger.Error("activity insert failed", zap.Int64("user_id", ownerID), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		event := events.NewEvent(events.EventActivityLogged, ownerID, events.ActivityLoggedPayload{
			ActivityID:  activity.ID,
			Date:        activity.Date.Format(dateLayout),
			Steps:       activity.Steps,
			WorkoutType: activity.WorkoutType,
		})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}

	s.logger.Info("activity logged", zap.Int64("activity_id", activity.ID), zap.Int64("user_id", ownerID))
	return activity, nil
}

// GetActivity returns a record only if the caller owns it. A missing record
// and a record owned by someone else are both forbidden.
func (s *ActivityService) GetActivity(ctx context.Context, caller *domain.AuthorizationContext, id int64) (*domain.Activity, error) {
	ownerID, err := s.resolveOwner(ctx, caller)
	if err != nil {
		return nil, err
	}

	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("activity id is invalid", zap.Int64("activity_id", id))
			return nil, apperrors.NewForbidden("invalid activity")
		}
		return nil, apperrors.NewInternalError(err)
	}

	if !activity.OwnedBy(ownerID) {
		s.logger.Warn("unauthorized activity access",
			zap.String("subject", caller.Subject),
			zap.Int64("activity_id", id))
		return nil, apperrors.NewForbidden("access denied")
	}
	return activity, nil
}

// Summary aggregates the caller's records.
func (s *ActivityService) Summary(ctx context.Context, caller *domain.AuthorizationContext) (*domain.ActivitySummary, error) {
	ownerID, err := s.resolveOwner(ctx, caller)
	if err != nil {
		return nil, err
	}
	summary, err := s.activities.SummaryByUser(ctx, ownerID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return summary, nil
}

// AdminGetActivity returns any record; role gating happens at the route.
func (s *ActivityService) AdminGetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("activity", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return activity, nil
}

// AdminListActivities returns every record.
func (s *ActivityService) AdminListActivities(ctx context.Context) ([]domain.Activity, error) {
	activities, err := s.activities.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return activities, nil
}

func (s *ActivityService) resolveOwner(ctx context.Context, caller *domain.AuthorizationContext) (int64, error) {
	if caller == nil || caller.Subject == "" {
		return 0, apperrors.NewUnauthorized("authentication required")
	}
	id, err := s.users.IDByEmail(ctx, caller.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("token subject not found", zap.String("subject", caller.Subject))
			return 0, apperrors.NewNotFound("user", nil)
		}
		s.logger.Error("subject lookup failed", zap.String("subject", caller.Subject), zap.Error(err))
		return 0, apperrors.NewInternalError(err)
	}
	return id, nil
}
