package dto

import (
	"time"

	"github.com/spec-kit/wellness-services/internal/domain"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// CreateActivityRequest payload. There is deliberately no owner field.
type CreateActivityRequest struct {
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	Steps          *int     `json:"steps" validate:"omitempty,gte=0"`
	CaloriesBurned *float64 `json:"calories_burned" validate:"omitempty,gte=0"`
	DistanceKm     *float64 `json:"distance_km" validate:"omitempty,gte=0"`
	ActiveMinutes  *int     `json:"active_minutes" validate:"omitempty,gte=0"`
	WorkoutType    *string  `json:"workout_type" validate:"omitempty,max=50"`
}

// ParsedDate returns the request date; call after validation.
func (r CreateActivityRequest) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}

// ActivityResponse describes a stored activity record.
type ActivityResponse struct {
	ID             int64    `json:"id"`
	UserID         int64    `json:"user_id"`
	Date           string   `json:"date"`
	Steps          *int     `json:"steps"`
	CaloriesBurned *float64 `json:"calories_burned"`
	DistanceKm     *float64 `json:"distance_km"`
	ActiveMinutes  *int     `json:"active_minutes"`
	WorkoutType    *string  `json:"workout_type"`
}

// ActivitySummaryResponse aggregates a user's records.
type ActivitySummaryResponse struct {
	UserID             int64   `json:"user_id"`
	TotalSteps         int64   `json:"total_steps"`
	TotalCalories      float64 `json:"total_calories"`
	TotalDistance      float64 `json:"total_distance"`
	TotalActiveMinutes int64   `json:"total_active_minutes"`
}

// NewActivityResponse maps a domain record.
func NewActivityResponse(a *domain.Activity) ActivityResponse {
	return ActivityResponse{
		ID:             a.ID,
		UserID:         a.UserID,
		Date:           a.Date.Format(DateLayout),
		Steps:          a.Steps,
		CaloriesBurned: a.CaloriesBurned,
		DistanceKm:     a.DistanceKm,
		ActiveMinutes:  a.ActiveMinutes,
		WorkoutType:    a.WorkoutType,
	}
}

// NewActivitySummaryResponse maps a domain summary.
func NewActivitySummaryResponse(s *domain.ActivitySummary) ActivitySummaryResponse {
	return ActivitySummaryResponse{
		UserID:             s.UserID,
		TotalSteps:         s.TotalSteps,
		TotalCalories:      s.TotalCalories,
		TotalDistance:      s.TotalDistance,
		TotalActiveMinutes: s.TotalActiveMinutes,
	}
}
