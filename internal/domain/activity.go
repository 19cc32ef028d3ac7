package domain

import "time"

// Activity is a daily activity record owned by exactly one user.
type Activity struct {
	ID             int64
	UserID         int64
	Date           time.Time
	Steps          *int
	CaloriesBurned *float64
	DistanceKm     *float64
	ActiveMinutes  *int
	WorkoutType    *string
}

// OwnedBy reports whether the record belongs to userID.
func (a *Activity) OwnedBy(userID int64) bool {
	return a != nil && a.UserID == userID
}

// ActivitySummary aggregates a user's activity records.
type ActivitySummary struct {
	UserID             int64
	TotalSteps         int64
	TotalCalories      float64
	TotalDistance      float64
	TotalActiveMinutes int64
}
