package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wellness-services/internal/domain"
)

// ActivityRepository encapsulates activity persistence.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	List(ctx context.Context) ([]domain.Activity, error)
	SummaryByUser(ctx context.Context, userID int64) (*domain.ActivitySummary, error)
}

type activityRepository struct {
	db DB
}

// NewActivityRepository instantiates repository.
func NewActivityRepository(db DB) ActivityRepository {
	return &activityRepository{db: db}
}

const activityColumns = `id, user_id, date, steps, calories_burned, distance_km, active_minutes, workout_type`

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	const query = `
        INSERT INTO activity_service.activity_data (user_id, date, steps, calories_burned, distance_km, active_minutes, workout_type)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id`
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			activity.UserID,
			activity.Date,
			activity.Steps,
			activity.CaloriesBurned,
			activity.DistanceKm,
			activity.ActiveMinutes,
			activity.WorkoutType,
		).Scan(&activity.ID)
	})
}

func (r *activityRepository) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_service.activity_data WHERE id=$1`

	var activity domain.Activity
	if err := scanActivity(r.db.QueryRow(ctx, query, id), &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepository) List(ctx context.Context) ([]domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_service.activity_data ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var activity domain.Activity
		if err := scanActivity(rows, &activity); err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

func (r *activityRepository) SummaryByUser(ctx context.Context, userID int64) (*domain.ActivitySummary, error) {
	const query = `
        SELECT COALESCE(SUM(steps), 0), COALESCE(SUM(calories_burned), 0),
               COALESCE(SUM(distance_km), 0), COALESCE(SUM(active_minutes), 0)
        FROM activity_service.activity_data WHERE user_id=$1`

	summary := domain.ActivitySummary{UserID: userID}
	if err := r.db.QueryRow(ctx, query, userID).Scan(
		&summary.TotalSteps,
		&summary.TotalCalories,
		&summary.TotalDistance,
		&summary.TotalActiveMinutes,
	); err != nil {
		return nil, err
	}
	return &summary, nil
}

func scanActivity(row pgx.Row, activity *domain.Activity) error {
	return row.Scan(
		&activity.ID,
		&activity.UserID,
		&activity.Date,
		&activity.Steps,
		&activity.CaloriesBurned,
		&activity.DistanceKm,
		&activity.ActiveMinutes,
		&activity.WorkoutType,
	)
}
