// Package testutil holds in-memory repositories for service and HTTP tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wellness-services/internal/domain"
	"github.com/spec-kit/wellness-services/internal/repository"
)

// UserRepo is an in-memory repository.UserRepository with a unique email index.
type UserRepo struct {
	mu        sync.Mutex
	byEmail   map[string]*domain.User
	nextID    int64
	CreateErr error
}

var _ repository.UserRepository = (*UserRepo)(nil)

func NewUserRepo() *UserRepo {
	return &UserRepo{byEmail: map[string]*domain.User{}}
}

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return repository.ErrDuplicate
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) IDByEmail(ctx context.Context, email string) (int64, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

// SetRole changes a stored credential's role.
func (r *UserRepo) SetRole(email string, role domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[email]; ok {
		u.Role = role
	}
}

// Count returns the number of stored credentials.
func (r *UserRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEmail)
}

// ActivityRepo is an in-memory repository.ActivityRepository.
type ActivityRepo struct {
	mu        sync.Mutex
	byID      map[int64]domain.Activity
	nextID    int64
	CreateErr error
}

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

func NewActivityRepo() *ActivityRepo {
	return &ActivityRepo{byID: map[int64]domain.Activity{}}
}

func (r *ActivityRepo) Create(_ context.Context, activity *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.nextID++
	activity.ID = r.nextID
	r.byID[activity.ID] = *activity
	return nil
}

func (r *ActivityRepo) GetByID(_ context.Context, id int64) (*domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (r *ActivityRepo) List(_ context.Context) ([]domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Activity, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ActivityRepo) SummaryByUser(_ context.Context, userID int64) (*domain.ActivitySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := &domain.ActivitySummary{UserID: userID}
	for _, a := range r.byID {
		if a.UserID != userID {
			continue
		}
		if a.Steps != nil {
			summary.TotalSteps += int64(*a.Steps)
		}
		if a.CaloriesBurned != nil {
			summary.TotalCalories += *a.CaloriesBurned
		}
		if a.DistanceKm != nil {
			summary.TotalDistance += *a.DistanceKm
		}
		if a.ActiveMinutes != nil {
			summary.TotalActiveMinutes += int64(*a.ActiveMinutes)
		}
	}
	return summary, nil
}

// Len returns the number of stored records.
func (r *ActivityRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Get returns a stored record without going through the interface.
func (r *ActivityRepo) Get(id int64) (domain.Activity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	return a, ok
}
