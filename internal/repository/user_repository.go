package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wellness-services/internal/domain"
)

// UserRepository defines persistence access for credentials.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	IDByEmail(ctx context.Context, email string) (int64, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO user_service.users (name, age, gender, weight, email, password_hash, role)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING user_id, created_at`

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			user.Name,
			user.Age,
			user.Gender,
			user.Weight,
			user.Email,
			user.PasswordHash,
			string(user.Role),
		).Scan(&user.ID, &user.CreatedAt)
	})
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT user_id, name, age, gender, weight, email, password_hash, role, created_at
        FROM user_service.users WHERE user_id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT user_id, name, age, gender, weight, email, password_hash, role, created_at
        FROM user_service.users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

// IDByEmail resolves a verified token subject to its owning user_id.
func (r *userRepository) IDByEmail(ctx context.Context, email string) (int64, error) {
	const query = `SELECT user_id FROM user_service.users WHERE email=$1`

	var id int64
	if err := r.db.QueryRow(ctx, query, email).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Age,
		&user.Gender,
		&user.Weight,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	return &user, nil
}
