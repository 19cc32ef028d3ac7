package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-services/internal/auth"
	"github.com/spec-kit/wellness-services/internal/config"
	"github.com/spec-kit/wellness-services/internal/domain"
	"github.com/spec-kit/wellness-services/internal/events"
	"github.com/spec-kit/wellness-services/internal/repository"
	apperrors "github.com/spec-kit/wellness-services/pkg/util/errorutil"
)

const invalidCredentialsMessage = "incorrect email or password"

// AuthService coordinates registration, login and token verification.
type AuthService struct {
	users      repository.UserRepository
	attempts   repository.LoginAttemptRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AuthConfig
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo         repository.UserRepository
	LoginAttemptRepo repository.LoginAttemptRepository
	TokenManager     *auth.TokenManager
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// RegisterInput describes a new credential.
type RegisterInput struct {
	Name     string
	Age      int
	Gender   string
	Weight   float64
	Email    string
	Password string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		attempts:   deps.LoginAttemptRepo,
		tokenMgr:   deps.TokenManager,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterUser creates a credential with the default role.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		s.logger.Warn("registration with existing email", zap.String("email", email))
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		s.logger.Error("lookup before registration failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.NewValidationError(err.Error(), map[string]any{"password": "max 72 bytes"})
		}
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Age:          input.Age,
		Gender:       strings.TrimSpace(input.Gender),
		Weight:       input.Weight,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.logger.Warn("registration lost race on unique email", zap.String("email", email))
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		s.logger.Error("create user failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Name:  user.Name,
	}))
	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Login verifies credentials and issues a signed access token. Unknown email
// and wrong password produce the same failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.IssuedToken, error) {
	email = normalizeEmail(email)

	if s.lockedOut(ctx, email) {
		s.logger.Warn("login rejected while locked out", zap.String("email", email))
		return nil, apperrors.NewTooManyRequests("too many failed login attempts")
	}

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		auth.VerifyPassword("", password)
		s.recordFailure(ctx, email)
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	case err != nil:
		s.logger.Error("login lookup failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		s.recordFailure(ctx, email)
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}

	role := user.Role
	if !role.Valid() {
		role = domain.RoleUser
	}
	issued, err := s.tokenMgr.GenerateToken(user.Email, role)
	if err != nil {
		s.logger.Error("token signing failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	s.resetFailures(ctx, email)
	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("email", email))
	return issued, nil
}

// ValidateToken verifies signature, expiry and claims, and requires the
// subject to still resolve to a credential.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthorizationContext, error) {
	authCtx, err := s.tokenMgr.Verify(ctx, token)
	if err != nil {
		s.logger.Warn("token validation failed", zap.Error(err))
		return nil, auth.ErrInvalidToken
	}

	if _, err := s.users.IDByEmail(ctx, authCtx.Subject); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("token subject does not resolve", zap.String("subject", authCtx.Subject))
			return nil, auth.ErrInvalidToken
		}
		s.logger.Error("token subject lookup failed", zap.String("subject", authCtx.Subject), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("token validated", zap.String("subject", authCtx.Subject), zap.String("role", string(authCtx.Role)))
	return authCtx, nil
}

// Verify lets the service back the bearer middleware on the user service.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.AuthorizationContext, error) {
	return s.ValidateToken(ctx, token)
}

// GetUser returns the credential summary for id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("user not found", zap.Int64("user_id", id))
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

func (s *AuthService) lockedOut(ctx context.Context, email string) bool {
	if s.attempts == nil || s.cfg.LoginMaxAttempts <= 0 {
		return false
	}
	failures, err := s.attempts.Failures(ctx, email)
	if err != nil {
		s.logger.Warn("login attempt store unavailable", zap.Error(err))
		return false
	}
	return failures >= int64(s.cfg.LoginMaxAttempts)
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	s.logger.Warn("failed login attempt", zap.String("email", email))
	if s.attempts == nil || s.cfg.LoginMaxAttempts <= 0 {
		return
	}
	if _, err := s.attempts.RecordFailure(ctx, email, s.cfg.LoginLockout()); err != nil {
		s.logger.Warn("login attempt store unavailable", zap.Error(err))
	}
}

func (s *AuthService) resetFailures(ctx context.Context, email string) {
	if s.attempts == nil {
		return
	}
	if err := s.attempts.Reset(ctx, email); err != nil {
		s.logger.Warn("login attempt store unavailable", zap.Error(err))
	}
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
