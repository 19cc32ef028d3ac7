package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-services/internal/domain"
	apperrors "github.com/spec-kit/wellness-services/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and stores the verified context.
type AuthMiddleware struct {
	verifier Verifier
	logger   *zap.Logger
}

// NewAuthMiddleware constructs middleware around a local or remote verifier.
func NewAuthMiddleware(verifier Verifier, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}

	authCtx, err := m.verifier.Verify(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			m.logger.Warn("token rejected", zap.String("path", c.Path()), zap.Error(err))
			return apperrors.NewUnauthorized(ErrInvalidToken.Error())
		}
		m.logger.Error("token verification failed", zap.String("path", c.Path()), zap.Error(err))
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, authCtx)
	return c.Next()
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*domain.AuthorizationContext, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.AuthorizationContext)
	return principal, ok
}
