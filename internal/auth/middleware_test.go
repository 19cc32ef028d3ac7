package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wellness-services/internal/domain"
	apperrors "github.com/spec-kit/wellness-services/pkg/util/errorutil"
)

type stubVerifier struct {
	authCtx *domain.AuthorizationContext
	err     error
	calls   int
	token   string
}

func (s *stubVerifier) Verify(_ context.Context, token string) (*domain.AuthorizationContext, error) {
	s.calls++
	s.token = token
	return s.authCtx, s.err
}

func newTestApp(verifier Verifier, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	handlers := append([]fiber.Handler{NewAuthMiddleware(verifier, nil).Handle}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return errors.New("principal missing")
		}
		return c.SendString(principal.Subject)
	})
	app.Get("/protected", handlers...)
	return app
}

func doRequest(t *testing.T, app *fiber.App, header string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_Handle(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   *stubVerifier
		wantStatus int
		wantCalls  int
	}{
		{name: "missing header", verifier: &stubVerifier{}, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", verifier: &stubVerifier{}, wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", verifier: &stubVerifier{}, wantStatus: http.StatusUnauthorized},
		{
			name:       "invalid token",
			header:     "Bearer bad",
			verifier:   &stubVerifier{err: ErrInvalidToken},
			wantStatus: http.StatusUnauthorized,
			wantCalls:  1,
		},
		{
			name:       "provider unavailable",
			header:     "Bearer tok",
			verifier:   &stubVerifier{err: apperrors.NewDependencyUnavailable("identity provider", errors.New("connection refused"))},
			wantStatus: http.StatusBadGateway,
			wantCalls:  1,
		},
		{
			name:       "verified",
			header:     "bearer tok",
			verifier:   &stubVerifier{authCtx: &domain.AuthorizationContext{Subject: "a@x.com", Role: domain.RoleUser}},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, newTestApp(tt.verifier), tt.header)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, tt.verifier.calls)
		})
	}
}

func TestAuthMiddleware_WithTokenManager(t *testing.T) {
	tm := newTestManager(t, "HS256")
	issued, err := tm.GenerateToken("a@x.com", domain.RoleUser)
	require.NoError(t, err)

	resp := doRequest(t, newTestApp(tm), "Bearer "+issued.AccessToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	tm.now = func() time.Time { return time.Now().Add(time.Hour) }
	resp = doRequest(t, newTestApp(tm), "Bearer "+issued.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	admin := &stubVerifier{authCtx: &domain.AuthorizationContext{Subject: "root@x.com", Role: domain.RoleAdmin}}
	resp := doRequest(t, newTestApp(admin, RequireRole(domain.RoleAdmin)), "Bearer tok")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	user := &stubVerifier{authCtx: &domain.AuthorizationContext{Subject: "a@x.com", Role: domain.RoleUser}}
	resp = doRequest(t, newTestApp(user, RequireRole(domain.RoleAdmin)), "Bearer tok")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
