package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wellness-services/internal/auth"
	"github.com/spec-kit/wellness-services/internal/domain"
	apperrors "github.com/spec-kit/wellness-services/pkg/util/errorutil"
)

func assertUnavailable(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidToken)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", de.Code)
	assert.Equal(t, http.StatusBadGateway, de.HTTPStatus)
}

func TestClient_Verify(t *testing.T) {
	t.Run("valid token returns authorization context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/validate_token", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"subject": "a@x.com", "role": "admin"})
		}))
		defer server.Close()

		authCtx, err := NewClient(server.URL, time.Second, nil).Verify(context.Background(), "good-token")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", authCtx.Subject)
		assert.Equal(t, domain.RoleAdmin, authCtx.Role)
	})

	t.Run("401 maps to invalid token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"code": "UNAUTHORIZED"}})
		}))
		defer server.Close()

		authCtx, err := NewClient(server.URL, time.Second, nil).Verify(context.Background(), "bad-token")
		assert.Nil(t, authCtx)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("provider error status is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, time.Second, nil).Verify(context.Background(), "tok")
		assertUnavailable(t, err)
	})

	t.Run("malformed body is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>proxy error</html>"))
		}))
		defer server.Close()

		_, err := NewClient(server.URL, time.Second, nil).Verify(context.Background(), "tok")
		assertUnavailable(t, err)
		assert.True(t, errors.Is(err, ErrMalformedResponse))
	})

	t.Run("missing claims is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"subject": "a@x.com"})
		}))
		defer server.Close()

		_, err := NewClient(server.URL, time.Second, nil).Verify(context.Background(), "tok")
		assertUnavailable(t, err)
	})

	t.Run("timeout is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_ = json.NewEncoder(w).Encode(map[string]string{"subject": "a@x.com", "role": "user"})
		}))
		defer server.Close()

		_, err := NewClient(server.URL, 20*time.Millisecond, nil).Verify(context.Background(), "tok")
		assertUnavailable(t, err)
	})

	t.Run("unreachable provider is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := NewClient(url, time.Second, nil).Verify(context.Background(), "tok")
		assertUnavailable(t, err)
	})

	t.Run("every call reaches the provider", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			_ = json.NewEncoder(w).Encode(map[string]string{"subject": "a@x.com", "role": "user"})
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second, nil)
		for i := 0; i < 3; i++ {
			_, err := client.Verify(context.Background(), "tok")
			require.NoError(t, err)
		}
		assert.Equal(t, 3, calls)
	})
}

func TestClient_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health/live" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	assert.NoError(t, NewClient(server.URL, time.Second, nil).Ping(context.Background()))
}
