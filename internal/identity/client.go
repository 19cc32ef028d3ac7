package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-services/internal/auth"
	"github.com/spec-kit/wellness-services/internal/domain"
	apperrors "github.com/spec-kit/wellness-services/pkg/util/errorutil"
)

const (
	validatePath = "/validate_token"
	livePath     = "/health/live"
	dependency   = "identity provider"

	maxResponseBytes = 64 << 10
)

// ErrMalformedResponse is returned when the provider answers 200 with a body
// that does not carry a subject and a role.
var ErrMalformedResponse = errors.New("malformed verification response")

// Client verifies bearer tokens against the user service. Every call is a
// fresh round trip; results are never cached.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the provider at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

var _ auth.Verifier = (*Client)(nil)

// Verify implements auth.Verifier. A 401 from the provider becomes
// auth.ErrInvalidToken; transport failures, timeouts, unexpected statuses and
// malformed bodies become a dependency-unavailable error.
func (c *Client) Verify(ctx context.Context, token string) (*domain.AuthorizationContext, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+validatePath, nil)
	if err != nil {
		return nil, apperrors.NewDependencyUnavailable(dependency, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("identity provider unreachable", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, apperrors.NewDependencyUnavailable(dependency, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, auth.ErrInvalidToken
	default:
		c.logger.Error("identity provider returned unexpected status", zap.Int("status", resp.StatusCode))
		return nil, apperrors.NewDependencyUnavailable(dependency, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var authCtx domain.AuthorizationContext
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&authCtx); err != nil {
		c.logger.Error("identity provider response undecodable", zap.Error(err))
		return nil, apperrors.NewDependencyUnavailable(dependency, fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	if authCtx.Subject == "" || authCtx.Role == "" {
		c.logger.Error("identity provider response missing claims")
		return nil, apperrors.NewDependencyUnavailable(dependency, ErrMalformedResponse)
	}

	c.logger.Debug("token verified by identity provider",
		zap.String("subject", authCtx.Subject),
		zap.Duration("elapsed", time.Since(start)))
	return &authCtx, nil
}

// Ping checks the provider's liveness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+livePath, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("identity provider liveness status %d", resp.StatusCode)
	}
	return nil
}
