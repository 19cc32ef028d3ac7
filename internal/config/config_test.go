package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("DATABASE_URL", "postgres://app@db:5432/wellness")
	t.Setenv("AUTH_JWT_ALGORITHM", "")
	t.Setenv("USER_SERVICE_URL", "")

	cfg, err := Load("activity-service", "8003")
	require.NoError(t, err)

	assert.Equal(t, "activity-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8003", cfg.App.Addr())
	assert.Equal(t, "postgres://app@db:5432/wellness", cfg.Postgres.DSN)
	assert.Equal(t, "HS256", cfg.Auth.JWTAlgorithm)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "dev-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, "http://127.0.0.1:8002", cfg.Identity.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Identity.Timeout())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("AUTH_JWT_SECRET", "s3cr3t")
	t.Setenv("AUTH_JWT_ALGORITHM", "hs512")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("USER_SERVICE_URL", "http://users.internal:8002/")
	t.Setenv("IDENTITY_TIMEOUT_SECONDS", "2")

	cfg, err := Load("user-service", "8002")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "HS512", cfg.Auth.JWTAlgorithm)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, "http://users.internal:8002", cfg.Identity.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Identity.Timeout())
}

func TestLoad_RequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load("user-service", "8002")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")

	t.Setenv("AUTH_JWT_SECRET", "a-real-production-secret")
	cfg, err := Load("user-service", "8002")
	require.NoError(t, err)
	assert.Equal(t, "a-real-production-secret", cfg.Auth.JWTSecret)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Auth:     AuthConfig{JWTSecret: "secret", JWTAlgorithm: "HS256", AccessTokenTTLMinutes: 30},
			Identity: IdentityConfig{BaseURL: "http://127.0.0.1:8002"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty secret", mutate: func(c *Config) { c.Auth.JWTSecret = " " }, wantErr: "AUTH_JWT_SECRET"},
		{name: "dev secret in production", mutate: func(c *Config) { c.App.Env = "production"; c.Auth.JWTSecret = "dev-secret" }, wantErr: "AUTH_JWT_SECRET"},
		{name: "dev secret in development", mutate: func(c *Config) { c.App.Env = "development"; c.Auth.JWTSecret = "dev-secret" }},
		{name: "asymmetric algorithm", mutate: func(c *Config) { c.Auth.JWTAlgorithm = "RS256" }, wantErr: "unsupported"},
		{name: "non-positive ttl", mutate: func(c *Config) { c.Auth.AccessTokenTTLMinutes = 0 }, wantErr: "TTL"},
		{name: "relative peer url", mutate: func(c *Config) { c.Identity.BaseURL = "users:8002" }, wantErr: "USER_SERVICE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
