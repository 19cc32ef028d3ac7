package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/wellness-services/internal/config"
)

func TestNewRedis_Reachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	core, logs := observer.New(zapcore.InfoLevel)
	rd := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()}, zap.New(core))
	t.Cleanup(rd.Close)

	assert.NoError(t, rd.Ping(context.Background()))
	entries := logs.FilterMessage("connected to redis").All()
	require.Len(t, entries, 1)
	assert.Equal(t, mr.Addr(), entries[0].ContextMap()["addr"])
}

func TestNewRedis_UnreachableIsNotFatal(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	rd := NewRedis(context.Background(), config.RedisConfig{Addr: addr}, zap.New(core))
	t.Cleanup(rd.Close)

	require.NotNil(t, rd.Client)
	assert.Error(t, rd.Ping(context.Background()))
	assert.Equal(t, 1, logs.FilterField(zap.String("addr", addr)).Len())
}
