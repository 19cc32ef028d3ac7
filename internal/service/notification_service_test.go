package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/wellness-services/internal/config"
	"github.com/spec-kit/wellness-services/internal/events"
)

func TestNotificationService_HandlesDomainEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()

	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@wellness.local",
		WebhookURL: "http://hooks.local/activity",
	}).RegisterHandlers()

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventUserRegistered, 1, events.UserRegisteredPayload{Email: "a@x.com"})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventActivityLogged, 1, events.ActivityLoggedPayload{ActivityID: 4})))

	assert.Equal(t, 1, logs.FilterMessage("UserRegistered").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 1, logs.FilterMessage("ActivityLogged").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

func TestNotificationService_SkipsUnconfiguredSinks(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventUserRegistered, 1, nil)))

	assert.Equal(t, 1, logs.FilterMessage("UserRegistered").Len())
	assert.Zero(t, logs.FilterMessage("sendEmailNotificationStub").Len())
}
