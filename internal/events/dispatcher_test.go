package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDispatcher_Publish(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []string
	d.Subscribe(EventActivityLogged, func(_ context.Context, e Event) error {
		seen = append(seen, "first")
		return errors.New("sink down")
	})
	d.Subscribe(EventActivityLogged, func(_ context.Context, e Event) error {
		seen = append(seen, "second")
		return nil
	})
	d.Subscribe(EventUserRegistered, func(_ context.Context, e Event) error {
		seen = append(seen, "other")
		return nil
	})

	event := NewEvent(EventActivityLogged, 7, ActivityLoggedPayload{ActivityID: 1})
	err := d.Publish(context.Background(), event)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink down")
	assert.Equal(t, []string{"first", "second"}, seen)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, int64(7), event.UserID)
}

func TestInMemoryDispatcher_NoListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), NewEvent(EventUserRegistered, 1, nil)))
}
