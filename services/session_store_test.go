package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mridulja/flightbookingagent/models"
	"github.com/mridulja/flightbookingagent/services"
)

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	store := services.NewMemorySessionStore(time.Minute)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)

	state := services.NewSession("s1").Unwrap()
	state.Slots.Destination = "london"
	require.NoError(t, store.Put(ctx, state))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, models.StateGreeting, got.State)
	assert.Equal(t, "london", got.Slots.Destination)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestMemorySessionStoreIsolatesCallers(t *testing.T) {
	store := services.NewMemorySessionStore(time.Minute)
	ctx := context.Background()

	state := services.NewSession("s1").Unwrap()
	state.Slots.Destination = "london"
	require.NoError(t, store.Put(ctx, state))

	// Mutating what we put or what we got must not leak into the store.
	state.Slots.Destination = "tokyo"
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "london", got.Slots.Destination)

	got.Slots.Destination = "paris"
	got.Turns = append(got.Turns, models.Turn{Role: models.RoleUser, Text: "hi"})

	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "london", again.Slots.Destination)
	assert.Empty(t, again.Turns)
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := services.NewMemorySessionStore(20 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, services.NewSession("short").Unwrap()))
	time.Sleep(50 * time.Millisecond)

	_, err := store.Get(ctx, "short")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}
