package app_test

import (
	"context"
	"errors"
	"testing"

	"lostfound-bulletin-service/internal/app"
	"lostfound-bulletin-service/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreResolvesOnFirstNotification(t *testing.T) {
	auth := &fakeAuthService{deferImmediate: true}

	store := app.NewSessionStore(app.SessionStoreParams{
		Auth:   auth,
		Logger: zerolog.Nop(),
	})
	defer store.Close()

	assert.True(t, store.Resolving())
	assert.Nil(t, store.Identity())

	auth.emit(nil, nil)

	assert.False(t, store.Resolving())
	assert.Nil(t, store.Identity())
}

func TestSessionStoreTracksIdentity(t *testing.T) {
	auth := &fakeAuthService{}
	identity := &shared.Identity{UserID: uuid.New(), Email: "finder@example.com"}

	type change struct {
		identity  *shared.Identity
		resolving bool
	}
	var changes []change
	store := app.NewSessionStore(app.SessionStoreParams{
		Auth:   auth,
		Logger: zerolog.Nop(),
		OnChange: func(identity *shared.Identity, resolving bool) {
			changes = append(changes, change{identity: identity, resolving: resolving})
		},
	})
	defer store.Close()

	// The immediate signed-out delivery resolved the session already
	require.Len(t, changes, 1)
	assert.Nil(t, changes[0].identity)
	assert.False(t, changes[0].resolving)

	auth.emit(identity, nil)
	assert.Equal(t, identity, store.Identity())
	require.Len(t, changes, 2)
	assert.Equal(t, identity, changes[1].identity)

	auth.emit(nil, nil)
	assert.Nil(t, store.Identity())
	require.Len(t, changes, 3)
	assert.Nil(t, changes[2].identity)

	// Resolution happens exactly once
	assert.False(t, store.Resolving())
}

func TestSessionStoreListenerErrorFailsOpen(t *testing.T) {
	auth := &fakeAuthService{deferImmediate: true}

	var notified int
	store := app.NewSessionStore(app.SessionStoreParams{
		Auth:   auth,
		Logger: zerolog.Nop(),
		OnChange: func(identity *shared.Identity, resolving bool) {
			notified++
			assert.Nil(t, identity)
			assert.False(t, resolving)
		},
	})
	defer store.Close()

	auth.emit(nil, errors.New("credential store unavailable"))

	// The error resolves the session without an identity so consumers can
	// fall through to the unauthenticated experience
	assert.False(t, store.Resolving())
	assert.Nil(t, store.Identity())
	assert.Equal(t, 1, notified)
}

func TestSessionStoreErrorKeepsLastIdentity(t *testing.T) {
	auth := &fakeAuthService{}
	identity := &shared.Identity{UserID: uuid.New(), Email: "finder@example.com"}

	store := app.NewSessionStore(app.SessionStoreParams{
		Auth:   auth,
		Logger: zerolog.Nop(),
	})
	defer store.Close()

	auth.emit(identity, nil)
	auth.emit(nil, errors.New("transient listener failure"))

	assert.Equal(t, identity, store.Identity())
}

func TestSessionStoreClose(t *testing.T) {
	auth := &fakeAuthService{}

	var notified int
	store := app.NewSessionStore(app.SessionStoreParams{
		Auth:   auth,
		Logger: zerolog.Nop(),
		OnChange: func(identity *shared.Identity, resolving bool) {
			notified++
		},
	})

	require.Equal(t, 1, notified)

	store.Close()
	store.Close()
	assert.Equal(t, 1, auth.unsubscribeCount())

	// Notifications that race with teardown are dropped
	auth.emit(&shared.Identity{UserID: uuid.New(), Email: "late@example.com"}, nil)
	assert.Equal(t, 1, notified)
	assert.Nil(t, store.Identity())
}

// TestSessionDrivesNavigationGate exercises the real auth client, session
// store and gate together over a full sign-up/sign-out round trip.
func TestSessionDrivesNavigationGate(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuthClient(t)

	var states []app.GateState
	gate := app.NewNavigationGate(app.NavigationGateParams{
		Logger: zerolog.Nop(),
		OnTransition: func(state app.GateState) {
			states = append(states, state)
		},
	})

	store := app.NewSessionStore(app.SessionStoreParams{
		Auth:   auth,
		Logger: zerolog.Nop(),
		OnChange: func(identity *shared.Identity, resolving bool) {
			gate.Apply(identity, resolving)
		},
	})
	defer store.Close()

	_, err := auth.SignUp(ctx, "finder@example.com", "hunter22")
	require.NoError(t, err)
	require.NoError(t, auth.SignOut(ctx))

	assert.Equal(t, []app.GateState{
		app.StateUnauthenticated,
		app.StateAuthenticated,
		app.StateUnauthenticated,
	}, states)
}
