package app_test

import (
	"testing"

	"lostfound-bulletin-service/internal/app"
	"lostfound-bulletin-service/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNavigationGateInitialState(t *testing.T) {
	gate := app.NewNavigationGate(app.NavigationGateParams{Logger: zerolog.Nop()})
	assert.Equal(t, app.StateResolving, gate.State())
}

func TestNavigationGateApply(t *testing.T) {
	identity := &shared.Identity{UserID: uuid.New(), Email: "finder@example.com"}

	type step struct {
		identity  *shared.Identity
		resolving bool
		want      app.GateState
	}

	tests := []struct {
		name  string
		steps []step
	}{
		{
			name: "stays resolving until the session resolves",
			steps: []step{
				{identity: nil, resolving: true, want: app.StateResolving},
				{identity: identity, resolving: true, want: app.StateResolving},
			},
		},
		{
			name: "resolves straight to authenticated",
			steps: []step{
				{identity: identity, resolving: false, want: app.StateAuthenticated},
			},
		},
		{
			name: "resolves to unauthenticated without an identity",
			steps: []step{
				{identity: nil, resolving: false, want: app.StateUnauthenticated},
			},
		},
		{
			name: "sign in then sign out",
			steps: []step{
				{identity: nil, resolving: false, want: app.StateUnauthenticated},
				{identity: identity, resolving: false, want: app.StateAuthenticated},
				{identity: nil, resolving: false, want: app.StateUnauthenticated},
			},
		},
		{
			name: "never returns to resolving once resolved",
			steps: []step{
				{identity: identity, resolving: false, want: app.StateAuthenticated},
				{identity: identity, resolving: true, want: app.StateAuthenticated},
				{identity: nil, resolving: true, want: app.StateAuthenticated},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := app.NewNavigationGate(app.NavigationGateParams{Logger: zerolog.Nop()})
			for i, step := range tt.steps {
				got := gate.Apply(step.identity, step.resolving)
				assert.Equal(t, step.want, got, "step %d", i)
				assert.Equal(t, step.want, gate.State(), "step %d", i)
			}
		})
	}
}

func TestNavigationGateOnTransition(t *testing.T) {
	identity := &shared.Identity{UserID: uuid.New(), Email: "finder@example.com"}

	var transitions []app.GateState
	gate := app.NewNavigationGate(app.NavigationGateParams{
		Logger: zerolog.Nop(),
		OnTransition: func(state app.GateState) {
			transitions = append(transitions, state)
		},
	})

	gate.Apply(nil, true)       // no transition while resolving
	gate.Apply(identity, false) // resolving -> authenticated
	gate.Apply(identity, false) // same state, no callback
	gate.Apply(nil, false)      // authenticated -> unauthenticated
	gate.Apply(nil, false)      // same state, no callback

	assert.Equal(t, []app.GateState{
		app.StateAuthenticated,
		app.StateUnauthenticated,
	}, transitions)
}
