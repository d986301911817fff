package app

import (
	"sync"

	"lostfound-bulletin-service/internal/domain/shared"

	"github.com/rs/zerolog"
)

// GateState identifies which screen tree is visible
type GateState string

const (
	StateResolving       GateState = "resolving"
	StateUnauthenticated GateState = "unauthenticated"
	StateAuthenticated   GateState = "authenticated"
)

// NavigationGate deterministically selects between the unauthenticated and
// authenticated screen trees based on session state. StateResolving is the
// initial state; once the session resolves, the gate moves directly between
// the two terminal states on every identity change and never returns to
// StateResolving.
type NavigationGate struct {
	mu           sync.Mutex
	state        GateState
	onTransition func(state GateState)
	logger       zerolog.Logger
}

type NavigationGateParams struct {
	Logger zerolog.Logger

	// OnTransition, when set, is invoked after every state change
	OnTransition func(state GateState)
}

// NewNavigationGate creates a gate in the resolving state
func NewNavigationGate(params NavigationGateParams) *NavigationGate {
	return &NavigationGate{
		state:        StateResolving,
		onTransition: params.OnTransition,
		logger:       params.Logger.With().Str("component", "navigation_gate").Logger(),
	}
}

// State returns the currently selected screen tree
func (g *NavigationGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Apply feeds a session transition into the gate and returns the resulting
// state. While the session is still resolving the gate stays put; after
// that the state is authenticated iff the identity is non-nil.
func (g *NavigationGate) Apply(identity *shared.Identity, resolving bool) GateState {
	g.mu.Lock()

	if resolving {
		state := g.state
		g.mu.Unlock()
		return state
	}

	next := StateUnauthenticated
	if identity != nil {
		next = StateAuthenticated
	}

	if next == g.state {
		g.mu.Unlock()
		return next
	}

	prev := g.state
	g.state = next
	onTransition := g.onTransition
	g.mu.Unlock()

	g.logger.Info().
		Str("from", string(prev)).
		Str("to", string(next)).
		Msg("Navigation gate transition")

	if onTransition != nil {
		onTransition(next)
	}

	return next
}
