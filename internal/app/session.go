package app

import (
	"sync"

	"lostfound-bulletin-service/internal/domain/shared"
	"lostfound-bulletin-service/internal/ports/inbound"

	"github.com/rs/zerolog"
)

// SessionStore owns the current-user identity and its resolution status for
// one scope. It bridges the auth service's state-change notifications into
// readable session state: resolving is true only until the first
// notification arrives and never becomes true again for the life of the
// store. Consumers observe the session, they never mutate it.
type SessionStore struct {
	mu          sync.Mutex
	identity    *shared.Identity
	resolving   bool
	closed      bool
	unsubscribe func()
	onChange    func(identity *shared.Identity, resolving bool)
	closeOnce   sync.Once
	logger      zerolog.Logger
}

type SessionStoreParams struct {
	Auth   inbound.AuthService
	Logger zerolog.Logger

	// OnChange, when set, is invoked after every applied session
	// transition with the new identity and resolution status
	OnChange func(identity *shared.Identity, resolving bool)
}

// NewSessionStore creates a session store and registers exactly one state
// listener with the auth service. The listener's first delivery resolves
// the session.
func NewSessionStore(params SessionStoreParams) *SessionStore {
	store := &SessionStore{
		resolving: true,
		onChange:  params.OnChange,
		logger:    params.Logger.With().Str("component", "session_store").Logger(),
	}

	store.unsubscribe = params.Auth.OnStateChange(store.handleStateChange)

	return store
}

// Identity returns the current identity, or nil when signed out or still
// resolving
func (s *SessionStore) Identity() *shared.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Resolving reports whether the initial, one-time resolution of the stored
// credentials is still in progress
func (s *SessionStore) Resolving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolving
}

// Close unregisters the auth listener. Idempotent; notifications delivered
// after Close are dropped.
func (s *SessionStore) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.unsubscribe()
	})
}

func (s *SessionStore) handleStateChange(identity *shared.Identity, err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	if err != nil {
		// Fail open to the unauthenticated experience rather than
		// hanging on the resolving state forever
		s.resolving = false
		identity = s.identity
		resolving := s.resolving
		onChange := s.onChange
		s.mu.Unlock()

		s.logger.Error().Err(err).Msg("Auth state listener error")

		if onChange != nil {
			onChange(identity, resolving)
		}
		return
	}

	s.identity = identity
	s.resolving = false
	onChange := s.onChange
	s.mu.Unlock()

	if identity != nil {
		s.logger.Debug().Str("user_id", identity.UserID.String()).Msg("Session identity updated")
	} else {
		s.logger.Debug().Msg("Session identity cleared")
	}

	if onChange != nil {
		onChange(identity, false)
	}
}
