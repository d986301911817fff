package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"lostfound-bulletin-service/internal/domain/shared"
	"lostfound-bulletin-service/internal/ports/inbound"
	"lostfound-bulletin-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// AuthClient implements the session-scoped auth service. Each owning scope
// (one WebSocket connection) gets its own AuthClient; the account store and
// token provider behind it are shared process-wide.
//
// Listeners are notified in registration order, and per listener in the
// order transitions happen; the latest delivered identity always wins.
type AuthClient struct {
	users    outbound.UserRepository
	tokens   outbound.TokenProvider
	tokenTTL time.Duration
	logger   zerolog.Logger

	mu             sync.Mutex
	identity       *shared.Identity
	listeners      map[int]inbound.AuthStateListener
	nextListenerID int
}

type AuthClientParams struct {
	UserRepo outbound.UserRepository
	Tokens   outbound.TokenProvider
	TokenTTL time.Duration
	Logger   zerolog.Logger
}

// NewAuthClient creates a new auth client with no signed-in identity
func NewAuthClient(params AuthClientParams) *AuthClient {
	ttl := params.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &AuthClient{
		users:     params.UserRepo,
		tokens:    params.Tokens,
		tokenTTL:  ttl,
		logger:    params.Logger.With().Str("component", "auth_client").Logger(),
		listeners: make(map[int]inbound.AuthStateListener),
	}
}

// SignUp creates a new account and signs it in
func (c *AuthClient) SignUp(ctx context.Context, email, password string) (*inbound.AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, shared.ErrInvalidCredentials
	}

	user := &shared.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := c.users.Create(ctx, user); err != nil {
		c.logger.Warn().Err(err).Str("email", email).Msg("Sign up failed")
		return nil, err
	}

	c.logger.Info().Str("user_id", user.ID.String()).Msg("Account created")

	return c.establish(user)
}

// SignIn authenticates existing credentials
func (c *AuthClient) SignIn(ctx context.Context, email, password string) (*inbound.AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		// Generic error so sign-in cannot be used to probe registered emails
		return nil, shared.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, shared.ErrInvalidCredentials
	}

	c.logger.Info().Str("user_id", user.ID.String()).Msg("Signed in")

	return c.establish(user)
}

// SignOut clears the current identity. Signing out while already signed
// out is a no-op.
func (c *AuthClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	if c.identity == nil {
		c.mu.Unlock()
		return nil
	}
	userID := c.identity.UserID
	c.identity = nil
	listeners := c.listenerSnapshot()
	c.mu.Unlock()

	c.logger.Info().Str("user_id", userID.String()).Msg("Signed out")

	for _, listener := range listeners {
		listener(nil, nil)
	}

	return nil
}

// CurrentIdentity returns the signed-in identity, or nil
func (c *AuthClient) CurrentIdentity() *shared.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// OnStateChange registers a listener for identity transitions. The listener
// is invoked synchronously with the current identity before OnStateChange
// returns, and again on every subsequent change until unsubscribed.
func (c *AuthClient) OnStateChange(listener inbound.AuthStateListener) func() {
	c.mu.Lock()
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = listener
	current := c.identity
	c.mu.Unlock()

	listener(current, nil)

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// establish sets the signed-in identity, notifies listeners and issues an
// access token
func (c *AuthClient) establish(user *shared.User) (*inbound.AuthResult, error) {
	identity := user.Identity()

	accessToken, err := c.tokens.GenerateAccessToken(identity, c.tokenTTL)
	if err != nil {
		c.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to issue access token")
		return nil, err
	}

	c.mu.Lock()
	c.identity = identity
	listeners := c.listenerSnapshot()
	c.mu.Unlock()

	for _, listener := range listeners {
		listener(identity, nil)
	}

	return &inbound.AuthResult{
		Identity:    identity,
		AccessToken: accessToken,
	}, nil
}

// listenerSnapshot copies the listener set in registration order.
// Callers must hold c.mu.
func (c *AuthClient) listenerSnapshot() []inbound.AuthStateListener {
	listeners := make([]inbound.AuthStateListener, 0, len(c.listeners))
	for id := 0; id < c.nextListenerID; id++ {
		if listener, ok := c.listeners[id]; ok {
			listeners = append(listeners, listener)
		}
	}
	return listeners
}

func validateCredentials(email, password string) error {
	if !strings.Contains(email, "@") || strings.Contains(email, " ") || len(email) < 3 {
		return shared.ErrMalformedEmail
	}
	if len(password) < 6 {
		return shared.ErrPasswordTooShort
	}
	return nil
}
