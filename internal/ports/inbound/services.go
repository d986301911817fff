package inbound

import (
	"context"

	"lostfound-bulletin-service/internal/domain/item"
	"lostfound-bulletin-service/internal/domain/shared"
)

// AuthStateListener is invoked with the current identity (or nil when
// signed out) immediately on registration and on every subsequent change.
// A non-nil err means the auth service could not resolve the state; the
// identity argument is meaningless in that case.
type AuthStateListener func(identity *shared.Identity, err error)

// AuthResult is the outcome of a successful sign-in or sign-up
type AuthResult struct {
	Identity    *shared.Identity `json:"identity"`
	AccessToken string           `json:"access_token"`
}

// AuthService defines the session-scoped authentication operations
type AuthService interface {
	// SignUp creates a new account and signs it in
	SignUp(ctx context.Context, email, password string) (*AuthResult, error)

	// SignIn authenticates existing credentials
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)

	// SignOut clears the current identity
	SignOut(ctx context.Context) error

	// CurrentIdentity returns the signed-in identity, or nil
	CurrentIdentity() *shared.Identity

	// OnStateChange registers a listener for identity transitions and
	// returns an unsubscribe function
	OnStateChange(listener AuthStateListener) (unsubscribe func())
}

// SubmitItemRequest carries a new posting through the submission flow
type SubmitItemRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Location    string           `json:"location,omitempty"`
	Category    item.Category    `json:"category"`
	Identity    *shared.Identity `json:"-"`
}

// PostService defines the item submission operations
type PostService interface {
	// SubmitItem validates and persists a new item on behalf of the
	// current session
	SubmitItem(ctx context.Context, req SubmitItemRequest) (*item.Item, error)
}
