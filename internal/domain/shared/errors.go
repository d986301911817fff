package shared

import "errors"

// Domain-specific errors
var (
	// Auth errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrMalformedEmail     = errors.New("malformed email address")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotSignedIn        = errors.New("you must be signed in")

	// Item validation errors
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidCategory     = errors.New("category must be lost or found")
	ErrInvalidFilter       = errors.New("filter must be all, lost or found")
	ErrItemNotFound        = errors.New("item not found")

	// Submission errors
	ErrSubmissionInFlight = errors.New("a submission is already in progress")

	// Subscription errors
	ErrSubscriptionClosed = errors.New("subscription is closed")
	ErrFeedQueryFailed    = errors.New("feed query failed")

	// Database errors
	ErrDatabaseConnection = errors.New("database connection failed")

	// WebSocket message validation errors
	ErrMessageTypeRequired = errors.New("message type is required")
	ErrEmailRequired       = errors.New("email is required")
	ErrPasswordRequired    = errors.New("password is required")
	ErrFilterRequired      = errors.New("filter is required")
	ErrUnknownMessageType  = errors.New("unknown message type")

	// Broadcasting errors
	ErrBroadcastFailed            = errors.New("broadcast failed")
	ErrClientEventChannelNotFound = errors.New("client event channel not found")
)
