package outbound

import (
	"time"

	"lostfound-bulletin-service/internal/domain/shared"
)

// TokenProvider defines the interface for issuing access tokens on sign-in
type TokenProvider interface {
	// GenerateAccessToken creates a signed token for the given identity
	GenerateAccessToken(identity *shared.Identity, timeToLive time.Duration) (string, error)
}
