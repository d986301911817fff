package token

import (
	"testing"
	"time"

	"lostfound-bulletin-service/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTProviderRoundTrip(t *testing.T) {
	provider := NewJWTProvider(JWTProviderParams{
		Secret: "test-secret",
		Issuer: "lostfound-bulletin",
	})
	identity := &shared.Identity{UserID: uuid.New(), Email: "finder@example.com"}

	signed, err := provider.GenerateAccessToken(identity, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := provider.VerifyAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID.String(), claims.UserID)
	assert.Equal(t, identity.UserID.String(), claims.Subject)
	assert.Equal(t, "finder@example.com", claims.Email)
	assert.Equal(t, "lostfound-bulletin", claims.Issuer)
}

func TestJWTProviderRejectsWrongSecret(t *testing.T) {
	issuing := NewJWTProvider(JWTProviderParams{Secret: "secret-a", Issuer: "lostfound-bulletin"})
	verifying := NewJWTProvider(JWTProviderParams{Secret: "secret-b", Issuer: "lostfound-bulletin"})
	identity := &shared.Identity{UserID: uuid.New(), Email: "finder@example.com"}

	signed, err := issuing.GenerateAccessToken(identity, time.Hour)
	require.NoError(t, err)

	_, err = verifying.VerifyAccessToken(signed)
	assert.Error(t, err)
}

func TestJWTProviderRejectsExpiredToken(t *testing.T) {
	provider := NewJWTProvider(JWTProviderParams{Secret: "test-secret", Issuer: "lostfound-bulletin"})
	identity := &shared.Identity{UserID: uuid.New(), Email: "finder@example.com"}

	signed, err := provider.GenerateAccessToken(identity, -time.Minute)
	require.NoError(t, err)

	_, err = provider.VerifyAccessToken(signed)
	assert.Error(t, err)
}

func TestJWTProviderRejectsGarbage(t *testing.T) {
	provider := NewJWTProvider(JWTProviderParams{Secret: "test-secret", Issuer: "lostfound-bulletin"})

	_, err := provider.VerifyAccessToken("not-a-token")
	assert.Error(t, err)
}
