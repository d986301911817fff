package token

import (
	"fmt"
	"time"

	"lostfound-bulletin-service/internal/domain/shared"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the payload embedded inside an access token
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
	Email  string `json:"eml"`
}

// JWTProvider issues HS256-signed access tokens
type JWTProvider struct {
	secret []byte
	issuer string
}

type JWTProviderParams struct {
	Secret string
	Issuer string
}

// NewJWTProvider creates a new JWT token provider
func NewJWTProvider(params JWTProviderParams) *JWTProvider {
	return &JWTProvider{
		secret: []byte(params.Secret),
		issuer: params.Issuer,
	}
}

// GenerateAccessToken creates a signed token for the given identity
func (p *JWTProvider) GenerateAccessToken(identity *shared.Identity, timeToLive time.Duration) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID.String(),
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(timeToLive)),
		},
		UserID: identity.UserID.String(),
		Email:  identity.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyAccessToken parses and validates a signed token, returning the
// embedded claims
func (p *JWTProvider) VerifyAccessToken(raw string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
