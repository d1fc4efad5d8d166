// Package auth provides the role capability check consumed by the transport
// layer. Credential issuance and user management live outside this system;
// tokens arrive signed and are only verified here.
package auth

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Roles understood by the auction endpoints.
const (
	RoleAdmin   = "admin"
	RoleCaptain = "captain"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrForbidden    = errors.New("insufficient role")
)

// Claims defines the JWT payload.
type Claims struct {
	UserID string `json:"user_id"`
	TeamID string `json:"team_id,omitempty"`
	Role   string `json:"role"`
	jwtlib.RegisteredClaims
}

// Principal is the verified caller identity handed to handlers.
type Principal struct {
	UserID string
	TeamID string
	Role   string
}

// GenerateToken issues a signed JWT with the provided secret and ttl.
func GenerateToken(userID, teamID, role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		TeamID: teamID,
		Role:   role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    "auction-arena",
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse validates and extracts claims from a token.
func Parse(token, secret string) (*Claims, error) {
	parsed, err := jwtlib.ParseWithClaims(token, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Name}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RequireRole verifies the token and checks the caller holds the role.
func RequireRole(token, role, secret string) (*Principal, error) {
	claims, err := Parse(token, secret)
	if err != nil {
		return nil, err
	}
	if claims.Role != role {
		return nil, ErrForbidden
	}
	return &Principal{
		UserID: claims.UserID,
		TeamID: claims.TeamID,
		Role:   claims.Role,
	}, nil
}
