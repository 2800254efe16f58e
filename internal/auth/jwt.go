package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
)

var (
	ErrInvalidToken = fmt.Errorf("%w: invalid or expired token", errs.ErrUnauthenticated)
	ErrMissingToken = fmt.Errorf("%w: authorization token required", errs.ErrUnauthenticated)
)

const issuer = "ledgerbook"

// maxRevoked bounds the logout denylist. Entries expire with the tokens they block.
const maxRevoked = 100_000

// JWTManager handles JWT token generation and validation.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration

	// revoked holds the IDs of logged-out tokens until they would expire anyway.
	revoked *expirable.LRU[string, struct{}]
}

// Claims represents the custom JWT claims for a user session.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a new JWT manager with the given secret and token duration.
// secretKey should be a strong random string (e.g., 32 bytes).
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		revoked:       expirable.NewLRU[string, struct{}](maxRevoked, nil, tokenDuration),
	}
}

// Generate creates a new JWT token for the given user.
func (m *JWTManager) Generate(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Validate parses and validates a JWT token, returning the claims if valid.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			return m.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if m.revoked.Contains(claims.ID) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke blocks a token for the rest of its lifetime.
func (m *JWTManager) Revoke(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	m.revoked.Add(claims.ID, struct{}{})
}
