// Package auth verifies the bearer tokens the jobs API issues to app users.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/normalize"
)

// ErrMissingUser is returned for a valid token without a user_id claim.
var ErrMissingUser = errors.New("token has no user_id claim")

// JWTManager signs and validates JWT tokens. Verification picks the key by
// the token's kid header so older keys keep working after a rotation.
type JWTManager struct {
	keys      map[string]string // kid -> HMAC secret
	activeKid string            // kid used for new tokens; "" for a single unnamed key
	duration  time.Duration     // How long tokens are valid (e.g., 24 hours)
}

// Claims is the JWT payload. UserID is the chat identity of the caller.
type Claims struct {
	UserID               string `json:"user_id"`
	jwt.RegisteredClaims        // Includes ExpiresAt, IssuedAt, etc.
}

// NewJWTManager returns a JWTManager with a single secret.
func NewJWTManager(secretKey string, duration time.Duration) *JWTManager {
	return &JWTManager{
		keys:     map[string]string{"": secretKey},
		duration: duration,
	}
}

// NewJWTManagerFromKeys returns a JWTManager that signs with activeKid and
// accepts tokens signed by any of keys.
func NewJWTManagerFromKeys(keys map[string]string, activeKid string, duration time.Duration) *JWTManager {
	copied := make(map[string]string, len(keys))
	for kid, secret := range keys {
		copied[kid] = secret
	}
	return &JWTManager{keys: copied, activeKid: activeKid, duration: duration}
}

// GenerateToken issues a signed token for userID. The chat server itself
// only verifies tokens; this is used by tests and local tooling.
func (m *JWTManager) GenerateToken(userID string) (string, time.Time, error) {
	secret, ok := m.keys[m.activeKid]
	if !ok {
		return "", time.Time{}, fmt.Errorf("no key for active kid %q", m.activeKid)
	}

	now := time.Now()
	expiresAt := now.Add(m.duration)
	claims := &Claims{
		UserID: normalize.ID(userID),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	// HS256 (HMAC with SHA-256)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if m.activeKid != "" {
		token.Header["kid"] = m.activeKid
	}

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// VerifyToken parses and validates a token and returns its claims.
func (m *JWTManager) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Security check: ensure token was signed with HMAC (not asymmetric key)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, _ := token.Header["kid"].(string)
		secret, ok := m.keys[kid]
		if !ok {
			return nil, fmt.Errorf("unknown key id %q", kid)
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims.UserID = normalize.ID(claims.UserID)
	if claims.UserID == "" {
		return nil, ErrMissingUser
	}
	return claims, nil
}

// context key type for storing auth claims in context
type claimsContextKey struct{}

// NewContext returns a copy of ctx carrying claims.
func NewContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// FromContext extracts auth claims from the context, if present.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsContextKey{}).(*Claims)
	return c, ok && c != nil
}
