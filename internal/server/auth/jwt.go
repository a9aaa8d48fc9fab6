// Package auth issues and verifies the signed session tokens that
// authenticate requests. Tokens are stateless HS256 JWTs carrying the
// user ID as subject; expiry is the only invalidation mechanism.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when the token signature is valid but
	// the embedded expiry has passed.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenInvalid is returned when the signature does not verify
	// against the configured secret.
	ErrTokenInvalid = errors.New("auth: invalid token signature")
	// ErrTokenMalformed is returned when the token cannot be parsed at all.
	ErrTokenMalformed = errors.New("auth: malformed token")
)

// Claims embeds the registered JWT claims plus the user ID the token
// was issued for.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens with a process-wide secret.
// Safe for concurrent use after construction.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token Manager. The secret must be non-empty and
// ttl positive; both are startup-time configuration errors.
func NewManager(secret []byte, ttl time.Duration) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: empty signing secret")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: invalid token TTL")
	}
	return &Manager{secret: secret, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue produces a signed token for userID with an absolute expiry of
// now + the configured TTL.
func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	return token.SignedString(m.secret)
}

// Verify checks the token's signature and expiry and recovers the user
// ID. Failures map to ErrTokenExpired, ErrTokenInvalid, or
// ErrTokenMalformed; callers treat all three as unauthenticated but the
// classes stay distinguishable for logging and tests.
func (m *Manager) Verify(tokenStr string) (string, error) {
	claims := &Claims{}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		default:
			return "", ErrTokenInvalid
		}
	}

	if !token.Valid {
		return "", ErrTokenInvalid
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", ErrTokenMalformed
	}

	return userID, nil
}
