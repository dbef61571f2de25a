package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is how long an issued session token stays valid. There is no
// server-side session store and no revocation list — a token, once issued,
// is good until its expiry regardless of account changes.
const tokenTTL = 24 * time.Hour

// ErrInvalidToken is the uniform verification failure. Callers cannot tell
// a bad signature from an expired or malformed token, and the middleware
// treats all three the same (401).
var ErrInvalidToken = errors.New("auth: invalid or expired token")

// Claims is the verified content of a session token: who the subject is and
// what role they hold.
type Claims struct {
	UserID string
	Role   string
}

// tokenClaims is the JWT payload. The subject carries the user ID; role is
// a private claim alongside the registered set.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session tokens.
//
// It holds the HMAC secret used for both operations. The secret comes from
// configuration at startup and is the only state — verification is pure
// computation, no I/O.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: JWT secret must not be empty")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Issue creates and signs a session token for the given user and role,
// expiring 24 hours from now.
//
// Signing algorithm: HS256 (HMAC-SHA256), symmetric — the same secret signs
// and verifies.
func (s *TokenService) Issue(userID, role string) (string, error) {
	return s.IssueWithDuration(userID, role, tokenTTL)
}

// IssueWithDuration creates a token with a custom lifetime. A negative
// duration produces an already-expired token, which the tests use to
// exercise expiry handling.
func (s *TokenService) IssueWithDuration(userID, role string, d time.Duration) (string, error) {
	now := time.Now()

	c := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks a token string, returning its claims.
//
// Every failure — malformed input, wrong signature, expired token, missing
// subject — collapses into ErrInvalidToken. Restricting the accepted
// methods to HS256 closes the algorithm-confusion hole where a token signed
// with "none" would otherwise slip through.
func (s *TokenService) Verify(tokenStr string) (Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&tokenClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	c, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || c.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	return Claims{UserID: c.Subject, Role: c.Role}, nil
}
