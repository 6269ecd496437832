// Package auth provides password hashing, session tokens, session cookies and
// the middleware that guards authenticated routes.
//
// SESSION FLOW:
//  1. Register or login succeeds → TokenService.Issue signs {id: userID}
//  2. CookieManager writes it into the HttpOnly "token" cookie
//  3. Browser sends the cookie back on every request
//  4. RequireAuth verifies the token and puts the user id in the request context
//
// Tokens are stateless: the server keeps no session table, so a token stays
// valid until it expires even after the cookie is cleared by logout.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const (
	// DefaultTokenTTL is how long a session token stays valid.
	DefaultTokenTTL = 30 * 24 * time.Hour

	issuer          = "taskmate"
	minSecretLength = 16
)

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrTokenExpired = errors.New("auth: token expired")
)

// TokenService handles JWT creation and validation with a shared HMAC secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. A zero ttl selects DefaultTokenTTL.
//
// An empty or short secret is a deployment mistake, so it is an error here
// rather than something discovered on the first login.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: JWT secret is not set")
	}
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("auth: JWT secret must be at least %d characters", minSecretLength)
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	if ttl < 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// claims is the JWT payload: {"id": <user id>} plus the registered claims.
type claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// Issue creates and signs a token for userID, valid for the service TTL.
func (s *TokenService) Issue(userID int64) (string, error) {
	return s.issue(userID, s.ttl)
}

func (s *TokenService) issue(userID int64, ttl time.Duration) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("auth: cannot issue token for user id %d", userID)
	}

	now := s.now()
	c := claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks a token and returns the user id it carries.
//
// The error wraps ErrTokenExpired for an expired token and ErrInvalidToken
// for everything else (bad signature, wrong algorithm, wrong issuer, no id).
// Only HS256 is accepted, which rules out "alg: none" tokens.
func (s *TokenService) Verify(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}
	if c.UserID <= 0 {
		return 0, fmt.Errorf("%w: token has no user id", ErrInvalidToken)
	}

	return c.UserID, nil
}
