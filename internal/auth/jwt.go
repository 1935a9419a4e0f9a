// Package auth provides password hashing, JWT issuance/validation, and the
// bearer-token middleware for protected routes.
//
// AUTHENTICATION FLOW:
//  1. Client registers or logs in with email/password
//  2. Server verifies credentials and issues a signed JWT (7-day lifetime)
//  3. Client sends `Authorization: Bearer <token>` on protected requests
//  4. Middleware validates the token and puts the userID in the request
//     context; handlers read it from there
//
// The JWT is stateless — the server stores no session data. Everything
// needed (user ID, email, expiry) is inside the signed token, and the HMAC
// signature guarantees it wasn't tampered with.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// TokenTTL is the validity window of issued tokens. After expiry the client
// must log in again — there is no refresh flow.
const TokenTTL = 7 * 24 * time.Hour

const issuer = "marketplace-api"

// ErrInvalidToken is the single error returned for every validation failure:
// malformed, expired, wrong signature, wrong issuer. Collapsing them is
// deliberate — a caller probing the API must not learn which check failed.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenService signs and validates JWT access tokens.
// The same HMAC secret is used for both operations.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and the
// default 7-day token lifetime. The secret should be at least 32 bytes of
// random data in production (JWT_SECRET=$(openssl rand -hex 32)).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), ttl: TokenTTL}, nil
}

// NewTokenServiceWithTTL creates a TokenService with a custom token
// lifetime. Used in tests to mint already-expired tokens.
func NewTokenServiceWithTTL(secret string, ttl time.Duration) (*TokenService, error) {
	ts, err := NewTokenService(secret)
	if err != nil {
		return nil, err
	}
	ts.ttl = ttl
	return ts, nil
}

// claims is the JWT payload: the registered claims plus the account email.
// Subject carries the user ID; ID (jti) is a unique xid per issued token.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generate creates and signs a token for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single-server deployment.
func (s *TokenService) Generate(userID int64, email string) (string, error) {
	now := time.Now()

	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    issuer,
			ID:        xid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the user ID it
// encodes.
//
// Checks performed (by the jwt library, via the options below):
//   - signature is valid and the algorithm is HS256 (prevents algorithm
//     confusion attacks)
//   - token is not expired
//   - issuer matches (rejects tokens minted by other apps sharing a secret)
//
// Every failure returns ErrInvalidToken with no further detail.
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, ErrInvalidToken
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
