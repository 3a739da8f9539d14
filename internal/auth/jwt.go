// Package auth provides JWT token handling and password hashing for the
// student records API.
//
// AUTHENTICATION FLOW:
//  1. Staff member POSTs credentials to /api/auth/login
//  2. Server verifies the bcrypt hash and issues a signed JWT containing the
//     user ID ("sub") and the role ("role")
//  3. The client sends the token on every request:
//     Authorization: Bearer <jwt>
//  4. Middleware validates the token and places the identity in the request
//     context, where handlers pass the role down to the services
//
// WHY JWT?
// The token is stateless — everything needed to authorize a request (user ID,
// role, expiry) is inside the signed payload, so no session store or DB
// lookup is needed to verify it. The HMAC signature prevents tampering.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/student-records/internal/model"
)

const issuer = "student-records"

// defaultTokenTTL matches a working day: staff log in each morning and the
// token quietly expires overnight.
const defaultTokenTTL = 8 * time.Hour

// TokenService signs and validates JWT access tokens.
//
// It holds the HMAC secret used for both operations — the same secret must
// verify what it signed.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. The standard "sub" claim carries the user ID;
// the private "role" claim carries the authorization level so that most
// requests can be authorized without a user lookup.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is what a validated token resolves to.
type Identity struct {
	UserID string
	Role   model.Role
}

// Generate creates and signs an access token for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256). Symmetric — same key signs and
// verifies, which is fine for a single-service deployment.
func (s *TokenService) Generate(userID string, role model.Role) (string, error) {
	return s.GenerateWithDuration(userID, role, defaultTokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry.
// Used in tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, role model.Role, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string, returning the identity it
// asserts.
//
// The jwt library checks the signature, the expiry, and the issuer.
// jwt.WithValidMethods pins the algorithm to HS256 — without it an attacker
// could attempt an algorithm-confusion attack with an "alg":"none" token.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
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
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("auth: token expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return Identity{}, fmt.Errorf("auth: token has no subject")
	}

	role := model.Role(c.Role)
	if !role.Valid() {
		return Identity{}, fmt.Errorf("auth: token has unknown role %q", c.Role)
	}

	return Identity{UserID: c.Subject, Role: role}, nil
}
