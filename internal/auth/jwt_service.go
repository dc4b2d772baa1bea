package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SessionTokenExpiry is the fixed lifetime of a session token. Expiry is the
// only termination mechanism; there is no server-side revocation.
const SessionTokenExpiry = time.Hour

// SessionCookieName is the cookie carrying the session token. The same token
// is accepted as an Authorization bearer token.
const SessionCookieName = "storm_app_token"

var (
	// ErrSecretMissing is returned when the signing secret is not configured.
	// This is an operational failure, never an authentication failure.
	ErrSecretMissing = errors.New("JWT secret not configured")
	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("invalid token")
)

// SessionClaims carries the identity asserted by a session token.
type SessionClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies session tokens.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given secret. An empty
// secret is tolerated here so the server can start, but every issue and
// verify call will fail closed with ErrSecretMissing.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// Issue signs a session token for the user with the fixed 1-hour expiry.
func (s *JWTService) Issue(userID, role, email, name string) (string, error) {
	return s.issueWithExpiry(userID, role, email, name, SessionTokenExpiry)
}

func (s *JWTService) issueWithExpiry(userID, role, email, name string, expiry time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrSecretMissing
	}

	now := time.Now()
	claims := &SessionClaims{
		UserID: userID,
		Role:   role,
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies a session token and returns its claims. Failures are
// distinguished: ErrSecretMissing when the server is misconfigured,
// ErrTokenExpired when the token outlived its expiry, ErrTokenInvalid for
// everything else.
func (s *JWTService) ValidateToken(tokenString string) (*SessionClaims, error) {
	if len(s.secret) == 0 {
		return nil, ErrSecretMissing
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
