package store

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"reelrate/pkg/domain"
)

var (
	// ErrTokenExpired is returned for a structurally valid credential past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers malformed tokens and signature mismatches.
	ErrTokenInvalid = errors.New("invalid token")
)

// JWTSessionStore issues and validates HMAC-SHA256 session credentials.
// Tokens are stateless: nothing is kept server-side and there is no
// revocation, so a credential stays valid until its natural expiry.
type JWTSessionStore struct {
	secret []byte
	ttl    time.Duration
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTSessionStore builds a stateless JWT session store. An empty secret is
// refused so the process cannot silently run with a well-known signing key.
func NewJWTSessionStore(secret string, ttl time.Duration) (*JWTSessionStore, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt signing secret required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTSessionStore{
		secret: []byte(secret),
		ttl:    ttl,
	}, nil
}

// NewSession creates a signed credential embedding the user identity and a
// 24h (configurable) expiry.
func (s *JWTSessionStore) NewSession(userID, email string) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// TTL reports the credential lifetime, used to bound the transport cookie.
func (s *JWTSessionStore) TTL() time.Duration {
	return s.ttl
}

// VerifyToken validates a credential and returns the embedded identity.
// Expiry is reported as ErrTokenExpired; every other failure collapses into
// ErrTokenInvalid.
func (s *JWTSessionStore) VerifyToken(token string) (domain.Identity, error) {
	claims := sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		// The credential issued at T is accepted through T+TTL inclusive.
		jwt.WithLeeway(time.Second),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, ErrTokenExpired
		}
		return domain.Identity{}, ErrTokenInvalid
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return domain.Identity{}, ErrTokenInvalid
	}
	return domain.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
