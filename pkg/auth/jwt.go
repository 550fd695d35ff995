// Package auth issues and checks the session tokens the controller hands to
// technicians on login.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalid   = errors.New("invalid token")
	ErrNoSecret  = errors.New("token secret not configured")
	DefaultTTL   = 12 * time.Hour
	signingAlgos = []string{jwt.SigningMethodHS256.Alg()}
)

// Claims carried by a session token.
type Claims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Signer signs and verifies HS256 session tokens with one shared secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a signer; ttl <= 0 uses DefaultTTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate issues a token for the user.
func (s *Signer) Generate(userID uint, username string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}
	now := s.now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies a token and returns its claims.
func (s *Signer) Parse(tokenStr string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrNoSecret
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods(signingAlgos), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalid
	}
	if claims, ok := token.Claims.(*Claims); ok {
		return claims, nil
	}
	return nil, ErrInvalid
}
