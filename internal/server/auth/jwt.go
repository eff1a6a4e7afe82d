// Package auth issues and verifies the bearer tokens of the development API.
package auth

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims carries the standard claims. Subject is the user id and ID (jti)
// identifies the token for revocation.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the numeric user id from the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

func GenerateToken(userID int64, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Issuer signs tokens and remembers revoked ones until they would have
// expired anyway.
type Issuer struct {
	secret   []byte
	validity time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewIssuer(secret []byte, validity time.Duration) *Issuer {
	return &Issuer{secret: secret, validity: validity, revoked: make(map[string]time.Time)}
}

func (i *Issuer) Issue(userID int64) (string, error) {
	return GenerateToken(userID, i.secret, i.validity)
}

// Verify parses tokenString and rejects revoked tokens.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims, err := ParseToken(tokenString, i.secret)
	if err != nil {
		return nil, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.revoked[claims.ID]; ok {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke invalidates the token described by claims.
func (i *Issuer) Revoke(claims *Claims) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := time.Now()
	for id, exp := range i.revoked {
		if exp.Before(now) {
			delete(i.revoked, id)
		}
	}

	exp := now.Add(i.validity)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	i.revoked[claims.ID] = exp
}
