package coordinator

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenValidity is the lifetime of a coordinator bearer token.
const DefaultTokenValidity = time.Minute

// Claims are the bearer token claims sent to the coordinator.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenSource signs short-lived HS256 tokens with a secret shared with the
// coordinator.
type TokenSource struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenSource(secret []byte, validity time.Duration) *TokenSource {
	if validity <= 0 {
		validity = DefaultTokenValidity
	}
	return &TokenSource{secret: secret, validity: validity, now: time.Now}
}

// Token returns a signed token whose subject is the job owner or state id
// the request is about.
func (ts *TokenSource) Token(subject string) (string, error) {
	now := ts.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.validity)),
		},
	})
	return token.SignedString(ts.secret)
}

// ParseToken verifies a token produced by a TokenSource with the same secret
// and returns its subject.
func ParseToken(tokenString string, secret []byte) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
