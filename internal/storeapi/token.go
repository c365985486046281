package storeapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCartToken = errors.New("invalid cart token")

type cartClaims struct {
	CartToken string `json:"ct"`
	jwt.RegisteredClaims
}

// TokenSigner wraps Store API cart tokens into signed, expiring tokens
// so they can travel in a callback URL.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenSigner(secret string, ttl time.Duration) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *TokenSigner) Sign(cartToken string) (string, error) {
	now := s.now()
	claims := cartClaims{
		CartToken: cartToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign cart token: %w", err)
	}
	return signed, nil
}

// Verify returns the cart token carried by a signed token.
func (s *TokenSigner) Verify(signed string) (string, error) {
	var claims cartClaims
	_, err := jwt.ParseWithClaims(signed, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCartToken, err)
	}
	if claims.CartToken == "" {
		return "", ErrInvalidCartToken
	}
	return claims.CartToken, nil
}
