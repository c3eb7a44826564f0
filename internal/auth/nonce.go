package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

// ErrInvalidNonce is returned when a nonce is missing, expired, tampered with,
// or bound to another action. It wraps domain.ErrForbidden.
var ErrInvalidNonce = fmt.Errorf("invalid nonce: %w", domain.ErrForbidden)

// NonceManager issues anti-forgery tokens bound to a named action.
type NonceManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewNonceManager creates a NonceManager. Tokens expire after ttl.
func NewNonceManager(secret, issuer string, ttl time.Duration) *NonceManager {
	return &NonceManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

type nonceClaims struct {
	jwt.RegisteredClaims
	Action string `json:"act"`
}

// Issue returns a signed nonce for action.
func (m *NonceManager) Issue(action string) (string, error) {
	key, err := deriveKey(m.secret, "nonce/"+action)
	if err != nil {
		return "", err
	}

	now := m.now()
	claims := nonceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Action: action,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign nonce: %w", err)
	}
	return signed, nil
}

// Verify checks that nonce was issued for action and has not expired.
func (m *NonceManager) Verify(nonce, action string) error {
	if nonce == "" {
		return ErrInvalidNonce
	}

	key, err := deriveKey(m.secret, "nonce/"+action)
	if err != nil {
		return err
	}

	token, err := jwt.ParseWithClaims(nonce, &nonceClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return errors.Join(ErrInvalidNonce, err)
	}

	claims, ok := token.Claims.(*nonceClaims)
	if !ok || !token.Valid || claims.Action != action {
		return ErrInvalidNonce
	}
	return nil
}
