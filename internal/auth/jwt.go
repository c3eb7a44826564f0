package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

// RoleAdmin is the only role accepted by admin routes.
const RoleAdmin = "admin"

// JWTManager issues and validates admin bearer tokens.
type JWTManager struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret, issuer string, ttl time.Duration) (*JWTManager, error) {
	key, err := deriveKey([]byte(secret), "admin")
	if err != nil {
		return nil, err
	}
	return &JWTManager{
		key:    key,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// adminClaims extends standard JWT claims with the caller's role.
type adminClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// GenerateAdminToken creates a signed HS256 JWT with subject as the operator name.
func (m *JWTManager) GenerateAdminToken(subject string) (string, error) {
	if subject == "" {
		return "", domain.NewValidationError("subject", "required")
	}

	now := m.now()
	claims := adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: RoleAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateAdminToken parses and validates an admin token and returns its subject.
// Any failure wraps domain.ErrUnauthorized.
func (m *JWTManager) ValidateAdminToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("token is empty: %w", domain.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(tokenString, &adminClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.key, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", fmt.Errorf("parse token: %w: %w", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*adminClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}

	if claims.Role != RoleAdmin {
		return "", fmt.Errorf("role %q: %w", claims.Role, domain.ErrForbidden)
	}

	return claims.Subject, nil
}
