package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the authenticated salesman's identity inside a token
type Claims struct {
	UID       string `json:"uid"`
	ManagerID string `json:"manager_id"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates access tokens
type JWTManager struct {
	secret     []byte
	issuer     string
	expiration time.Duration
}

// NewJWTManager creates a token manager
func NewJWTManager(secret, issuer string, expiration time.Duration) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		issuer:     issuer,
		expiration: expiration,
	}
}

// Generate issues a signed token for the given salesman
func (m *JWTManager) Generate(uid, managerID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:       uid,
		ManagerID: managerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token, returning its claims
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.UID == "" {
		return nil, fmt.Errorf("token missing uid claim")
	}
	return claims, nil
}
