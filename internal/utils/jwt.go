package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// TokenClaims is the payload carried by a session token.
type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SubjectID returns the token subject as a UUID.
func (c *TokenClaims) SubjectID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// GenerateToken creates a signed JWT bound to subject for ttl.
func GenerateToken(secret string, subject uuid.UUID, role string, ttl time.Duration) (string, error) {
	if subject == uuid.Nil {
		return "", errors.New("token subject is required")
	}

	now := time.Now()
	claims := &TokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns its claims.
func ParseToken(secret, tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	if _, err := claims.SubjectID(); err != nil {
		return nil, jwt.ErrTokenInvalidSubject
	}

	return claims, nil
}
