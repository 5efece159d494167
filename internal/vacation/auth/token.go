// Package auth bridges the external identity provider: it issues and parses
// JWTs carrying the caller's id and role. The core trusts the resulting
// Identity and performs no further authentication.
package auth

import (
	"fmt"
	"time"

	"github.com/eltonsantos/vacationmanager/internal/vacation/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GenerateToken signs a token for the given identity.
func GenerateToken(identity models.Identity, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  identity.ID.String(),
		"role": string(identity.Role),
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseIdentity validates the token signature and extracts the caller
// identity from its claims.
func ParseIdentity(tokenString, secret string) (models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return models.Identity{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Identity{}, fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return models.Identity{}, fmt.Errorf("missing subject claim: %w", err)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return models.Identity{}, fmt.Errorf("invalid subject claim: %w", err)
	}

	roleClaim, _ := claims["role"].(string)
	role := models.Role(roleClaim)
	if !role.Valid() {
		return models.Identity{}, fmt.Errorf("invalid role claim: %q", roleClaim)
	}

	return models.Identity{ID: id, Role: role}, nil
}
