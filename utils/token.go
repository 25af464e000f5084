package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DraftClaims identifies the wizard draft a browser is working on
type DraftClaims struct {
	DraftID string `json:"draft_id"`
	jwt.RegisteredClaims
}

// GenerateDraftToken signs a token for draftID valid for ttl
func GenerateDraftToken(secret, draftID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("session secret is not set")
	}
	now := time.Now()
	claims := DraftClaims{
		DraftID: draftID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateDraftToken parses and validates the token and returns its draft id
func ValidateDraftToken(secret, tokenString string) (string, error) {
	var claims DraftClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if claims.DraftID == "" {
		return "", errors.New("token has no draft id")
	}
	return claims.DraftID, nil
}
