// Package auth issues and parses the HS256 access tokens carried on API
// requests.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/signdesk/signdesk/internal/common"
	"github.com/signdesk/signdesk/internal/models"
)

// Claims extends the registered claims with the principal identity needed by
// the access filter and the document store.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func GenerateToken(p models.Principal, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: p.ID,
		Email:  p.Email,
		Role:   p.Role,
	})

	return token.SignedString(secretKey)
}

// PrincipalFromToken validates the token and reconstructs the principal.
func PrincipalFromToken(tokenString string, secretKey []byte) (models.Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrorInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return models.Principal{}, err
	}

	if !token.Valid {
		return models.Principal{}, common.ErrorInvalidToken
	}

	return models.Principal{ID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}

// ExpiresAt returns the token expiry without re-validating the signature.
// Used to size the blacklist TTL on logout.
func ExpiresAt(tokenString string, secretKey []byte) (time.Time, error) {
	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, common.ErrorInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}

// HashToken derives the blacklist key for a token. Raw tokens never reach
// Redis.
func HashToken(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}
