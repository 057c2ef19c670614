// Package authUtils mints the session tokens consumed by the auth
// middleware.
package authUtils

import (
	"errors"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const tokenTTL = 72 * time.Hour

// GenerateAndSetToken mints an HS256 session token carrying the user ID.
func GenerateAndSetToken(userID string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET environment variable is not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})

	return token.SignedString([]byte(secret))
}
