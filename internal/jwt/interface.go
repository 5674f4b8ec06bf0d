package jwt

import "time"

type TokenManager interface {
	GenerateAccessToken(userID, username string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	GetTokenExpiry() time.Duration
}
