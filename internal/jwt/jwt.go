package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/trailtony/vidhub/internal/config"
	app_errors "github.com/trailtony/vidhub/internal/errors"
)

// Claims представляет структуру claims в JWT токене
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTManager управляет JWT токенами
type JWTManager struct {
	secretKey    string
	accessExpiry time.Duration
}

var _ TokenManager = (*JWTManager)(nil)

// NewJWTManager создает новый JWT менеджер
func NewJWTManager(cfg *config.Config) *JWTManager {
	if cfg.JWTSecretKey == "" {
		return nil
	}
	return &JWTManager{
		secretKey:    cfg.JWTSecretKey,
		accessExpiry: time.Hour * 24, // 24 часа
	}
}

// GenerateAccessToken выпускает токен сессии для пользователя
func (j *JWTManager) GenerateAccessToken(userID, username string) (string, error) {
	token, err := j.generateToken(userID, username, j.accessExpiry)
	if err != nil {
		return "", app_errors.ErrFailedToGenerateAccessToken
	}
	return token, nil
}

func (j *JWTManager) generateToken(userID, username string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ValidateToken валидирует JWT токен и возвращает claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, app_errors.ErrUnexpectedSigningMethod
		}
		return []byte(j.secretKey), nil
	})

	if err != nil {
		return nil, app_errors.ErrFailedToParseToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, app_errors.ErrInvalidToken
	}

	return claims, nil
}

// GetTokenExpiry возвращает время жизни access токена
func (j *JWTManager) GetTokenExpiry() time.Duration {
	return j.accessExpiry
}

// ExtractTokenFromHeader извлекает токен из Authorization header
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", app_errors.ErrAuthHeaderEmpty
	}

	const bearerPrefix = "Bearer "
	if len(authHeader) < len(bearerPrefix) || authHeader[:len(bearerPrefix)] != bearerPrefix {
		return "", app_errors.ErrAuthHeaderWrongFormat
	}

	return authHeader[len(bearerPrefix):], nil
}
