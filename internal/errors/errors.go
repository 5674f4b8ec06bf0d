package errors

import "errors"

// Инфраструктура
var (
	ErrFailedToConnectDB         = errors.New("failed to connect to database")
	ErrJWTSecretKeyNotConfigured = errors.New("jwt secret key is not configured")
	ErrFailedToInitStorageClient = errors.New("failed to initialize storage client")
	ErrStorageNotConfigured      = errors.New("storage credentials and bucket name must be set")
)

// JWT
var (
	ErrFailedToGenerateAccessToken = errors.New("failed to generate access token")
	ErrUnexpectedSigningMethod     = errors.New("unexpected signing method")
	ErrFailedToParseToken          = errors.New("failed to parse token")
	ErrInvalidToken                = errors.New("invalid token")
	ErrAuthHeaderEmpty             = errors.New("authorization header is empty")
	ErrAuthHeaderWrongFormat       = errors.New("authorization header format must be Bearer {token}")
)

// Пользователи
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDeactivated    = errors.New("user account is deactivated")
)

// Видео
var (
	ErrVideoNotFound  = errors.New("video not found")
	ErrObjectKeyEmpty = errors.New("object key is required")
	ErrEmptyPayload   = errors.New("upload payload is empty")
)
