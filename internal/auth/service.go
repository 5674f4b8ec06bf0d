package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/trailtony/vidhub/internal/db"
	"github.com/trailtony/vidhub/internal/email"
	app_errors "github.com/trailtony/vidhub/internal/errors"
	"github.com/trailtony/vidhub/internal/jwt"
	"github.com/trailtony/vidhub/internal/logger"
	"github.com/trailtony/vidhub/internal/validation"
)

// WelcomeMailer отправляет приветственное письмо после регистрации
type WelcomeMailer interface {
	IsConfigured() bool
	SendWelcomeEmail(ctx context.Context, toEmail, username string) (*email.EmailMessage, error)
}

// Service реализует бизнес-логику аутентификации
type Service struct {
	db         db.Database
	jwtManager jwt.TokenManager
	email      WelcomeMailer
}

// NewService создает новый auth сервис
func NewService(database db.Database, jwtManager jwt.TokenManager, mailer WelcomeMailer) *Service {
	return &Service{
		db:         database,
		jwtManager: jwtManager,
		email:      mailer,
	}
}

// RegisterRequest запрос на регистрацию
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse ответ на регистрацию
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Register регистрирует нового пользователя
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	username := strings.TrimSpace(req.Username)
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	if err := validation.ValidateRegistration(username, emailAddr, req.Password); err != nil {
		return nil, err
	}

	// Проверка, что username не занят
	existing, err := s.db.GetUserByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, app_errors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, app_errors.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	// Хеширование пароля
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &db.User{
		UserID:       uuid.New().String(),
		Username:     username,
		Email:        emailAddr,
		PasswordHash: string(passwordHash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Уникальность username проверяется ещё и на уровне БД
	if err := s.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, app_errors.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sendWelcome(ctx, user)

	return &RegisterResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Message:  "Registration successful.",
	}, nil
}

func (s *Service) sendWelcome(ctx context.Context, user *db.User) {
	if s.email == nil || !s.email.IsConfigured() {
		return
	}
	if _, err := s.email.SendWelcomeEmail(ctx, user.Email, user.Username); err != nil {
		// Логируем ошибку, но не прерываем регистрацию
		logger.FromContext(ctx).Warn("failed to send welcome email",
			slog.String("user_id", user.UserID),
			slog.String("email", user.Email),
			slog.Any("error", err),
		)
	}
}

// LoginRequest запрос на вход
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse ответ на вход
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   int64     `json:"expires_at"`
	User        *UserInfo `json:"user"`
}

// UserInfo информация о пользователе
type UserInfo struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
}

// Login выполняет вход пользователя
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validation.ValidateLogin(req.Username, req.Password); err != nil {
		return nil, err
	}

	user, err := s.db.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			return nil, app_errors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Проверка пароля
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, app_errors.ErrInvalidCredentials
	}

	// Проверка, что пользователь активен
	if !user.IsActive {
		return nil, app_errors.ErrUserDeactivated
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.UserID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(s.jwtManager.GetTokenExpiry()).Unix(),
		User:        userInfo(user),
	}, nil
}

// GetProfile возвращает профиль текущего пользователя
func (s *Service) GetProfile(ctx context.Context, userID string) (*UserInfo, error) {
	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, app_errors.ErrUserDeactivated
	}
	return userInfo(user), nil
}

func userInfo(u *db.User) *UserInfo {
	return &UserInfo{
		UserID:    u.UserID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Unix(),
	}
}
