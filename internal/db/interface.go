package db

import (
	"context"
)

// Database определяет интерфейс для работы с базой данных
type Database interface {
	// Пользователи
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// Видео
	CreateVideo(ctx context.Context, video *Video) error
	GetVideo(ctx context.Context, videoID string) (*Video, error)
	ListVideos(ctx context.Context, limit, offset int) ([]*Video, int64, error)
	ListVideosByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Video, int64, error)

	Ping(ctx context.Context) error
	Close() error
}
