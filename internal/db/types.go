package db

import (
	"time"
)

// User представляет зарегистрированного пользователя
type User struct {
	UserID       string    `db:"user_id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Video is the local record of an uploaded video. FileID and VideoURL
// reference the object in the media store; ThumbnailURL is empty when no
// thumbnail was stored.
type Video struct {
	VideoID       string    `db:"video_id"`
	OwnerID       string    `db:"owner_id"`
	OwnerUsername string    `db:"owner_username"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	FileID        string    `db:"file_id"`
	VideoURL      string    `db:"video_url"`
	ThumbnailURL  string    `db:"thumbnail_url"`
	Views         int64     `db:"views"`
	Likes         int64     `db:"likes"`
	Dislikes      int64     `db:"dislikes"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
