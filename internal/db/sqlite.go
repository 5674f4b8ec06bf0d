package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	app_errors "github.com/trailtony/vidhub/internal/errors"
)

// SQLiteClient is the single-node Database used for local development
// and tests.
type SQLiteClient struct {
	db *sql.DB
}

var _ Database = (*SQLiteClient)(nil)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS videos (
		video_id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		owner_username TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		file_id TEXT NOT NULL,
		video_url TEXT NOT NULL,
		thumbnail_url TEXT NOT NULL DEFAULT '',
		views INTEGER NOT NULL DEFAULT 0,
		likes INTEGER NOT NULL DEFAULT 0,
		dislikes INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS videos_owner_idx ON videos(owner_id, created_at);
	CREATE INDEX IF NOT EXISTS videos_created_idx ON videos(created_at);
`

const sqliteVideoColumns = `video_id, owner_id, owner_username, title, description, file_id,
	video_url, thumbnail_url, views, likes, dislikes, created_at, updated_at`

func NewSQLiteClient(ctx context.Context, dbPath string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// sqlite допускает одного писателя; для :memory: это ещё и одна база
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

func (s *SQLiteClient) Close() error {
	return s.db.Close()
}

func (s *SQLiteClient) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteClient) CreateUser(ctx context.Context, user *User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, username, email, password_hash, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.UserID, user.Username, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
			return app_errors.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (s *SQLiteClient) GetUserByID(ctx context.Context, userID string) (*User, error) {
	return s.getUser(ctx, "user_id", userID)
}

func (s *SQLiteClient) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.getUser(ctx, "username", username)
}

func (s *SQLiteClient) getUser(ctx context.Context, column, value string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, email, password_hash, is_active, created_at, updated_at
		 FROM users WHERE `+column+` = ?`, value)

	var u User
	err := row.Scan(&u.UserID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, app_errors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLiteClient) CreateVideo(ctx context.Context, video *Video) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO videos (`+sqliteVideoColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		video.VideoID, video.OwnerID, video.OwnerUsername, video.Title, video.Description, video.FileID,
		video.VideoURL, video.ThumbnailURL, video.Views, video.Likes, video.Dislikes, video.CreatedAt, video.UpdatedAt,
	)
	return err
}

func (s *SQLiteClient) GetVideo(ctx context.Context, videoID string) (*Video, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteVideoColumns+` FROM videos WHERE video_id = ?`, videoID)

	v, err := scanVideoRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, app_errors.ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *SQLiteClient) ListVideos(ctx context.Context, limit, offset int) ([]*Video, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteVideoColumns+` FROM videos ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	videos, err := scanVideoRows(rows)
	return videos, total, err
}

func (s *SQLiteClient) ListVideosByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Video, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos WHERE owner_id = ?`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteVideoColumns+` FROM videos WHERE owner_id = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	videos, err := scanVideoRows(rows)
	return videos, total, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideoRow(row rowScanner) (*Video, error) {
	var v Video
	err := row.Scan(&v.VideoID, &v.OwnerID, &v.OwnerUsername, &v.Title, &v.Description, &v.FileID,
		&v.VideoURL, &v.ThumbnailURL, &v.Views, &v.Likes, &v.Dislikes, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanVideoRows(rows *sql.Rows) ([]*Video, error) {
	defer rows.Close()

	var videos []*Video
	for rows.Next() {
		v, err := scanVideoRow(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}
