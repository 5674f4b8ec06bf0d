package video

import (
	"context"
	"fmt"
	"time"

	"github.com/trailtony/vidhub/internal/config"
	"github.com/trailtony/vidhub/internal/db"
	"github.com/trailtony/vidhub/internal/storage"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Owner is the authenticated identity an upload is attributed to.
type Owner struct {
	UserID   string
	Username string
}

type Service struct {
	db             db.Database
	storage        storage.MediaStore
	uploadTimeout  time.Duration
	cleanupOrphans bool
	now            func() time.Time
}

func NewService(database db.Database, store storage.MediaStore, cfg *config.Config) *Service {
	return &Service{
		db:             database,
		storage:        store,
		uploadTimeout:  cfg.MediaUploadTimeout,
		cleanupOrphans: cfg.MediaCleanupOrphans,
		now:            time.Now,
	}
}

// VideoPage represents one page of a video listing
type VideoPage struct {
	Videos     []*db.Video `json:"videos"`
	TotalCount int64       `json:"total_count"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
}

// ListVideos возвращает все видео, новые первыми
func (s *Service) ListVideos(ctx context.Context, limit, offset int) (*VideoPage, error) {
	limit, offset = normalizePage(limit, offset)

	videos, total, err := s.db.ListVideos(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	return &VideoPage{Videos: nonNil(videos), TotalCount: total, Limit: limit, Offset: offset}, nil
}

// GetVideo возвращает видео по ID
func (s *Service) GetVideo(ctx context.Context, videoID string) (*db.Video, error) {
	return s.db.GetVideo(ctx, videoID)
}

// ChannelVideos returns the videos uploaded by username, newest first.
func (s *Service) ChannelVideos(ctx context.Context, username string, limit, offset int) (*db.User, *VideoPage, error) {
	user, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	limit, offset = normalizePage(limit, offset)
	videos, total, err := s.db.ListVideosByOwner(ctx, user.UserID, limit, offset)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list channel videos: %w", err)
	}

	return user, &VideoPage{Videos: nonNil(videos), TotalCount: total, Limit: limit, Offset: offset}, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func nonNil(videos []*db.Video) []*db.Video {
	if videos == nil {
		return []*db.Video{}
	}
	return videos
}
