package video

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/trailtony/vidhub/internal/db"
	"github.com/trailtony/vidhub/internal/logger"
	"github.com/trailtony/vidhub/internal/validation"
)

const (
	thumbnailMarker = "data:image"
	thumbnailSuffix = "_thumb.jpg"
)

var errMalformedThumbnail = errors.New("malformed thumbnail data uri")

// Ingest uploads the validated submission to the media store and creates one
// video record owned by owner.
//
// The primary upload is the only remote step that can fail the call. The
// thumbnail is best-effort: any decode or upload failure is logged and the
// record is created with an empty thumbnail URL. Calls are not idempotent;
// two identical submissions produce two records.
func (s *Service) Ingest(ctx context.Context, sub *validation.UploadSubmission, owner Owner) (*db.Video, error) {
	log := logger.FromContext(ctx).With(
		slog.String("owner_id", owner.UserID),
		slog.String("file_name", sub.VideoFilename),
		slog.Int64("size_bytes", sub.SizeBytes),
	)

	// 1. Основное видео
	uploadCtx, cancel := s.withUploadTimeout(ctx)
	primary, err := s.storage.UploadVideo(uploadCtx, sub.VideoData, sub.VideoFilename)
	cancel()
	if err == nil && (primary == nil || primary.FileID == "" || primary.URL == "") {
		err = errors.New("media store returned an empty upload result")
	}
	if err != nil {
		log.Error("video upload failed", slog.String("kind", PrimaryUploadFailed.String()), slog.Any("error", err))
		return nil, &IngestError{Kind: PrimaryUploadFailed, Err: err}
	}
	log = log.With(slog.String("file_id", primary.FileID))

	// 2. Превью, без влияния на результат
	thumbnailURL := s.uploadThumbnail(ctx, log, sub)

	// 3. Запись в БД
	now := s.now().UTC()
	video := &db.Video{
		VideoID:       uuid.New().String(),
		OwnerID:       owner.UserID,
		OwnerUsername: owner.Username,
		Title:         sub.Title,
		Description:   sub.Description,
		FileID:        primary.FileID,
		VideoURL:      primary.URL,
		ThumbnailURL:  thumbnailURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.db.CreateVideo(ctx, video); err != nil {
		log.Error("failed to create video record", slog.String("kind", PersistenceFailed.String()), slog.Any("error", err))
		s.cleanupOrphan(ctx, log, primary.FileID)
		return nil, &IngestError{Kind: PersistenceFailed, Err: err}
	}

	log.Info("video ingested", slog.String("video_id", video.VideoID), slog.Bool("has_thumbnail", thumbnailURL != ""))
	return video, nil
}

func (s *Service) uploadThumbnail(ctx context.Context, log *slog.Logger, sub *validation.UploadSubmission) string {
	if !strings.HasPrefix(sub.ThumbnailData, thumbnailMarker) {
		return ""
	}

	data, err := DecodeThumbnail(sub.ThumbnailData)
	if err != nil {
		log.Warn("thumbnail decode failed", slog.String("kind", ThumbnailUploadFailed.String()), slog.Any("error", err))
		return ""
	}

	uploadCtx, cancel := s.withUploadTimeout(ctx)
	defer cancel()

	result, err := s.storage.UploadThumbnail(uploadCtx, data, ThumbnailFilename(sub.VideoFilename))
	if err != nil {
		log.Warn("thumbnail upload failed", slog.String("kind", ThumbnailUploadFailed.String()), slog.Any("error", err))
		return ""
	}
	if result == nil {
		return ""
	}
	return result.URL
}

// cleanupOrphan удаляет загруженное видео, если запись не создалась (по флагу)
func (s *Service) cleanupOrphan(ctx context.Context, log *slog.Logger, fileID string) {
	if !s.cleanupOrphans {
		log.Warn("orphaned media object left in store")
		return
	}

	cleanupCtx, cancel := s.withUploadTimeout(context.WithoutCancel(ctx))
	defer cancel()

	if err := s.storage.DeleteObject(cleanupCtx, fileID); err != nil {
		log.Warn("failed to delete orphaned media object", slog.Any("error", err))
	}
}

func (s *Service) withUploadTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.uploadTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.uploadTimeout)
}

// DecodeThumbnail decodes the base64 payload of a data URI such as
// "data:image/png;base64,iVBOR...".
func DecodeThumbnail(dataURI string) ([]byte, error) {
	_, payload, ok := strings.Cut(dataURI, ",")
	if !ok || payload == "" {
		return nil, errMalformedThumbnail
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errMalformedThumbnail
	}
	return data, nil
}

// ThumbnailFilename возвращает имя превью: имя видео без расширения + "_thumb.jpg"
func ThumbnailFilename(videoFilename string) string {
	base := strings.TrimSuffix(videoFilename, path.Ext(videoFilename))
	if base == "" {
		base = "video"
	}
	return base + thumbnailSuffix
}
