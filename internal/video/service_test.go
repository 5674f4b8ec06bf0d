package video

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trailtony/vidhub/internal/config"
	"github.com/trailtony/vidhub/internal/db"
	dbmocks "github.com/trailtony/vidhub/internal/db/mocks"
	app_errors "github.com/trailtony/vidhub/internal/errors"
	"github.com/trailtony/vidhub/internal/logger"
	"github.com/trailtony/vidhub/internal/storage"
	storagemocks "github.com/trailtony/vidhub/internal/storage/mocks"
	"github.com/trailtony/vidhub/internal/validation"
)

var testOwner = Owner{UserID: "user-1", Username: "alice"}

func setupVideoService(cfg *config.Config) (*Service, *dbmocks.Database, *storagemocks.MediaStore) {
	mockDB := new(dbmocks.Database)
	mockStorage := new(storagemocks.MediaStore)
	if cfg == nil {
		cfg = &config.Config{MediaUploadTimeout: 5 * time.Second}
	}

	service := NewService(mockDB, mockStorage, cfg)
	service.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return service, mockDB, mockStorage
}

func validSubmission(t *testing.T, thumbnail string) *validation.UploadSubmission {
	t.Helper()
	data := bytes.Repeat([]byte{0x42}, 10*1024*1024) // 10 MB
	sub, err := validation.ValidateUpload(validation.UploadForm{
		Title:         "My Trip",
		Description:   "",
		ThumbnailData: thumbnail,
		VideoFile: &validation.FileInput{
			Filename:    "trip.mp4",
			ContentType: "video/mp4",
			Size:        int64(len(data)),
			Data:        data,
		},
	})
	require.NoError(t, err)
	return sub
}

func primaryResult() *storage.UploadResult {
	return &storage.UploadResult{FileID: "videos/abc/trip.mp4", URL: "https://media.example.com/videos/abc/trip.mp4"}
}

func TestService_Ingest_NoThumbnail(t *testing.T) {
	service, mockDB, mockStorage := setupVideoService(nil)
	ctx := context.Background()
	sub := validSubmission(t, "")

	mockStorage.On("UploadVideo", mock.Anything, sub.VideoData, "trip.mp4").Return(primaryResult(), nil).Once()
	mockDB.On("CreateVideo", mock.Anything, mock.MatchedBy(func(v *db.Video) bool {
		return v.OwnerID == "user-1" && v.OwnerUsername == "alice" && v.Title == "My Trip" &&
			v.FileID == "videos/abc/trip.mp4" && v.ThumbnailURL == "" && v.Views == 0
	})).Return(nil).Once()

	video, err := service.Ingest(ctx, sub, testOwner)

	require.NoError(t, err)
	assert.NotEmpty(t, video.VideoID)
	assert.Equal(t, "https://media.example.com/videos/abc/trip.mp4", video.VideoURL)
	assert.Empty(t, video.ThumbnailURL)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), video.CreatedAt)

	mockStorage.AssertNotCalled(t, "UploadThumbnail", mock.Anything, mock.Anything, mock.Anything)
	mockDB.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestService_Ingest_WithThumbnail(t *testing.T) {
	service, mockDB, mockStorage := setupVideoService(nil)
	ctx := context.Background()
	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0}
	sub := validSubmission(t, "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(jpeg))

	mockStorage.On("UploadVideo", mock.Anything, mock.Anything, "trip.mp4").Return(primaryResult(), nil).Once()
	mockStorage.On("UploadThumbnail", mock.Anything, jpeg, "trip_thumb.jpg").
		Return(&storage.UploadResult{FileID: "thumbnails/abc/trip_thumb.jpg", URL: "https://media.example.com/thumbnails/abc/trip_thumb.jpg"}, nil).Once()
	mockDB.On("CreateVideo", mock.Anything, mock.MatchedBy(func(v *db.Video) bool {
		return v.ThumbnailURL == "https://media.example.com/thumbnails/abc/trip_thumb.jpg"
	})).Return(nil).Once()

	video, err := service.Ingest(ctx, sub, testOwner)

	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/thumbnails/abc/trip_thumb.jpg", video.ThumbnailURL)
	mockDB.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestService_Ingest_PrimaryUploadFails(t *testing.T) {
	service, mockDB, mockStorage := setupVideoService(nil)
	ctx := context.Background()
	sub := validSubmission(t, "data:image/jpeg;base64,/9j/4A==")

	uploadErr := errors.New("connection reset by peer")
	mockStorage.On("UploadVideo", mock.Anything, mock.Anything, "trip.mp4").Return(nil, uploadErr).Once()

	video, err := service.Ingest(ctx, sub, testOwner)

	assert.Nil(t, video)
	var ingestErr *IngestError
	require.True(t, errors.As(err, &ingestErr))
	assert.Equal(t, PrimaryUploadFailed, ingestErr.Kind)
	assert.ErrorIs(t, err, uploadErr)

	// Ни превью, ни записи в БД
	mockStorage.AssertNotCalled(t, "UploadThumbnail", mock.Anything, mock.Anything, mock.Anything)
	mockDB.AssertNotCalled(t, "CreateVideo", mock.Anything, mock.Anything)
	mockStorage.AssertNumberOfCalls(t, "UploadVideo", 1)
}

func TestService_Ingest_PrimaryUploadEmptyResult(t *testing.T) {
	service, mockDB, mockStorage := setupVideoService(nil)
	sub := validSubmission(t, "")

	mockStorage.On("UploadVideo", mock.Anything, mock.Anything, mock.Anything).Return(&storage.UploadResult{FileID: "x"}, nil).Once()

	_, err := service.Ingest(context.Background(), sub, testOwner)

	var ingestErr *IngestError
	require.True(t, errors.As(err, &ingestErr))
	assert.Equal(t, PrimaryUploadFailed, ingestErr.Kind)
	mockDB.AssertNotCalled(t, "CreateVideo", mock.Anything, mock.Anything)
}

func TestService_Ingest_PrimaryUploadTimeout(t *testing.T) {
	service, mockDB, mockStorage := setupVideoService(&config.Config{MediaUploadTimeout: 10 * time.Millisecond})
	sub := validSubmission(t, "")

	mockStorage.On("UploadVideo", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded).Once()

	_, err := service.Ingest(context.Background(), sub, testOwner)

	var ingestErr *IngestError
	require.True(t, errors.As(err, &ingestErr))
	assert.Equal(t, PrimaryUploadFailed, ingestErr.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	mockDB.AssertNotCalled(t, "CreateVideo", mock.Anything, mock.Anything)
}

func TestService_Ingest_ThumbnailUploadFailsIsSwallowed(t *testing.T) {
	service, mockDB, mockStorage := setupVideoService(nil)
	var buf bytes.Buffer
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(&buf, nil, "debug"))
	sub := validSubmission(t, "data:image/png;base64,iVBORw0KGgo=")

	mockStorage.On("UploadVideo", mock.Anything, mock.Anything, mock.Anything).Return(primaryResult(), nil).Once()
	mockStorage.On("UploadThumbnail", mock.Anything, mock.Anything, "trip_thumb.jpg").Return(nil, errors.New("403 forbidden")).Once()
	mockDB.On("CreateVideo", mock.Anything, mock.MatchedBy(func(v *db.Video) bool {
		return v.ThumbnailURL == "" && v.VideoURL != ""
	})).Return(nil).Once()

	video, err := service.Ingest(ctx, sub, testOwner)

	require.NoError(t, err)
	assert.Empty(t, video.ThumbnailURL)
	assert.Contains(t, buf.String(), "thumbnail upload failed")
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	mockDB.AssertNumberOfCalls(t, "CreateVideo", 1)
	mockStorage.AssertExpectations(t)
}

func TestService_Ingest_MalformedThumbnail(t *testing.T) {
	service, mockDB, mockStorage := setupVideoService(nil)
	sub := validSubmission(t, "data:image/jpeg;base64,!!!not-base64!!!")

	mockStorage.On("UploadVideo", mock.Anything, mock.Anything, mock.Anything).Return(primaryResult(), nil).Once()
	mockDB.On("CreateVideo", mock.Anything, mock.Anything).Return(nil).Once()

	video, err := service.Ingest(context.Background(), sub, testOwner)

	require.NoError(t, err)
	assert.Empty(t, video.ThumbnailURL)
	mockStorage.AssertNotCalled(t, "UploadThumbnail", mock.Anything, mock.Anything, mock.Anything)
	mockDB.AssertNumberOfCalls(t, "CreateVideo", 1)
}

func TestService_Ingest_NonImageThumbnailIgnored(t *testing.T) {
	tests := []string{
		"https://example.com/thumb.jpg",
		"data:text/plain;base64,aGVsbG8=",
		"   ",
	}

	for _, thumb := range tests {
		t.Run(thumb, func(t *testing.T) {
			service, mockDB, mockStorage := setupVideoService(nil)
			sub := validSubmission(t, thumb)

			mockStorage.On("UploadVideo", mock.Anything, mock.Anything, mock.Anything).Return(primaryResult(), nil).Once()
			mockDB.On("CreateVideo", mock.Anything, mock.Anything).Return(nil).Once()

			video, err := service.Ingest(context.Background(), sub, testOwner)

			require.NoError(t, err)
			assert.Empty(t, video.ThumbnailURL)
			mockStorage.AssertNotCalled(t, "UploadThumbnail", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_Ingest_NotIdempotent(t *testing.T) {
	service, mockDB, mockStorage := setupVideoService(nil)
	ctx := context.Background()
	sub := validSubmission(t, "")

	mockStorage.On("UploadVideo", mock.Anything, mock.Anything, mock.Anything).Return(primaryResult(), nil).Twice()
	mockDB.On("CreateVideo", mock.Anything, mock.Anything).Return(nil).Twice()

	first, err := service.Ingest(ctx, sub, testOwner)
	require.NoError(t, err)
	second, err := service.Ingest(ctx, sub, testOwner)
	require.NoError(t, err)

	// Повторная загрузка создает вторую запись, дедупликации нет
	assert.NotEqual(t, first.VideoID, second.VideoID)
	mockDB.AssertNumberOfCalls(t, "CreateVideo", 2)
	mockStorage.AssertNumberOfCalls(t, "UploadVideo", 2)
}

func TestService_Ingest_PersistenceFails(t *testing.T) {
	service, mockDB, mockStorage := setupVideoService(nil)
	sub := validSubmission(t, "")

	mockStorage.On("UploadVideo", mock.Anything, mock.Anything, mock.Anything).Return(primaryResult(), nil).Once()
	mockDB.On("CreateVideo", mock.Anything, mock.Anything).Return(errors.New("transaction locks invalidated")).Once()

	video, err := service.Ingest(context.Background(), sub, testOwner)

	assert.Nil(t, video)
	var ingestErr *IngestError
	require.True(t, errors.As(err, &ingestErr))
	assert.Equal(t, PersistenceFailed, ingestErr.Kind)
	// По умолчанию объект остается в хранилище
	mockStorage.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
}

func TestService_Ingest_PersistenceFailsWithCleanup(t *testing.T) {
	service, mockDB, mockStorage := setupVideoService(&config.Config{
		MediaUploadTimeout:  time.Second,
		MediaCleanupOrphans: true,
	})
	sub := validSubmission(t, "")

	mockStorage.On("UploadVideo", mock.Anything, mock.Anything, mock.Anything).Return(primaryResult(), nil).Once()
	mockDB.On("CreateVideo", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
	mockStorage.On("DeleteObject", mock.Anything, "videos/abc/trip.mp4").Return(errors.New("still down")).Once()

	_, err := service.Ingest(context.Background(), sub, testOwner)

	var ingestErr *IngestError
	require.True(t, errors.As(err, &ingestErr))
	assert.Equal(t, PersistenceFailed, ingestErr.Kind)
	mockStorage.AssertExpectations(t)
}

func TestThumbnailFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"trip.mp4", "trip_thumb.jpg"},
		{"my.holiday.mov", "my.holiday_thumb.jpg"},
		{"noext", "noext_thumb.jpg"},
		{"cover.jpg", "cover_thumb.jpg"},
		{".mp4", "video_thumb.jpg"},
	}

	for _, tt := range tests {
		got := ThumbnailFilename(tt.input)
		assert.Equal(t, tt.expected, got)
		assert.NotEqual(t, tt.input, got)
	}
}

func TestDecodeThumbnail(t *testing.T) {
	data, err := DecodeThumbnail("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png")))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	_, err = DecodeThumbnail("data:image/png;base64")
	assert.Error(t, err)

	_, err = DecodeThumbnail("data:image/png;base64,")
	assert.Error(t, err)

	_, err = DecodeThumbnail("data:image/png;base64,%%%")
	assert.Error(t, err)
}

func TestService_ListVideos(t *testing.T) {
	service, mockDB, _ := setupVideoService(nil)
	ctx := context.Background()

	videos := []*db.Video{{VideoID: "v2"}, {VideoID: "v1"}}
	mockDB.On("ListVideos", ctx, DefaultPageSize, 0).Return(videos, int64(2), nil).Once()
	mockDB.On("ListVideos", ctx, MaxPageSize, 0).Return(nil, int64(0), nil).Once()

	page, err := service.ListVideos(ctx, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
	assert.Equal(t, "v2", page.Videos[0].VideoID)

	page, err = service.ListVideos(ctx, 1000, 0)
	require.NoError(t, err)
	assert.NotNil(t, page.Videos)
	assert.Empty(t, page.Videos)

	mockDB.AssertExpectations(t)
}

func TestService_ChannelVideos(t *testing.T) {
	service, mockDB, _ := setupVideoService(nil)
	ctx := context.Background()

	mockDB.On("GetUserByUsername", ctx, "alice").Return(&db.User{UserID: "user-1", Username: "alice"}, nil).Once()
	mockDB.On("ListVideosByOwner", ctx, "user-1", 10, 0).Return([]*db.Video{{VideoID: "v1", OwnerID: "user-1"}}, int64(1), nil).Once()
	mockDB.On("GetUserByUsername", ctx, "ghost").Return(nil, app_errors.ErrUserNotFound).Once()

	user, page, err := service.ChannelVideos(ctx, "alice", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Len(t, page.Videos, 1)

	_, _, err = service.ChannelVideos(ctx, "ghost", 10, 0)
	assert.ErrorIs(t, err, app_errors.ErrUserNotFound)

	mockDB.AssertExpectations(t)
}
