package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	app_errors "github.com/trailtony/vidhub/internal/errors"
)

func setupSQLite(t *testing.T) *SQLiteClient {
	t.Helper()
	client, err := NewSQLiteClient(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func createTestUser(t *testing.T, client *SQLiteClient, id, username string) *User {
	t.Helper()
	now := time.Now().UTC()
	user := &User{
		UserID:       id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, client.CreateUser(context.Background(), user))
	return user
}

func newTestVideo(id, ownerID string, createdAt time.Time) *Video {
	return &Video{
		VideoID:       id,
		OwnerID:       ownerID,
		OwnerUsername: "alice",
		Title:         "Title " + id,
		FileID:        "file-" + id,
		VideoURL:      "https://media.example.com/videos/" + id + ".mp4",
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestSQLite_UserRoundTrip(t *testing.T) {
	client := setupSQLite(t)
	ctx := context.Background()
	createTestUser(t, client, "user-1", "alice")

	byName, err := client.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byName.UserID)
	assert.True(t, byName.IsActive)

	byID, err := client.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = client.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, app_errors.ErrUserNotFound)
}

func TestSQLite_CreateUserKeepsTimestamps(t *testing.T) {
	client := setupSQLite(t)
	ctx := context.Background()

	created := time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, client.CreateUser(ctx, &User{
		UserID:       "user-1",
		Username:     "alice",
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    created,
		UpdatedAt:    created,
	}))

	got, err := client.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.True(t, created.Equal(got.UpdatedAt))
}

func TestSQLite_DuplicateUsername(t *testing.T) {
	client := setupSQLite(t)
	createTestUser(t, client, "user-1", "alice")

	now := time.Now().UTC()
	err := client.CreateUser(context.Background(), &User{
		UserID:       "user-2",
		Username:     "alice",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	assert.ErrorIs(t, err, app_errors.ErrUserAlreadyExists)
}

func TestSQLite_VideoCreateAndGet(t *testing.T) {
	client := setupSQLite(t)
	ctx := context.Background()
	createTestUser(t, client, "user-1", "alice")

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	v := newTestVideo("video-1", "user-1", created)
	v.Description = "A trip"
	v.ThumbnailURL = "https://media.example.com/thumbnails/trip_thumb.jpg"
	require.NoError(t, client.CreateVideo(ctx, v))

	got, err := client.GetVideo(ctx, "video-1")
	require.NoError(t, err)
	assert.Equal(t, "A trip", got.Description)
	assert.Equal(t, v.ThumbnailURL, got.ThumbnailURL)
	assert.Equal(t, v.VideoURL, got.VideoURL)
	assert.Zero(t, got.Views)
	assert.True(t, created.Equal(got.CreatedAt))

	_, err = client.GetVideo(ctx, "missing")
	assert.ErrorIs(t, err, app_errors.ErrVideoNotFound)
}

func TestSQLite_CreateVideoDoesNotOverwrite(t *testing.T) {
	client := setupSQLite(t)
	ctx := context.Background()
	createTestUser(t, client, "user-1", "alice")

	now := time.Now().UTC()
	require.NoError(t, client.CreateVideo(ctx, newTestVideo("video-1", "user-1", now)))
	assert.Error(t, client.CreateVideo(ctx, newTestVideo("video-1", "user-1", now)))
}

func TestSQLite_ListVideosNewestFirst(t *testing.T) {
	client := setupSQLite(t)
	ctx := context.Background()
	createTestUser(t, client, "user-1", "alice")
	createTestUser(t, client, "user-2", "bob")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, client.CreateVideo(ctx, newTestVideo("v1", "user-1", base)))
	require.NoError(t, client.CreateVideo(ctx, newTestVideo("v2", "user-2", base.Add(time.Hour))))
	require.NoError(t, client.CreateVideo(ctx, newTestVideo("v3", "user-1", base.Add(2*time.Hour))))

	videos, total, err := client.ListVideos(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, videos, 3)
	assert.Equal(t, []string{"v3", "v2", "v1"}, []string{videos[0].VideoID, videos[1].VideoID, videos[2].VideoID})

	page, total, err := client.ListVideos(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "v2", page[0].VideoID)

	owned, total, err := client.ListVideosByOwner(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, owned, 2)
	assert.Equal(t, "v3", owned[0].VideoID)
	assert.Equal(t, "v1", owned[1].VideoID)
}
