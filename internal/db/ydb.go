package db

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/trailtony/vidhub/internal/config"
	app_errors "github.com/trailtony/vidhub/internal/errors"
	"github.com/ydb-platform/ydb-go-sdk/v3"
	"github.com/ydb-platform/ydb-go-sdk/v3/table"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result/named"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/types"
	yc "github.com/ydb-platform/ydb-go-yc"
)

// YDBClient реализация интерфейса Database
type YDBClient struct {
	driver       *ydb.Driver
	databasePath string
}

var _ Database = (*YDBClient)(nil)

const videoColumns = `video_id, owner_id, owner_username, title, description, file_id,
		       video_url, thumbnail_url, views, likes, dislikes, created_at, updated_at`

// NewYDBClient создает новый клиент YDB
func NewYDBClient(ctx context.Context, cfg *config.Config) (*YDBClient, error) {
	endpoint := cfg.YDBEndpoint
	database := cfg.YDBDatabasePath

	if endpoint == "" || database == "" {
		return nil, fmt.Errorf("YDB credentials not provided. Please set VH_YDB_ENDPOINT and VH_YDB_DATABASE_PATH environment variables")
	}

	driver, err := ydb.Open(ctx, endpoint,
		ydb.WithDatabase(database),
		yc.WithMetadataCredentials(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to YDB: %w", err)
	}

	slog.Info("Successfully connected to YDB", "database", database)

	client := &YDBClient{
		driver:       driver,
		databasePath: database,
	}

	// Создаём таблицы только если флаг установлен
	if cfg.YDBAutoCreateTables > 0 {
		slog.Info("VH_YDB_AUTO_CREATE_TABLES is enabled, checking and creating tables")
		if err := client.createTables(ctx); err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return client, nil
}

// Close закрывает соединение с базой данных
func (c *YDBClient) Close() error {
	if c.driver != nil {
		return c.driver.Close(context.Background())
	}
	return nil
}

func (c *YDBClient) Ping(ctx context.Context) error {
	return c.executeQuery(ctx, "SELECT 1")
}

// createTables создает таблицы в базе данных
func (c *YDBClient) createTables(ctx context.Context) error {
	tables := []struct {
		name string
		ddl  string
	}{
		{
			name: "users",
			ddl: `
				CREATE TABLE users (
					user_id Text NOT NULL,
					username Text NOT NULL,
					email Text,
					password_hash Text,
					is_active Bool,
					created_at Timestamp,
					updated_at Timestamp,
					PRIMARY KEY (user_id),
					INDEX username_idx GLOBAL UNIQUE ON (username) COVER (email, password_hash, is_active)
				)
			`,
		},
		{
			name: "videos",
			ddl: `
				CREATE TABLE videos (
					video_id Text NOT NULL,
					owner_id Text NOT NULL,
					owner_username Text,
					title Text,
					description Text,
					file_id Text,
					video_url Text,
					thumbnail_url Text,
					views Int64,
					likes Int64,
					dislikes Int64,
					created_at Timestamp,
					updated_at Timestamp,
					PRIMARY KEY (video_id),
					INDEX owner_idx GLOBAL ON (owner_id)
				)
			`,
		},
	}

	for i, t := range tables {
		exists, err := c.tableExists(ctx, t.name)
		if err != nil {
			return fmt.Errorf("failed to check %s table existence: %w", t.name, err)
		}
		if exists {
			slog.Info("Table already exists, skipping creation", "table", t.name)
			continue
		}
		slog.Info("Creating table", "table", t.name)
		if err := c.executeSchemeQuery(ctx, t.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}
		// Небольшая задержка между созданием таблиц для избежания лимита schema operations
		if i < len(tables)-1 {
			time.Sleep(500 * time.Millisecond)
		}
	}

	return nil
}

// tableExists checks if a table exists in the database
func (c *YDBClient) tableExists(ctx context.Context, tableName string) (bool, error) {
	fullPath := path.Join(c.databasePath, tableName)
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, err := session.DescribeTable(ctx, fullPath)
		return err
	})

	if err != nil {
		// YDB returns SchemeError with "Path not found" usually
		msg := err.Error()
		if strings.Contains(msg, "not found") ||
			strings.Contains(msg, "does not exist") ||
			strings.Contains(msg, "code = 400070") {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// executeSchemeQuery выполняет DDL запрос
func (c *YDBClient) executeSchemeQuery(ctx context.Context, query string) error {
	return c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		return session.ExecuteSchemeQuery(ctx, query)
	})
}

// executeQuery выполняет запрос без параметров
func (c *YDBClient) executeQuery(ctx context.Context, query string) error {
	return c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, _, err := session.Execute(ctx, table.DefaultTxControl(), query, table.NewQueryParameters())
		return err
	})
}

func isConflict(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "PRECONDITION_FAILED") ||
		strings.Contains(msg, "Conflict with existing key") ||
		strings.Contains(msg, "Duplicate key")
}

// CreateUser создает нового пользователя
func (c *YDBClient) CreateUser(ctx context.Context, user *User) error {
	query := `
		DECLARE $user_id AS Text;
		DECLARE $username AS Text;
		DECLARE $email AS Text;
		DECLARE $password_hash AS Text;
		DECLARE $is_active AS Bool;
		DECLARE $created_at AS Timestamp;
		DECLARE $updated_at AS Timestamp;

		INSERT INTO users (
			user_id, username, email, password_hash, is_active, created_at, updated_at
		) VALUES ($user_id, $username, $email, $password_hash, $is_active, $created_at, $updated_at)
	`

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, _, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$user_id", types.TextValue(user.UserID)),
				table.ValueParam("$username", types.TextValue(user.Username)),
				table.ValueParam("$email", types.TextValue(user.Email)),
				table.ValueParam("$password_hash", types.TextValue(user.PasswordHash)),
				table.ValueParam("$is_active", types.BoolValue(user.IsActive)),
				table.ValueParam("$created_at", types.TimestampValueFromTime(user.CreatedAt)),
				table.ValueParam("$updated_at", types.TimestampValueFromTime(user.UpdatedAt)),
			),
		)
		return err
	})
	if err != nil && isConflict(err) {
		return app_errors.ErrUserAlreadyExists
	}
	return err
}

// GetUserByID получает пользователя по ID
func (c *YDBClient) GetUserByID(ctx context.Context, userID string) (*User, error) {
	query := `
		DECLARE $user_id AS Text;
		SELECT user_id, username, email, password_hash, is_active, created_at, updated_at
		FROM users WHERE user_id = $user_id
	`
	return c.getUser(ctx, query, table.ValueParam("$user_id", types.TextValue(userID)))
}

// GetUserByUsername получает пользователя по имени
func (c *YDBClient) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		DECLARE $username AS Text;
		SELECT user_id, username, email, password_hash, is_active, created_at, updated_at
		FROM users VIEW username_idx WHERE username = $username
	`
	return c.getUser(ctx, query, table.ValueParam("$username", types.TextValue(username)))
}

func (c *YDBClient) getUser(ctx context.Context, query string, params ...table.ParameterOption) (*User, error) {
	var u User
	var found bool

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query, table.NewQueryParameters(params...))
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			found = true
			err := res.ScanNamed(
				named.Required("user_id", &u.UserID),
				named.Required("username", &u.Username),
				named.OptionalWithDefault("email", &u.Email),
				named.OptionalWithDefault("password_hash", &u.PasswordHash),
				named.OptionalWithDefault("is_active", &u.IsActive),
				named.OptionalWithDefault("created_at", &u.CreatedAt),
				named.OptionalWithDefault("updated_at", &u.UpdatedAt),
			)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	if !found {
		return nil, app_errors.ErrUserNotFound
	}
	return &u, nil
}

// CreateVideo вставляет одну запись о видео; существующая запись не перезаписывается
func (c *YDBClient) CreateVideo(ctx context.Context, video *Video) error {
	query := `
		DECLARE $video_id AS Text;
		DECLARE $owner_id AS Text;
		DECLARE $owner_username AS Text;
		DECLARE $title AS Text;
		DECLARE $description AS Text;
		DECLARE $file_id AS Text;
		DECLARE $video_url AS Text;
		DECLARE $thumbnail_url AS Text;
		DECLARE $views AS Int64;
		DECLARE $likes AS Int64;
		DECLARE $dislikes AS Int64;
		DECLARE $created_at AS Timestamp;
		DECLARE $updated_at AS Timestamp;

		INSERT INTO videos (
			video_id, owner_id, owner_username, title, description, file_id,
			video_url, thumbnail_url, views, likes, dislikes, created_at, updated_at
		) VALUES ($video_id, $owner_id, $owner_username, $title, $description, $file_id,
			$video_url, $thumbnail_url, $views, $likes, $dislikes, $created_at, $updated_at)
	`

	return c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, _, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$video_id", types.TextValue(video.VideoID)),
				table.ValueParam("$owner_id", types.TextValue(video.OwnerID)),
				table.ValueParam("$owner_username", types.TextValue(video.OwnerUsername)),
				table.ValueParam("$title", types.TextValue(video.Title)),
				table.ValueParam("$description", types.TextValue(video.Description)),
				table.ValueParam("$file_id", types.TextValue(video.FileID)),
				table.ValueParam("$video_url", types.TextValue(video.VideoURL)),
				table.ValueParam("$thumbnail_url", types.TextValue(video.ThumbnailURL)),
				table.ValueParam("$views", types.Int64Value(video.Views)),
				table.ValueParam("$likes", types.Int64Value(video.Likes)),
				table.ValueParam("$dislikes", types.Int64Value(video.Dislikes)),
				table.ValueParam("$created_at", types.TimestampValueFromTime(video.CreatedAt)),
				table.ValueParam("$updated_at", types.TimestampValueFromTime(video.UpdatedAt)),
			),
		)
		return err
	})
}

// GetVideo получает видео по ID
func (c *YDBClient) GetVideo(ctx context.Context, videoID string) (*Video, error) {
	query := `
		DECLARE $video_id AS Text;
		SELECT ` + videoColumns + `
		FROM videos WHERE video_id = $video_id
	`

	var videos []*Video
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$video_id", types.TextValue(videoID)),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		videos, err = scanVideos(ctx, res)
		return err
	})

	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, app_errors.ErrVideoNotFound
	}
	return videos[0], nil
}

// ListVideos возвращает страницу видео, новые первыми
func (c *YDBClient) ListVideos(ctx context.Context, limit, offset int) ([]*Video, int64, error) {
	countQuery := `SELECT COUNT(*) AS total FROM videos`
	dataQuery := `
		DECLARE $limit AS Uint64;
		DECLARE $offset AS Uint64;
		SELECT ` + videoColumns + `
		FROM videos ORDER BY created_at DESC LIMIT $limit OFFSET $offset
	`
	return c.listVideos(ctx, countQuery, dataQuery, nil, limit, offset)
}

// ListVideosByOwner возвращает видео одного пользователя, новые первыми
func (c *YDBClient) ListVideosByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Video, int64, error) {
	countQuery := `
		DECLARE $owner_id AS Text;
		SELECT COUNT(*) AS total FROM videos VIEW owner_idx WHERE owner_id = $owner_id
	`
	dataQuery := `
		DECLARE $owner_id AS Text;
		DECLARE $limit AS Uint64;
		DECLARE $offset AS Uint64;
		SELECT ` + videoColumns + `
		FROM videos VIEW owner_idx WHERE owner_id = $owner_id
		ORDER BY created_at DESC LIMIT $limit OFFSET $offset
	`
	owner := []table.ParameterOption{table.ValueParam("$owner_id", types.TextValue(ownerID))}
	return c.listVideos(ctx, countQuery, dataQuery, owner, limit, offset)
}

func (c *YDBClient) listVideos(ctx context.Context, countQuery, dataQuery string, filter []table.ParameterOption, limit, offset int) ([]*Video, int64, error) {
	var total uint64

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), countQuery, table.NewQueryParameters(filter...))
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			if err := res.ScanNamed(named.Required("total", &total)); err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		return res.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	params := append([]table.ParameterOption{}, filter...)
	params = append(params,
		table.ValueParam("$limit", types.Uint64Value(uint64(limit))),
		table.ValueParam("$offset", types.Uint64Value(uint64(offset))),
	)

	var videos []*Video
	err = c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), dataQuery, table.NewQueryParameters(params...))
		if err != nil {
			return err
		}
		defer res.Close()

		videos, err = scanVideos(ctx, res)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return videos, int64(total), nil
}

func scanVideos(ctx context.Context, res result.Result) ([]*Video, error) {
	var videos []*Video
	for res.NextResultSet(ctx) {
		for res.NextRow() {
			var v Video
			if err := res.ScanNamed(
				named.Required("video_id", &v.VideoID),
				named.Required("owner_id", &v.OwnerID),
				named.OptionalWithDefault("owner_username", &v.OwnerUsername),
				named.OptionalWithDefault("title", &v.Title),
				named.OptionalWithDefault("description", &v.Description),
				named.OptionalWithDefault("file_id", &v.FileID),
				named.OptionalWithDefault("video_url", &v.VideoURL),
				named.OptionalWithDefault("thumbnail_url", &v.ThumbnailURL),
				named.OptionalWithDefault("views", &v.Views),
				named.OptionalWithDefault("likes", &v.Likes),
				named.OptionalWithDefault("dislikes", &v.Dislikes),
				named.OptionalWithDefault("created_at", &v.CreatedAt),
				named.OptionalWithDefault("updated_at", &v.UpdatedAt),
			); err != nil {
				return nil, fmt.Errorf("scan failed: %w", err)
			}
			videos = append(videos, &v)
		}
	}
	return videos, res.Err()
}
