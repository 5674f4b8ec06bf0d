package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DBDriverYDB    = "ydb"
	DBDriverSQLite = "sqlite"
)

type Config struct {
	// HTTP configuration
	HTTPPort    string
	LogLevel    string
	MaxUploadMB int64
	AppURL      string

	// S3/Storage configuration
	S3Endpoint         string
	S3Region           string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	MediaBucket        string
	MediaPublicURL     string
	MediaVideoFolder   string
	MediaThumbFolder   string
	MediaUploadTimeout time.Duration

	// Удалять загруженное видео, если запись в БД не создалась
	MediaCleanupOrphans bool

	// Database configuration
	DBDriver            string
	YDBEndpoint         string
	YDBDatabasePath     string
	YDBAutoCreateTables int
	SQLitePath          string

	// Telegram configuration
	TelegramBotToken    string
	TelegramAdminChatID string

	// JWT configuration
	JWTSecretKey string

	// Email/Postbox configuration
	SESEndpoint        string
	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
	EmailFrom          string
}

func Load() *Config {
	// S3/Storage configuration
	s3Endpoint := getEnv("S3_ENDPOINT", "https://storage.yandexcloud.net")
	// An empty value overrides the default, fall back explicitly.
	if s3Endpoint == "" {
		s3Endpoint = "https://storage.yandexcloud.net"
	}
	if !strings.HasPrefix(s3Endpoint, "http://") && !strings.HasPrefix(s3Endpoint, "https://") {
		s3Endpoint = "https://" + s3Endpoint
		log.Printf("WARN: S3_ENDPOINT was missing a protocol scheme. Prepending 'https://'. New endpoint: %s", s3Endpoint)
	}

	return &Config{
		// HTTP configuration
		HTTPPort:    getEnv("VH_HTTP_PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MaxUploadMB: int64(getEnvInt("VH_MAX_UPLOAD_MB", 100, 1, 1024)),
		AppURL:      getEnv("VH_APP_URL", "http://localhost:8080"),

		// S3/Storage configuration
		S3Endpoint:          s3Endpoint,
		S3Region:            getEnv("S3_REGION", "ru-central1"),
		AWSAccessKeyID:      getEnv("VH_SA_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("VH_SA_KEY", ""),
		MediaBucket:         getEnv("VH_MEDIA_BUCKET", "vidhub-media"),
		MediaPublicURL:      getEnv("VH_MEDIA_PUBLIC_URL", ""),
		MediaVideoFolder:    getEnv("VH_MEDIA_VIDEO_FOLDER", "videos"),
		MediaThumbFolder:    getEnv("VH_MEDIA_THUMB_FOLDER", "thumbnails"),
		MediaUploadTimeout:  time.Duration(getEnvInt("VH_MEDIA_UPLOAD_TIMEOUT_SEC", 120, 1, 3600)) * time.Second,
		MediaCleanupOrphans: getEnvAsBool("MEDIA_CLEANUP_ORPHANS", false),

		// Database configuration
		DBDriver:            strings.ToLower(getEnv("VH_DB_DRIVER", DBDriverYDB)),
		YDBEndpoint:         getEnv("VH_YDB_ENDPOINT", ""),
		YDBDatabasePath:     getEnv("VH_YDB_DATABASE_PATH", ""),
		YDBAutoCreateTables: getEnvInt("VH_YDB_AUTO_CREATE_TABLES", 0, 0, 1),
		SQLitePath:          getEnv("VH_SQLITE_PATH", "vidhub.db"),

		// Telegram configuration
		TelegramBotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAdminChatID: getEnv("TELEGRAM_CHAT_ID", ""),

		// JWT configuration
		JWTSecretKey: getEnv("VH_JWT_SECRET_KEY", ""),

		// Email/Postbox configuration
		SESEndpoint:        getEnv("VH_POSTBOX_ENDPOINT", ""),
		SESRegion:          getEnv("VH_POSTBOX_REGION", ""),
		SESAccessKeyID:     getEnv("VH_POSTBOX_ACCESS_KEY_ID", ""),
		SESSecretAccessKey: getEnv("VH_POSTBOX_SECRET_ACCESS_KEY", ""),
		EmailFrom:          getEnv("VH_EMAIL_FROM", ""),
	}
}

// Validate reports the first required setting that is missing.
func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return fmt.Errorf("VH_JWT_SECRET_KEY is not set")
	}
	if c.AWSAccessKeyID == "" || c.AWSSecretAccessKey == "" {
		return fmt.Errorf("VH_SA_KEY_ID and VH_SA_KEY must be set")
	}
	if c.MediaBucket == "" {
		return fmt.Errorf("VH_MEDIA_BUCKET is not set")
	}
	switch c.DBDriver {
	case DBDriverYDB:
		if c.YDBEndpoint == "" || c.YDBDatabasePath == "" {
			return fmt.Errorf("VH_YDB_ENDPOINT and VH_YDB_DATABASE_PATH must be set for the ydb driver")
		}
	case DBDriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("VH_SQLITE_PATH is not set")
		}
	default:
		return fmt.Errorf("unknown VH_DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// MaxUploadBytes is the per-request body limit for the upload form.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, fallback, min, max int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			if n < min {
				return min
			}
			if n > max {
				return max
			}
			return n
		}
		log.Printf("WARN: %s=%q is not an integer, using default %d", key, v, fallback)
	}

	if fallback < min {
		return min
	}
	if fallback > max {
		return max
	}
	return fallback
}
