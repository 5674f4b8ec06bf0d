package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/trailtony/vidhub/internal/config"
	app_errors "github.com/trailtony/vidhub/internal/errors"
)

// s3API is the subset of *s3.Client the media store needs.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Client обертка над S3 клиентом
type Client struct {
	s3Client    s3API
	bucket      string
	endpoint    string
	publicURL   string
	videoFolder string
	thumbFolder string
}

var _ MediaStore = (*Client)(nil)

// NewClient создает новый S3 клиент
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	accessKey := cfg.AWSAccessKeyID
	secretKey := cfg.AWSSecretAccessKey

	if accessKey == "" || secretKey == "" || cfg.MediaBucket == "" {
		return nil, app_errors.ErrStorageNotConfigured
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
	})

	return newClient(client, cfg), nil
}

func newClient(api s3API, cfg *config.Config) *Client {
	return &Client{
		s3Client:    api,
		bucket:      cfg.MediaBucket,
		endpoint:    cfg.S3Endpoint,
		publicURL:   strings.TrimRight(cfg.MediaPublicURL, "/"),
		videoFolder: cfg.MediaVideoFolder,
		thumbFolder: cfg.MediaThumbFolder,
	}
}

// UploadVideo загружает видео в папку видео
func (c *Client) UploadVideo(ctx context.Context, data []byte, fileName string) (*UploadResult, error) {
	return c.upload(ctx, c.videoFolder, data, fileName)
}

// UploadThumbnail загружает превью в папку превью
func (c *Client) UploadThumbnail(ctx context.Context, data []byte, fileName string) (*UploadResult, error) {
	return c.upload(ctx, c.thumbFolder, data, fileName)
}

func (c *Client) upload(ctx context.Context, folder string, data []byte, fileName string) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, app_errors.ErrEmptyPayload
	}

	key := ObjectKey(folder, uuid.New().String(), fileName)
	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentTypeFor(fileName)),
		ACL:           types.ObjectCannedACLPublicRead, // Публичный доступ
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put object %s: %w", key, err)
	}

	objectURL, err := c.objectURL(key)
	if err != nil {
		return nil, err
	}

	return &UploadResult{FileID: key, URL: objectURL}, nil
}

// DeleteObject deletes an uploaded object by its file ID
func (c *Client) DeleteObject(ctx context.Context, fileID string) error {
	if fileID == "" {
		return app_errors.ErrObjectKeyEmpty
	}

	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(fileID),
	})
	return err
}

// Ping checks that the bucket is reachable with the configured credentials
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	return err
}

// objectURL формирует постоянный публичный URL объекта
func (c *Client) objectURL(key string) (string, error) {
	if c.publicURL != "" {
		return c.publicURL + "/" + key, nil
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to parse endpoint url: %w", err)
	}

	// Принудительно ставим HTTPS для публичных ссылок
	u.Scheme = "https"

	// Формируем Virtual-Hosted Style URL: https://bucket.endpoint/key
	u.Host = fmt.Sprintf("%s.%s", c.bucket, u.Host)
	u.Path = "/" + key

	return u.String(), nil
}

// ObjectKey builds folder/id/name with the file name reduced to its base.
func ObjectKey(folder, id, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return path.Join(folder, id, name)
}

func contentTypeFor(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
