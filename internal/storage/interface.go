package storage

import (
	"context"
)

// UploadResult описывает объект, сохранённый в медиа-хранилище.
// Оба поля непустые при успешной загрузке.
type UploadResult struct {
	FileID string `json:"file_id"`
	URL    string `json:"url"`
}

// MediaStore определяет интерфейс удалённого хранилища видео и превью
type MediaStore interface {
	// Методы загрузки
	UploadVideo(ctx context.Context, data []byte, fileName string) (*UploadResult, error)
	UploadThumbnail(ctx context.Context, data []byte, fileName string) (*UploadResult, error)

	// Методы управления объектами
	DeleteObject(ctx context.Context, fileID string) error

	// Служебные методы
	Ping(ctx context.Context) error
}
