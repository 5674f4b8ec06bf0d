package validation

import (
	"strings"
)

// VideoContentTypes содержит список разрешенных Content-Type для видео
var VideoContentTypes = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
	"video/x-msvideo": true,
}

// NormalizeContentType приводит Content-Type к основному типу без параметров
func NormalizeContentType(contentType string) string {
	// Нормализация Content-Type
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	// Отбрасываем параметры вида "; codecs=..."
	mainType, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(mainType)
}

// IsVideoContentType проверяет, входит ли Content-Type в список разрешенных видео
func IsVideoContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	return VideoContentTypes[NormalizeContentType(contentType)]
}
