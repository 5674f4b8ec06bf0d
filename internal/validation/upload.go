package validation

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxVideoSize         = 100 * 1024 * 1024

	fieldTitle     = "title"
	fieldVideoFile = "video_file"
)

// FileInput описывает файл из multipart формы
type FileInput struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// UploadForm содержит сырые поля формы загрузки видео
type UploadForm struct {
	Title         string
	Description   string
	ThumbnailData string
	VideoFile     *FileInput
}

// UploadSubmission is an upload that passed validation and is ready for ingestion.
type UploadSubmission struct {
	Title         string
	Description   string
	VideoData     []byte
	VideoFilename string
	ContentType   string
	SizeBytes     int64
	ThumbnailData string
}

// ValidateUpload checks an upload form without doing any I/O. On failure the
// returned error is a ValidationErrors with title errors listed before
// video_file errors.
func ValidateUpload(form UploadForm) (*UploadSubmission, error) {
	var errs ValidationErrors

	title := strings.TrimSpace(form.Title)
	switch {
	case title == "":
		errs.add(fieldTitle, ReasonRequired)
	case utf8.RuneCountInString(title) > MaxTitleLength:
		errs.add(fieldTitle, ReasonTooLong)
	}

	file := form.VideoFile
	var contentType string
	switch {
	case file == nil || file.Size <= 0:
		errs.add(fieldVideoFile, ReasonRequired)
	// Размер проверяется до данных: слишком большой файл хендлер не читает
	case file.Size > MaxVideoSize:
		errs.add(fieldVideoFile, ReasonTooLarge)
	case len(file.Data) == 0:
		errs.add(fieldVideoFile, ReasonRequired)
	default:
		contentType = NormalizeContentType(file.ContentType)
		if !IsVideoContentType(contentType) {
			errs.add(fieldVideoFile, ReasonUnsupportedType)
		}
	}

	if err := errs.errOrNil(); err != nil {
		return nil, err
	}

	return &UploadSubmission{
		Title:         title,
		Description:   truncateRunes(form.Description, MaxDescriptionLength),
		VideoData:     file.Data,
		VideoFilename: SanitizeFilename(file.Filename, "video"),
		ContentType:   contentType,
		SizeBytes:     file.Size,
		ThumbnailData: form.ThumbnailData,
	}, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
