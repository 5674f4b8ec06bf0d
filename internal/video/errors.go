package video

import (
	"fmt"
)

// IngestErrorKind классифицирует сбой загрузки
type IngestErrorKind int

const (
	PrimaryUploadFailed IngestErrorKind = iota + 1
	ThumbnailUploadFailed
	PersistenceFailed
)

func (k IngestErrorKind) String() string {
	switch k {
	case PrimaryUploadFailed:
		return "primary_upload_failed"
	case ThumbnailUploadFailed:
		return "thumbnail_upload_failed"
	case PersistenceFailed:
		return "persistence_failed"
	default:
		return "unknown"
	}
}

// IngestError is returned by Ingest for fatal failures. Only
// PrimaryUploadFailed and PersistenceFailed are ever returned;
// thumbnail failures are logged and swallowed.
type IngestError struct {
	Kind IngestErrorKind
	Err  error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}
