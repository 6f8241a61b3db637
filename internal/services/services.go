package services

import (
	"context"
	"time"
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// KeyGenerator builds the object key a payload is stored under
type KeyGenerator interface {
	Generate(caller string, at time.Time) string
	DayPrefix(caller string, day time.Time) string
}

// ContentTypeDetector detects content types of uploaded files
type ContentTypeDetector interface {
	Detect(data []byte, filename string) string
}

// UploadService orchestrates payload uploads
type UploadService interface {
	Upload(ctx context.Context, caller string, payload any) (*UploadResult, error)
	UploadFile(ctx context.Context, caller string, filename string, content []byte) (*UploadResult, error)
	List(ctx context.Context, caller string, day *time.Time) ([]string, error)
	Get(ctx context.Context, caller string, key string) ([]byte, error)
	Archive(ctx context.Context, caller string, day *time.Time) ([]byte, error)
}

// UploadResult is returned for every stored payload
type UploadResult struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Key         string `json:"key"`
	StoragePath string `json:"storage_path"`
}

// FileEnvelope wraps an uploaded file before it is stored as JSON.
// Content is base64 encoded by encoding/json.
type FileEnvelope struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time {
	return time.Now()
}
