package services

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const octetStream = "application/octet-stream"

// DefaultContentTypeDetector sniffs uploaded file content, falling back to the extension
type DefaultContentTypeDetector struct{}

// NewDefaultContentTypeDetector creates a new content type detector
func NewDefaultContentTypeDetector() *DefaultContentTypeDetector {
	return &DefaultContentTypeDetector{}
}

// Detect returns the media type of data, without parameters
func (d *DefaultContentTypeDetector) Detect(data []byte, filename string) string {
	if len(data) > 0 {
		detected := mimetype.Detect(data)
		if !detected.Is(octetStream) && !detected.Is("text/plain") {
			return stripParams(detected.String())
		}
	}

	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return stripParams(byExt)
		}
	}

	if len(data) > 0 && mimetype.Detect(data).Is("text/plain") {
		return "text/plain"
	}
	return octetStream
}

func stripParams(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return mediaType
}
