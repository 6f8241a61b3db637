package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

// ArchiveEntry is one file written into a zip archive
type ArchiveEntry struct {
	Name     string
	Data     []byte
	Modified time.Time
}

// ZipService bundles stored payloads into a single download
type ZipService interface {
	CreateZip(entries []ArchiveEntry) ([]byte, error)
}

// DefaultZipService handles creating zip archives
type DefaultZipService struct{}

// NewDefaultZipService creates a new zip service
func NewDefaultZipService() *DefaultZipService {
	return &DefaultZipService{}
}

// CreateZip writes every entry into one archive. Any write error aborts the archive.
func (z *DefaultZipService) CreateZip(entries []ArchiveEntry) ([]byte, error) {
	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)

	for _, entry := range entries {
		f, err := zipWriter.CreateHeader(&zip.FileHeader{
			Name:     entry.Name,
			Method:   zip.Deflate,
			Modified: entry.Modified,
		})
		if err != nil {
			zipWriter.Close()
			return nil, fmt.Errorf("zip %s: %w", entry.Name, err)
		}
		if _, err := f.Write(entry.Data); err != nil {
			zipWriter.Close()
			return nil, fmt.Errorf("zip %s: %w", entry.Name, err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}
