package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ahmad-alkadri/lob-depot/internal/config"
)

// LocalService stores payloads as files below a base directory, one file per key
type LocalService struct {
	baseDir string
	log     zerolog.Logger
}

// NewLocalService creates a local store rooted at baseDir
func NewLocalService(baseDir string, log zerolog.Logger) (*LocalService, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", baseDir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return &LocalService{
		baseDir: abs,
		log:     log.With().Str("backend", config.BackendLocal).Logger(),
	}, nil
}

// SavePayload writes data to the file for objectName, replacing any previous content.
// The content type is implied by the key's extension.
func (l *LocalService) SavePayload(ctx context.Context, objectName string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return l.wrap("put", objectName, err)
	}

	fullPath, err := l.resolve(objectName)
	if err != nil {
		return l.wrap("put", objectName, err)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return l.wrap("put", objectName, err)
	}

	// write to a temp file first so readers never see a partial object
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return l.wrap("put", objectName, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return l.wrap("put", objectName, err)
	}
	if err := tmp.Close(); err != nil {
		return l.wrap("put", objectName, err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return l.wrap("put", objectName, err)
	}

	l.log.Debug().Str("key", objectName).Int("size", len(data)).Msg("saved payload")
	return nil
}

// GetPayload reads a stored file
func (l *LocalService) GetPayload(ctx context.Context, objectName string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, l.wrap("get", objectName, err)
	}
	fullPath, err := l.resolve(objectName)
	if err != nil {
		return nil, l.wrap("get", objectName, err)
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, l.wrap("get", objectName, err)
	}
	return data, nil
}

// ListPayloads walks the base directory and returns keys starting with prefix
func (l *LocalService) ListPayloads(ctx context.Context, prefix string) ([]string, error) {
	objects := []string{}
	err := filepath.WalkDir(l.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}
		rel, err := filepath.Rel(l.baseDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, key)
		}
		return nil
	})
	if err != nil {
		return nil, l.wrap("list", prefix, err)
	}
	sort.Strings(objects)
	return objects, nil
}

// Location returns the file:// URI of the base directory
func (l *LocalService) Location() string {
	return "file://" + filepath.ToSlash(l.baseDir)
}

func (l *LocalService) resolve(objectName string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(objectName))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", errors.New("invalid storage key")
	}
	return filepath.Join(l.baseDir, clean), nil
}

func (l *LocalService) wrap(op, key string, err error) error {
	return &StorageError{Op: op, Key: key, Kind: classifyGeneric(err), Err: err}
}

var _ StorageService = (*LocalService)(nil)
