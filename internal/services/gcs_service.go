package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/ahmad-alkadri/lob-depot/internal/config"
)

// GCSService stores payloads in a Google Cloud Storage bucket.
// Credentials are resolved through Application Default Credentials.
type GCSService struct {
	client *storage.Client
	bucket string
	log    zerolog.Logger
}

// NewGCSService creates a new GCS service
func NewGCSService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*GCSService, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating storage-client: %w", err)
	}
	return &GCSService{
		client: client,
		bucket: cfg.Bucket,
		log:    log.With().Str("backend", config.BackendGCS).Logger(),
	}, nil
}

// SavePayload writes data to bucket/objectName
func (g *GCSService) SavePayload(ctx context.Context, objectName string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = octetStream
	}

	writer := g.client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return g.wrap("put", objectName, err)
	}
	// the object is only committed on Close
	if err := writer.Close(); err != nil {
		return g.wrap("put", objectName, err)
	}

	g.log.Debug().Str("key", objectName).Int("size", len(data)).Msg("saved payload")
	return nil
}

// GetPayload reads a stored object
func (g *GCSService) GetPayload(ctx context.Context, objectName string) ([]byte, error) {
	reader, err := g.client.Bucket(g.bucket).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, g.wrap("get", objectName, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, g.wrap("get", objectName, err)
	}
	return data, nil
}

// ListPayloads lists object names under prefix
func (g *GCSService) ListPayloads(ctx context.Context, prefix string) ([]string, error) {
	objects := []string{}
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, g.wrap("list", prefix, err)
		}
		objects = append(objects, attrs.Name)
	}
	return objects, nil
}

// Location returns the gs:// URI of the bucket
func (g *GCSService) Location() string {
	return "gs://" + g.bucket
}

// Close releases the underlying client
func (g *GCSService) Close() error {
	return g.client.Close()
}

func (g *GCSService) wrap(op, key string, err error) error {
	return &StorageError{Op: op, Key: key, Kind: classifyGCS(err), Err: err}
}

func classifyGCS(err error) ErrorKind {
	if errors.Is(err, storage.ErrBucketNotExist) || errors.Is(err, storage.ErrObjectNotExist) {
		return KindNotFound
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return KindAuth
		case apiErr.Code == http.StatusNotFound:
			return KindNotFound
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError:
			return KindTransient
		}
	}
	return classifyGeneric(err)
}

var _ StorageService = (*GCSService)(nil)
