package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/ahmad-alkadri/lob-depot/internal/config"
)

type MinioService struct {
	client *minio.Client
	bucket string
	log    zerolog.Logger
}

// NewMinioService creates a new MinIO service
func NewMinioService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*MinioService, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	service := &MinioService{
		client: client,
		bucket: cfg.Bucket,
		log:    log.With().Str("backend", config.BackendMinio).Logger(),
	}

	// Create bucket if it doesn't exist
	if err := service.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return service, nil
}

// ensureBucket creates the bucket if it doesn't exist
func (m *MinioService) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return m.wrap("bucket-exists", "", err)
	}

	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return m.wrap("make-bucket", "", err)
		}
		m.log.Info().Str("bucket", m.bucket).Msg("created bucket")
	}

	return nil
}

// SavePayload saves a payload to MinIO with the given content type
func (m *MinioService) SavePayload(ctx context.Context, objectName string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = octetStream
	}

	options := minio.PutObjectOptions{
		ContentType: contentType,
	}

	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), options)
	if err != nil {
		return m.wrap("put", objectName, err)
	}

	m.log.Debug().Str("key", objectName).Int("size", len(data)).Msg("saved payload")
	return nil
}

// GetPayload retrieves a payload from MinIO
func (m *MinioService) GetPayload(ctx context.Context, objectName string) ([]byte, error) {
	object, err := m.client.GetObject(ctx, m.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, m.wrap("get", objectName, err)
	}
	defer object.Close()

	// GetObject is lazy; errors such as NoSuchKey surface on first read
	var buffer bytes.Buffer
	if _, err := buffer.ReadFrom(object); err != nil {
		return nil, m.wrap("get", objectName, err)
	}

	return buffer.Bytes(), nil
}

// ListPayloads lists the payloads under prefix
func (m *MinioService) ListPayloads(ctx context.Context, prefix string) ([]string, error) {
	objects := []string{}

	objectCh := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, m.wrap("list", prefix, object.Err)
		}
		objects = append(objects, object.Key)
	}

	return objects, nil
}

// Location returns the s3:// URI of the bucket
func (m *MinioService) Location() string {
	return "s3://" + m.bucket
}

func (m *MinioService) wrap(op, key string, err error) error {
	kind := classifyCode(minio.ToErrorResponse(err).Code)
	if kind == KindUnknown {
		kind = classifyGeneric(err)
	}
	return &StorageError{Op: op, Key: key, Kind: kind, Err: err}
}

var _ StorageService = (*MinioService)(nil)
