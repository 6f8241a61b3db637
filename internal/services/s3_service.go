package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"github.com/ahmad-alkadri/lob-depot/internal/config"
)

// S3API is the subset of the S3 client the service uses
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Service stores payloads in Amazon S3 or any S3 compatible endpoint.
// Credentials come from S3_ACCESS_KEY_ID/S3_SECRET_ACCESS_KEY when set,
// otherwise from the default AWS chain.
type S3Service struct {
	client S3API
	bucket string
	prefix string
	log    zerolog.Logger
}

// NewS3Service creates a new S3 service
func NewS3Service(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Service, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if cfg.AWSRegion != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return NewS3ServiceWithClient(client, cfg.Bucket, cfg.S3Prefix, log), nil
}

// NewS3ServiceWithClient wraps an existing client
func NewS3ServiceWithClient(client S3API, bucket, prefix string, log zerolog.Logger) *S3Service {
	return &S3Service{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
		log:    log.With().Str("backend", config.BackendS3).Logger(),
	}
}

// SavePayload uploads data under objectName
func (s *S3Service) SavePayload(ctx context.Context, objectName string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = octetStream
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(objectName)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return s.wrap("put", objectName, err)
	}

	s.log.Debug().Str("key", objectName).Int("size", len(data)).Msg("saved payload")
	return nil
}

// GetPayload downloads a stored object
func (s *S3Service) GetPayload(ctx context.Context, objectName string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(objectName)),
	})
	if err != nil {
		return nil, s.wrap("get", objectName, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, s.wrap("get", objectName, err)
	}
	return data, nil
}

// ListPayloads lists keys under prefix, relative to the configured key prefix
func (s *S3Service) ListPayloads(ctx context.Context, prefix string) ([]string, error) {
	objects := []string{}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.objectKey(prefix)),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.wrap("list", prefix, err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, s.relativeKey(aws.ToString(obj.Key)))
		}
	}

	return objects, nil
}

// Location returns the s3:// URI of the bucket, including the key prefix
func (s *S3Service) Location() string {
	if s.prefix == "" {
		return "s3://" + s.bucket
	}
	return "s3://" + s.bucket + "/" + s.prefix
}

func (s *S3Service) objectKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.prefix == "" {
		return key
	}
	if key == "" {
		return s.prefix + "/"
	}
	return s.prefix + "/" + key
}

func (s *S3Service) relativeKey(objectKey string) string {
	if s.prefix == "" {
		return objectKey
	}
	return strings.TrimPrefix(objectKey, s.prefix+"/")
}

func (s *S3Service) wrap(op, key string, err error) error {
	kind := KindUnknown
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		kind = classifyCode(apiErr.ErrorCode())
	}
	if kind == KindUnknown {
		kind = classifyGeneric(err)
	}
	return &StorageError{Op: op, Key: key, Kind: kind, Err: err}
}

var _ StorageService = (*S3Service)(nil)
