package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const jsonContentType = "application/json"

// DefaultUploadService stores each payload as one JSON object under a generated key
type DefaultUploadService struct {
	storage  StorageService
	keys     KeyGenerator
	clock    Clock
	detector ContentTypeDetector
	zips     ZipService
	timeout  time.Duration
	log      zerolog.Logger
}

// NewDefaultUploadService creates a new upload service with all dependencies
func NewDefaultUploadService(
	storage StorageService,
	keys KeyGenerator,
	clock Clock,
	detector ContentTypeDetector,
	zips ZipService,
	timeout time.Duration,
	log zerolog.Logger,
) *DefaultUploadService {
	if clock == nil {
		clock = SystemClock{}
	}
	if zips == nil {
		zips = NewDefaultZipService()
	}
	return &DefaultUploadService{
		storage:  storage,
		keys:     keys,
		clock:    clock,
		detector: detector,
		zips:     zips,
		timeout:  timeout,
		log:      log.With().Str("component", "upload").Logger(),
	}
}

// Upload serializes payload and writes it to storage in a single put
func (s *DefaultUploadService) Upload(ctx context.Context, caller string, payload any) (*UploadResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &UploadError{Caller: caller, Kind: KindUnknown, Err: fmt.Errorf("encode payload: %w", err)}
	}

	key := s.keys.Generate(caller, s.clock.Now())

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.storage.SavePayload(ctx, key, data, jsonContentType); err != nil {
		kind := KindOf(err)
		s.log.Error().Err(err).Str("caller", caller).Str("key", key).Str("kind", string(kind)).Msg("upload failed")
		return nil, &UploadError{Caller: caller, Kind: kind, Err: err}
	}

	s.log.Info().Str("caller", caller).Str("key", key).Int("size", len(data)).Msg("uploaded")

	return &UploadResult{
		Status:      "success",
		Message:     "Uploaded",
		Key:         key,
		StoragePath: strings.TrimSuffix(s.storage.Location(), "/") + "/" + key,
	}, nil
}

// UploadFile wraps a file in a FileEnvelope and uploads it like any other payload
func (s *DefaultUploadService) UploadFile(ctx context.Context, caller string, filename string, content []byte) (*UploadResult, error) {
	envelope := FileEnvelope{
		Filename: path.Base(strings.ReplaceAll(filename, "\\", "/")),
		Content:  content,
	}
	if envelope.Filename == "." || envelope.Filename == "/" {
		envelope.Filename = ""
	}
	if s.detector != nil {
		envelope.ContentType = s.detector.Detect(content, envelope.Filename)
	}
	return s.Upload(ctx, caller, envelope)
}

// List returns the keys stored for caller, optionally restricted to one day
func (s *DefaultUploadService) List(ctx context.Context, caller string, day *time.Time) ([]string, error) {
	prefix := caller + "/"
	if day != nil {
		prefix = s.keys.DayPrefix(caller, *day)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	objects, err := s.storage.ListPayloads(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("error listing payloads: %w", err)
	}
	return objects, nil
}

// Get returns a stored payload; key must belong to caller
func (s *DefaultUploadService) Get(ctx context.Context, caller string, key string) ([]byte, error) {
	if !strings.HasPrefix(key, caller+"/") || strings.Contains(key, "..") {
		return nil, ErrInvalidKey
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	data, err := s.storage.GetPayload(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("error getting payload: %w", err)
	}
	return data, nil
}

// Archive bundles the caller's payloads, optionally for one day, into a zip.
// Entry names are the keys without the caller prefix.
func (s *DefaultUploadService) Archive(ctx context.Context, caller string, day *time.Time) ([]byte, error) {
	keys, err := s.List(ctx, caller, day)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	entries := make([]ArchiveEntry, 0, len(keys))
	for _, key := range keys {
		data, err := s.storage.GetPayload(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("error getting payload: %w", err)
		}
		entries = append(entries, ArchiveEntry{
			Name:     strings.TrimPrefix(key, caller+"/"),
			Data:     data,
			Modified: s.clock.Now(),
		})
	}

	archive, err := s.zips.CreateZip(entries)
	if err != nil {
		return nil, fmt.Errorf("error creating archive: %w", err)
	}
	s.log.Info().Str("caller", caller).Int("count", len(entries)).Msg("archived payloads")
	return archive, nil
}

func (s *DefaultUploadService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
