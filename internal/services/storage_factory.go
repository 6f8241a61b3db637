package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ahmad-alkadri/lob-depot/internal/config"
)

// NewStorageService builds the backend selected by cfg.StorageBackend
func NewStorageService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (StorageService, error) {
	switch cfg.StorageBackend {
	case config.BackendMinio, "":
		return NewMinioService(ctx, cfg, log)
	case config.BackendS3:
		return NewS3Service(ctx, cfg, log)
	case config.BackendGCS:
		return NewGCSService(ctx, cfg, log)
	case config.BackendLocal:
		return NewLocalService(cfg.LocalStoreDir, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
