package services

import "context"

//go:generate mockgen -source=storage_interface.go -destination=gen_StorageServiceMock.go -package=services

// StorageService interface for storage operations
type StorageService interface {
	SavePayload(ctx context.Context, objectName string, data []byte, contentType string) error
	GetPayload(ctx context.Context, objectName string) ([]byte, error)
	ListPayloads(ctx context.Context, prefix string) ([]string, error)
	// Location is the URI stored objects are addressed under, e.g. "s3://bucket".
	Location() string
}
