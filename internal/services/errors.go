package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
)

// ErrorKind classifies storage failures
type ErrorKind string

const (
	KindAuth      ErrorKind = "auth"
	KindNotFound  ErrorKind = "not_found"
	KindTransient ErrorKind = "transient"
	KindUnknown   ErrorKind = "unknown"
)

// ErrInvalidKey is returned when a key is outside the caller's partition
var ErrInvalidKey = errors.New("invalid key")

// StorageError is returned by every StorageService backend
type StorageError struct {
	Op   string
	Key  string
	Kind ErrorKind
	Err  error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// UploadError is returned by UploadService when a payload could not be stored.
// Its message is the underlying error text, unfiltered.
type UploadError struct {
	Caller string
	Kind   ErrorKind
	Err    error
}

func (e *UploadError) Error() string {
	return e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// KindOf reports the classification carried by err, KindUnknown if none.
func KindOf(err error) ErrorKind {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Kind
	}
	var ue *UploadError
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return KindUnknown
}

// SanitizedMessage is the fixed client-facing message for a kind.
func SanitizedMessage(kind ErrorKind) string {
	switch kind {
	case KindAuth:
		return "storage rejected the credentials"
	case KindNotFound:
		return "storage bucket or object not found"
	case KindTransient:
		return "storage temporarily unavailable"
	default:
		return "storage request failed"
	}
}

// classifyCode maps S3-style error codes, shared by MinIO and AWS.
func classifyCode(code string) ErrorKind {
	switch code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken",
		"InvalidToken", "AllAccessDisabled", "Forbidden":
		return KindAuth
	case "NoSuchBucket", "NoSuchKey", "NotFound", "NoSuchUpload":
		return KindNotFound
	case "SlowDown", "RequestTimeout", "InternalError", "ServiceUnavailable",
		"RequestTimeTooSkewed", "XMinioServerNotInitialized":
		return KindTransient
	}
	return KindUnknown
}

// classifyGeneric recognises failures any backend can surface.
func classifyGeneric(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransient
	}
	// filesystem errnos also satisfy net.Error, so match them first
	if errors.Is(err, os.ErrNotExist) {
		return KindNotFound
	}
	if errors.Is(err, os.ErrPermission) {
		return KindAuth
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindTransient
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindTransient
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTransient
	}
	return KindUnknown
}
