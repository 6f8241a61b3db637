package handlers

import (
	"github.com/ahmad-alkadri/lob-depot/internal/services"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Detail    string `json:"detail"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// ListResponse is returned by the listing endpoint
type ListResponse struct {
	Count   int      `json:"count"`
	Objects []string `json:"objects"`
}

// StatusResponse is returned by the liveness endpoint
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ResponseFormatter shapes handler responses
type ResponseFormatter interface {
	FormatStorageError(err error) ErrorResponse
	FormatListResponse(objects []string) ListResponse
}

// DefaultResponseFormatter forwards storage error text unless sanitize is set
type DefaultResponseFormatter struct {
	sanitize bool
}

// NewDefaultResponseFormatter creates a new response formatter
func NewDefaultResponseFormatter(sanitize bool) *DefaultResponseFormatter {
	return &DefaultResponseFormatter{sanitize: sanitize}
}

// FormatStorageError builds the 500 body for any failed storage operation
func (f *DefaultResponseFormatter) FormatStorageError(err error) ErrorResponse {
	kind := services.KindOf(err)
	if f.sanitize {
		return ErrorResponse{Detail: services.SanitizedMessage(kind), ErrorKind: string(kind)}
	}
	return ErrorResponse{Detail: err.Error(), ErrorKind: string(kind)}
}

// FormatListResponse formats the response for the list endpoint
func (f *DefaultResponseFormatter) FormatListResponse(objects []string) ListResponse {
	if objects == nil {
		objects = []string{}
	}
	return ListResponse{Count: len(objects), Objects: objects}
}
