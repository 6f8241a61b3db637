package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ahmad-alkadri/lob-depot/internal/services"
)

const (
	fileField  = "file"
	dateLayout = "2006-01-02"
)

// HTTPHandler serves the per-caller webhook routes
type HTTPHandler struct {
	uploads      services.UploadService
	formatter    ResponseFormatter
	maxBodyBytes int64
	location     *time.Location
	log          zerolog.Logger
}

// NewHTTPHandler creates a new HTTP handler with dependencies.
// location is the zone used to interpret ?date= on the list endpoint.
func NewHTTPHandler(
	uploads services.UploadService,
	formatter ResponseFormatter,
	maxBodyBytes int64,
	location *time.Location,
	log zerolog.Logger,
) *HTTPHandler {
	if location == nil {
		location = time.UTC
	}
	return &HTTPHandler{
		uploads:      uploads,
		formatter:    formatter,
		maxBodyBytes: maxBodyBytes,
		location:     location,
		log:          log,
	}
}

// Liveness reports that the process is serving. It never touches storage.
func (h *HTTPHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "ok", Message: "lob-depot is running"})
}

// Upload stores the JSON object body for caller
func (h *HTTPHandler) Upload(caller string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.limitBody(c)

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			h.rejectBody(c, err)
			return
		}

		var payload map[string]json.RawMessage
		if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: "request body must be a JSON object"})
			return
		}

		result, err := h.uploads.Upload(detach(c), caller, payload)
		if err != nil {
			c.JSON(http.StatusInternalServerError, h.formatter.FormatStorageError(err))
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// UploadFile stores the multipart "file" field for caller
func (h *HTTPHandler) UploadFile(caller string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.limitBody(c)

		header, err := c.FormFile(fileField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.rejectBody(c, err)
				return
			}
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: fmt.Sprintf("missing multipart field %q", fileField)})
			return
		}

		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: "could not read uploaded file"})
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: "could not read uploaded file"})
			return
		}

		result, err := h.uploads.UploadFile(detach(c), caller, header.Filename, content)
		if err != nil {
			c.JSON(http.StatusInternalServerError, h.formatter.FormatStorageError(err))
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// List returns the keys stored for caller, optionally for one ?date=YYYY-MM-DD
func (h *HTTPHandler) List(caller string) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, ok := h.parseDate(c)
		if !ok {
			return
		}

		objects, err := h.uploads.List(c.Request.Context(), caller, day)
		if err != nil {
			h.log.Error().Err(err).Str("caller", caller).Msg("error listing payloads")
			c.JSON(http.StatusInternalServerError, h.formatter.FormatStorageError(err))
			return
		}
		c.JSON(http.StatusOK, h.formatter.FormatListResponse(objects))
	}
}

// Get returns one stored payload as raw JSON
func (h *HTTPHandler) Get(caller string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("key")
		if key == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "missing key query parameter"})
			return
		}

		data, err := h.uploads.Get(c.Request.Context(), caller, key)
		switch {
		case errors.Is(err, services.ErrInvalidKey):
			c.JSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
			return
		case err != nil && services.KindOf(err) == services.KindNotFound:
			c.JSON(http.StatusNotFound, ErrorResponse{Detail: "payload not found", ErrorKind: string(services.KindNotFound)})
			return
		case err != nil:
			h.log.Error().Err(err).Str("caller", caller).Str("key", key).Msg("error getting payload")
			c.JSON(http.StatusInternalServerError, h.formatter.FormatStorageError(err))
			return
		}

		c.Data(http.StatusOK, "application/json", data)
	}
}

// Archive returns the caller's payloads, optionally for one ?date=, as a zip download
func (h *HTTPHandler) Archive(caller string) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, ok := h.parseDate(c)
		if !ok {
			return
		}

		data, err := h.uploads.Archive(c.Request.Context(), caller, day)
		if err != nil {
			h.log.Error().Err(err).Str("caller", caller).Msg("error archiving payloads")
			c.JSON(http.StatusInternalServerError, h.formatter.FormatStorageError(err))
			return
		}

		name := caller + ".zip"
		if day != nil {
			name = caller + "-" + day.Format(dateLayout) + ".zip"
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(http.StatusOK, "application/zip", data)
	}
}

// parseDate reads the optional ?date= filter, writing a 422 when it is malformed
func (h *HTTPHandler) parseDate(c *gin.Context) (*time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return nil, true
	}
	parsed, err := time.ParseInLocation(dateLayout, raw, h.location)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: "date must be formatted YYYY-MM-DD"})
		return nil, false
	}
	return &parsed, true
}

func (h *HTTPHandler) limitBody(c *gin.Context) {
	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}
}

func (h *HTTPHandler) rejectBody(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Detail: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "error reading request body"})
}

// detach keeps request values but drops client cancellation, so a caller
// that disconnects mid-request does not abort the storage write.
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
