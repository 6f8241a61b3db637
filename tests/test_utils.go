//go:build integration
// +build integration

package tests

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/ahmad-alkadri/lob-depot/internal/config"
	"github.com/ahmad-alkadri/lob-depot/internal/handlers"
	"github.com/ahmad-alkadri/lob-depot/internal/services"
)

// liveServer is the full application wired to a live MinIO
type liveServer struct {
	baseURL string
	minio   *minio.Client
	bucket  string

	mu      sync.Mutex
	created []string
}

// newLiveServer builds the router on top of MinIO and serves it from httptest.
// The test is skipped when MinIO cannot be reached.
func newLiveServer(t *testing.T) *liveServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		t.Skipf("Skipping integration test: MinIO client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("Skipping integration test: MinIO not accessible at %s: %v", cfg.MinioEndpoint, err)
	}

	storage, err := services.NewMinioService(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to initialize MinIO service: %v", err)
	}

	uploads := services.NewDefaultUploadService(
		storage,
		services.NewDefaultKeyGenerator(config.KeyPolicyMicro, false, time.UTC),
		services.SystemClock{},
		services.NewDefaultContentTypeDetector(),
		services.NewDefaultZipService(),
		cfg.StorageTimeout,
		zerolog.Nop(),
	)
	h := handlers.NewHTTPHandler(uploads, handlers.NewDefaultResponseFormatter(false), cfg.MaxBodyBytes, time.UTC, zerolog.Nop())
	srv := httptest.NewServer(handlers.NewRouter(cfg.Callers, h, zerolog.Nop()))

	live := &liveServer{baseURL: srv.URL, minio: client, bucket: cfg.Bucket}

	t.Cleanup(func() {
		srv.Close()

		live.mu.Lock()
		defer live.mu.Unlock()
		for _, obj := range live.created {
			if err := client.RemoveObject(context.Background(), cfg.Bucket, obj, minio.RemoveObjectOptions{}); err != nil {
				t.Logf("Warning: Failed to cleanup object %s: %v", obj, err)
			}
		}
	})

	return live
}

func (s *liveServer) track(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, keys...)
}

// postJSON sends body to /{caller}/lob and decodes the response into out
func (s *liveServer) postJSON(t *testing.T, caller, body string, out any) int {
	t.Helper()
	resp, err := http.Post(s.baseURL+"/"+caller+"/lob", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to send payload: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

// readObject fetches an object straight from MinIO, bypassing the server
func (s *liveServer) readObject(t *testing.T, key string) []byte {
	t.Helper()
	obj, err := s.minio.GetObject(context.Background(), s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		t.Fatalf("Failed to get object %s: %v", key, err)
	}
	defer obj.Close()

	content, err := io.ReadAll(obj)
	if err != nil {
		t.Fatalf("Failed to read object %s: %v", key, err)
	}
	return content
}
