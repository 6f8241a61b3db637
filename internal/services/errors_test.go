package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyGeneric(t *testing.T) {
	pathErr := func(errno syscall.Errno) error {
		return &fs.PathError{Op: "open", Path: "/data/terrence/a.json", Err: errno}
	}

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"missing file", pathErr(syscall.ENOENT), KindNotFound},
		{"wrapped missing file", fmt.Errorf("get: %w", pathErr(syscall.ENOENT)), KindNotFound},
		{"permission denied", pathErr(syscall.EACCES), KindAuth},
		{"disk full", pathErr(syscall.ENOSPC), KindUnknown},
		{"deadline", context.DeadlineExceeded, KindTransient},
		{"canceled", context.Canceled, KindTransient},
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, KindTransient},
		{"dns", &net.DNSError{Err: "no such host", Name: "minio"}, KindTransient},
		{"url", &url.Error{Op: "Put", URL: "http://minio:9000", Err: errors.New("EOF")}, KindTransient},
		{"other", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyGeneric(tt.err))
		})
	}
}

func TestKindOf(t *testing.T) {
	se := &StorageError{Op: "get", Key: "k", Kind: KindNotFound, Err: errors.New("missing")}

	assert.Equal(t, KindNotFound, KindOf(se))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("error getting payload: %w", se)))
	assert.Equal(t, KindAuth, KindOf(&UploadError{Caller: "terrence", Kind: KindAuth, Err: errors.New("denied")}))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}
