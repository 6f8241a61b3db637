package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 keeps objects in memory and can fail every call with err
type fakeS3 struct {
	objects      map[string][]byte
	contentTypes map[string]string
	err          error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.contentTypes[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist."}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.err != nil {
		return nil, f.err
	}
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{}
	for _, key := range keys {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(key)})
	}
	return out, nil
}

func TestS3Service_SaveGetList(t *testing.T) {
	tests := []struct {
		name      string
		prefix    string
		objectKey string
		location  string
	}{
		{"no prefix", "", "terrence/year=2024/month=03/day=05/a.json", "s3://bucket"},
		{"prefix", "webhooks", "webhooks/terrence/year=2024/month=03/day=05/a.json", "s3://bucket/webhooks"},
		{"prefix with slashes", "/webhooks/", "webhooks/terrence/year=2024/month=03/day=05/a.json", "s3://bucket/webhooks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeS3()
			svc := NewS3ServiceWithClient(fake, "bucket", tt.prefix, zerolog.Nop())
			ctx := context.Background()
			key := "terrence/year=2024/month=03/day=05/a.json"

			require.NoError(t, svc.SavePayload(ctx, key, []byte(`{"a":1}`), "application/json"))
			assert.Equal(t, []byte(`{"a":1}`), fake.objects[tt.objectKey])
			assert.Equal(t, "application/json", fake.contentTypes[tt.objectKey])

			data, err := svc.GetPayload(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, `{"a":1}`, string(data))

			keys, err := svc.ListPayloads(ctx, "terrence/")
			require.NoError(t, err)
			assert.Equal(t, []string{key}, keys)

			keys, err = svc.ListPayloads(ctx, "thongpham/")
			require.NoError(t, err)
			assert.Empty(t, keys)

			assert.Equal(t, tt.location, svc.Location())
		})
	}
}

func TestS3Service_ErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, KindAuth},
		{"bad signature", &smithy.GenericAPIError{Code: "SignatureDoesNotMatch"}, KindAuth},
		{"missing bucket", &smithy.GenericAPIError{Code: "NoSuchBucket"}, KindNotFound},
		{"throttled", &smithy.GenericAPIError{Code: "SlowDown"}, KindTransient},
		{"deadline", context.DeadlineExceeded, KindTransient},
		{"other", errors.New("weird"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeS3()
			fake.err = tt.err
			svc := NewS3ServiceWithClient(fake, "bucket", "", zerolog.Nop())

			err := svc.SavePayload(context.Background(), "terrence/a.json", []byte("{}"), "application/json")
			require.Error(t, err)

			var se *StorageError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "put", se.Op)
			assert.Equal(t, "terrence/a.json", se.Key)
			assert.Equal(t, tt.want, se.Kind)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestS3Service_GetMissing(t *testing.T) {
	svc := NewS3ServiceWithClient(newFakeS3(), "bucket", "", zerolog.Nop())

	_, err := svc.GetPayload(context.Background(), "terrence/missing.json")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
