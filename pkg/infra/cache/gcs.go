package cache

import (
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/interfaces"
)

type gcsStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSStore stores entries as objects "<prefix>/<key>" in a Cloud Storage
// bucket. Credentials are resolved by Application Default Credentials.
func NewGCSStore(ctx context.Context, bucket, prefix string) (interfaces.CacheStore, error) {
	if bucket == "" {
		return nil, goerr.New("cache bucket is required for the gcs backend")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}

	return &gcsStore{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// ObjectName returns the object name holding key
func ObjectName(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}

// Get downloads the object of key
func (s *gcsStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	name := ObjectName(s.prefix, key)
	reader, err := s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to open cache object",
			goerr.V("bucket", s.bucket),
			goerr.V("object", name),
		)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to read cache object",
			goerr.V("bucket", s.bucket),
			goerr.V("object", name),
		)
	}
	return data, true, nil
}

// Put uploads the object of key, replacing the previous generation
func (s *gcsStore) Put(ctx context.Context, key string, data []byte) error {
	name := ObjectName(s.prefix, key)
	writer := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return goerr.Wrap(err, "failed to write cache object",
			goerr.V("bucket", s.bucket),
			goerr.V("object", name),
		)
	}
	if err := writer.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize cache object",
			goerr.V("bucket", s.bucket),
			goerr.V("object", name),
		)
	}
	return nil
}

// Close closes the Cloud Storage client
func (s *gcsStore) Close() error {
	return s.client.Close()
}
