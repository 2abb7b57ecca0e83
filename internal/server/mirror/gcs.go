package mirror

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// newGCSClient is a seam for testing storage.NewClient.
var newGCSClient = storage.NewClient

type GCSConfig struct {
	Bucket          string
	CredentialsFile string
}

// GCSMirror uploads to a Google Cloud Storage bucket.
type GCSMirror struct {
	client *storage.Client
	bucket string
	// openWriter returns the object writer; tests replace it.
	openWriter func(ctx context.Context, key, contentType string) io.WriteCloser
}

func NewGCSMirror(ctx context.Context, c GCSConfig) (*GCSMirror, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("gcs mirror: bucket not set")
	}

	opts := []option.ClientOption{storage.WithDisabledClientMetrics()}
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}

	client, err := newGCSClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs mirror: failed in creating storage client: %w", err)
	}

	m := &GCSMirror{client: client, bucket: c.Bucket}
	bucket := client.Bucket(c.Bucket)
	m.openWriter = func(ctx context.Context, key, contentType string) io.WriteCloser {
		w := bucket.Object(key).NewWriter(ctx)
		w.ContentType = contentType
		return w
	}
	return m, nil
}

func (m *GCSMirror) Upload(ctx context.Context, folder, name string, content []byte, contentType string) (string, error) {
	key := ObjectKey(folder, name)
	w := m.openWriter(ctx, key, contentType)
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs write %s: %w", key, err)
	}
	// The object is only committed on Close.
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs close %s: %w", key, err)
	}
	return key, nil
}

func (m *GCSMirror) Name() string { return "gcs" }

func (m *GCSMirror) Close() error {
	if m.client == nil {
		return nil
	}
	err := m.client.Close()
	m.client = nil
	return err
}
