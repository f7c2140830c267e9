package blob

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS signs and uploads against a single private Google Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
	ttl    time.Duration
}

// NewGCS opens a GCS client. credentialsFile may be empty, in which case
// application default credentials are used.
func NewGCS(ctx context.Context, bucket, credentialsFile string, ttl time.Duration) (*GCS, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket is empty")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCS{client: client, bucket: bucket, ttl: ttl}, nil
}

func (g *GCS) SignedReadURL(_ context.Context, key string) (string, error) {
	return g.client.Bucket(g.bucket).SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(g.ttl),
	})
}

func (g *GCS) SignedUploadURL(_ context.Context, key, contentType string) (string, error) {
	return g.client.Bucket(g.bucket).SignedURL(key, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      "PUT",
		ContentType: contentType,
		Expires:     time.Now().Add(g.ttl),
	})
}

// Upload writes the object privately. Media is immutable once written, so a
// long client cache lifetime is safe.
func (g *GCS) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Close releases the underlying client.
func (g *GCS) Close() error { return g.client.Close() }
