// Package blob abstracts the object-storage collaborator: private uploads
// and short-lived signed URLs for reads and client-side uploads.
package blob

import "context"

// Signer is the storage contract consumed by the services layer. Stored
// documents hold object keys only; SignedReadURL turns a key into a
// time-limited URL at response time.
type Signer interface {
	SignedReadURL(ctx context.Context, key string) (string, error)
	SignedUploadURL(ctx context.Context, key, contentType string) (string, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}
