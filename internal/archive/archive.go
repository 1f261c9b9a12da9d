// Package archive defines the blob store abstraction used to retain raw
// provider payloads and uploaded query images. Archival is best-effort:
// callers log failures and continue.
package archive

import "context"

// BlobStore writes raw artifacts and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}
