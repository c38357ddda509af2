// Package blob abstracts binary photo storage behind a put/get/delete
// interface with two backends: a local photos directory and an S3-compatible
// object store. Keys are opaque to callers; only the store that issued a key
// can resolve it.
package blob

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/avolkovs/paintrack/internal/models"
)

// Store is the storage adapter used by the photo service. Implementations
// are stateless per call and safe for concurrent use; unique key generation
// makes coordination unnecessary.
//
// Put is all-or-nothing: on success the bytes are durable and Get returns
// them unchanged, on failure no partial blob is visible. Delete is
// idempotent: removing an absent key is not an error.
type Store interface {
	Put(ctx context.Context, keyHint string, data []byte, mimeType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// newObjectName builds a collision-resistant blob name from the current
// time, a random suffix and the extension derived from the MIME type.
func newObjectName(mimeType string) (string, error) {
	ext := models.ExtensionForMime(mimeType)
	if ext == "" {
		return "", fmt.Errorf("no extension for mime type %q", mimeType)
	}

	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("random suffix: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("%s-%s%s", stamp, hex.EncodeToString(suffix), ext), nil
}
