// Package storage provides object storage for user avatars, with a local
// filesystem implementation for development and an S3-compatible one for
// production.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage defines the operations the profile service needs: write an object,
// best-effort delete the previous one, and resolve a public URL.
type Storage interface {
	Put(ctx context.Context, key string, data io.Reader, contentType string) error
	// Delete is idempotent; removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Provider names accepted by config.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// AvatarKey generates the storage key for a user's avatar.
// Format: avatars/{userID}/{uuid}.{ext}
func AvatarKey(userID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("avatars/%s/%s%s", userID, uuid.New(), ext)
}
