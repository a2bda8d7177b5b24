// Package storage keeps profile photos in object storage. The engine only
// records object keys; clients upload and view photos through presigned URLs.
package storage

import (
	"context"
	"errors"
	"time"
)

const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrPresignFailed = errors.New("failed to presign photo url")

// PhotoStorage issues short-lived URLs for profile photo objects.
type PhotoStorage interface {
	// UploadURL returns a URL accepting a PUT of one object with contentType.
	UploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error)
	// ViewURL returns a URL serving a GET of the object.
	ViewURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
	Remove(ctx context.Context, objectKey string) error
}
