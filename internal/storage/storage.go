package storage

import (
	"context"
	"io"
)

// Storage abstracts where uploaded images and documents live. The core only
// ever stores the returned URL string.
type Storage interface {
	// Save stores the file and returns its public URL.
	// key is a unique path within the store (e.g. "events/<id>/<uuid>.jpg").
	Save(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)

	// Delete removes the file at key.
	Delete(ctx context.Context, key string) error
}
