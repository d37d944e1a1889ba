package storage

import (
	"context"
	"io"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Blob is a single file pushed to the media store.
// Size may be -1 when unknown.
type Blob struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service stores gallery blobs in remote object storage and hands back public URLs.
type Service interface {
	// Upload stores the blob under the configured folder and returns its public URL.
	Upload(ctx context.Context, blob Blob) (string, error)
	// Delete removes every object stored for the given blob id.
	Delete(ctx context.Context, blobID string) error
	// ListObjects lists the objects stored under the configured folder.
	ListObjects(ctx context.Context) ([]ObjectInfo, error)
}
