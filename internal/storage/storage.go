package storage

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Package storage contains the blob store abstraction for paper files.
// Implementations must avoid using local disk and rely on streaming I/O only.

// MetaOriginalFilename is the object metadata key carrying the filename the
// student uploaded under; stored keys themselves are opaque.
const MetaOriginalFilename = "original-filename"

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// BlobStore is the S3-compatible object store consumed by the paper service.
// Methods use context and streaming readers; no local disk is used.
type BlobStore interface {
	// Put uploads an object under the given key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the
	// object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// NewPaperKey derives an opaque storage key for an uploaded paper file,
// keeping only the extension from the original filename.
func NewPaperKey(originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	return filepath.ToSlash(filepath.Join("papers", uuid.New().String()+ext))
}
