// Package storage abstracts where archive bytes live. Archives are always
// materialized whole; a backend only needs to read and write one object.
package storage

import (
	"context"
	"strings"
)

// Backend reads and writes a complete archive image at a location. The
// location string is backend-specific: a filesystem path for the local
// backend, an s3://bucket/key URI for S3.
type Backend interface {
	ReadAll(ctx context.Context, location string) ([]byte, error)
	WriteAll(ctx context.Context, location string, data []byte) error
}

// Resolve picks a backend for the given path. "s3://bucket/key" URIs resolve
// to the S3 backend; everything else is a local file path.
func Resolve(path string) (Backend, error) {
	if strings.HasPrefix(path, "s3://") {
		return NewS3Backend(S3BackendOpts{})
	}
	return NewLocalBackend(), nil
}
