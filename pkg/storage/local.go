package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// LocalBackend stores archives as plain files.
type LocalBackend struct{}

func NewLocalBackend() *LocalBackend {
	return &LocalBackend{}
}

func (b *LocalBackend) ReadAll(_ context.Context, location string) ([]byte, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("unable to read archive file: %w", err)
	}
	return data, nil
}

// WriteAll writes atomically: the image goes to a uuid-suffixed sibling which
// is renamed over the destination. The rename is the commit point; an
// interrupted write leaves only the temp file behind. An advisory flock on a
// sidecar serializes concurrent writers of the same archive.
func (b *LocalBackend) WriteAll(_ context.Context, location string, data []byte) error {
	dir := filepath.Dir(location)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create archive directory: %w", err)
	}

	lock := flock.New(location + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("unable to lock archive file: %w", err)
	}
	defer func() {
		lock.Unlock()
		os.Remove(location + ".lock")
	}()

	tmp := fmt.Sprintf("%s.tmp-%s", location, uuid.New().String())
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("unable to write archive file: %w", err)
	}

	if err := os.Rename(tmp, location); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("unable to commit archive file: %w", err)
	}
	return nil
}
