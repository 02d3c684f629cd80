package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// PublicPrefix is the route under which the local uploads directory is
// served; local locators are paths beneath it.
const PublicPrefix = "/uploads"

// Local writes blobs beneath a fixed uploads directory.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir is the on-disk directory to mount at PublicPrefix.
func (l *Local) Dir() string {
	return l.dir
}

// Save streams the blob to disk under a uuid-prefixed name. filepath.Base
// strips any directory components a hostile filename might carry.
func (l *Local) Save(ctx context.Context, r io.Reader, filename string) (string, error) {
	name := uuid.New().String() + "_" + filepath.Base(filename)
	dstPath := filepath.Join(l.dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create blob file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		// do not leave a truncated file behind
		os.Remove(dstPath)
		return "", fmt.Errorf("write blob: %w", err)
	}

	return path.Join(PublicPrefix, name), nil
}
