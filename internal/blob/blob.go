// Package blob abstracts where image bytes live: a local uploads directory
// in development, an S3-compatible bucket in production. Either way callers
// get back a locator suitable for storing on the post row.
package blob

import (
	"context"
	"io"
	"time"
)

// Store durably saves a blob and returns its locator. The filename is a
// hint for the stored name; implementations must treat it as untrusted.
type Store interface {
	Save(ctx context.Context, r io.Reader, filename string) (string, error)
}

// Presigner is implemented by stores whose objects are not publicly
// readable; it converts a stored locator into a short-lived signed URL.
type Presigner interface {
	PresignGet(ctx context.Context, locator string, expires time.Duration) (string, error)
}
