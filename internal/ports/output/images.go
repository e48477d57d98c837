package output

import (
	"context"
	"io"
)

// ImageStore persists optional event images. Upload happens before the
// event record is committed; removal is best effort and must never be
// reported as an operation failure.
type ImageStore interface {
	// Put stores the image content and returns a reference URL.
	Put(ctx context.Context, name string, r io.Reader) (string, error)
	// Remove deletes the image behind ref.
	Remove(ctx context.Context, ref string) error
}
