// Package images stores optional event images in a local directory. Blob
// storage proper is an external collaborator; this adapter keeps the
// attach/cleanup flow exercisable behind the ImageStore port.
package images

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	"mixerboard/internal/ports/output"
)

var _ output.ImageStore = (*LocalImageStore)(nil)

// LocalImageStore writes images under a single directory and hands out
// file:// references.
type LocalImageStore struct {
	dir string
}

// NewLocalImageStore creates dir if needed and returns a store over it.
func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("image dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &LocalImageStore{dir: abs}, nil
}

// Put stores the content under a fresh name (the original extension is
// kept) and returns a file:// reference.
func (s *LocalImageStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := filepath.Ext(name)
	target := filepath.Join(s.dir, "img_"+strings.ToLower(ulid.Make().String())+ext)

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("store image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("store image: %w", err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(target)}).String(), nil
}

// Remove deletes the image behind ref. Only references inside the store's
// directory are honored.
func (s *LocalImageStore) Remove(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "file" {
		return fmt.Errorf("remove image: not a file reference: %q", ref)
	}
	path := filepath.FromSlash(u.Path)
	if !strings.HasPrefix(path, s.dir+string(filepath.Separator)) {
		return fmt.Errorf("remove image: %q is outside the image dir", ref)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
