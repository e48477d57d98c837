package images

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalImageStore_PutAndRemove(t *testing.T) {
	s, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := s.Put(ctx, "poster.png", strings.NewReader("fake png bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "file://"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	u, err := url.Parse(ref)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.FromSlash(u.Path))
	require.NoError(t, err)
	assert.Equal(t, "fake png bytes", string(data))

	require.NoError(t, s.Remove(ctx, ref))
	_, err = os.Stat(filepath.FromSlash(u.Path))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalImageStore_RemoveRejectsOutsideRefs(t *testing.T) {
	s, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	outside := filepath.Join(t.TempDir(), "other.png")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	err = s.Remove(context.Background(), (&url.URL{Scheme: "file", Path: filepath.ToSlash(outside)}).String())
	assert.Error(t, err)
	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr, "file outside the store must not be touched")

	assert.Error(t, s.Remove(context.Background(), "https://example.com/x.png"))
}
