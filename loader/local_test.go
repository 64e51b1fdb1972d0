package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLoader(t *testing.T) {
	root := t.TempDir()
	key := "2d249780-7fe9-4c49-aa31-0a30d56afa0f/6ee17b58-7008-41e9-a612-320017981ea0.jpg"

	dir := filepath.Join(root, "2d249780-7fe9-4c49-aa31-0a30d56afa0f")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, filepath.FromSlash(key)), []byte("jpeg bytes"), 0o644))

	l := NewLocalLoader(root)
	ctx := context.Background()

	present, err := l.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, present)

	present, err = l.Exists(ctx, "missing/owner.jpg")
	require.NoError(t, err)
	assert.False(t, present)

	dest := filepath.Join(t.TempDir(), "downloaded.jpg")
	require.NoError(t, l.Download(ctx, key, dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestLocalLoaderDownloadMissing(t *testing.T) {
	l := NewLocalLoader(t.TempDir())
	err := l.Download(context.Background(), "nope/never.jpg", filepath.Join(t.TempDir(), "out.jpg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
