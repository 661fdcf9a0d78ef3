package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Local, string) {
	t.Helper()
	root := t.TempDir()
	store, err := NewLocal(root, zerolog.Nop())
	require.NoError(t, err)
	return store, root
}

func TestSaveWritesUnderImagesDirectory(t *testing.T) {
	store, root := newStore(t)

	stored, err := store.Save(context.Background(), "events", "images-1-abc.png", strings.NewReader("png"))
	require.NoError(t, err)
	require.Equal(t, "/images/events/images-1-abc.png", stored)

	content, err := os.ReadFile(filepath.Join(root, "images", "events", "images-1-abc.png"))
	require.NoError(t, err)
	require.Equal(t, "png", string(content))
}

func TestSaveRefusesOverwriteAndTraversal(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Save(context.Background(), "news", "a.png", strings.NewReader("1"))
	require.NoError(t, err)
	_, err = store.Save(context.Background(), "news", "a.png", strings.NewReader("2"))
	require.Error(t, err)

	_, err = store.Save(context.Background(), "../etc", "a.png", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrInvalidPath)
	_, err = store.Save(context.Background(), "news", "../a.png", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestRemoveToleratesMissingFiles(t *testing.T) {
	store, root := newStore(t)

	stored, err := store.Save(context.Background(), "team", "image-1.jpg", strings.NewReader("jpg"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(context.Background(), stored))
	_, err = os.Stat(filepath.Join(root, "images", "team", "image-1.jpg"))
	require.True(t, os.IsNotExist(err))

	require.NoError(t, store.Remove(context.Background(), stored))
}

func TestRemoveRejectsPathsOutsideImages(t *testing.T) {
	store, root := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), []byte("x"), 0o644))

	for _, stored := range []string{"/keep.txt", "/images/../keep.txt", "/images", "https://cdn.example/a.png"} {
		require.ErrorIs(t, store.Remove(context.Background(), stored), ErrInvalidPath, stored)
	}
	_, err := os.Stat(filepath.Join(root, "keep.txt"))
	require.NoError(t, err)
}
