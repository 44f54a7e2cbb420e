package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/storage"
)

func TestLocalDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	disk := storage.NewLocalDisk(t.TempDir(), "http://localhost:8080/storage/")

	require.NoError(t, disk.Put(ctx, "exports/products.json", []byte(`[]`)))
	assert.True(t, disk.Exists(ctx, "exports/products.json"))
	assert.FileExists(t, filepath.Join(disk.Root(), "exports", "products.json"))

	data, err := disk.Get(ctx, "exports/products.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	assert.Equal(t, "http://localhost:8080/storage/exports/products.json", disk.URL("/exports/products.json"))

	require.NoError(t, disk.Delete(ctx, "exports/products.json"))
	assert.False(t, disk.Exists(ctx, "exports/products.json"))
	assert.NoError(t, disk.Delete(ctx, "exports/products.json"), "deleting a missing file is not an error")
}

func TestLocalDiskGetMissing(t *testing.T) {
	disk := storage.NewLocalDisk(t.TempDir(), "")

	_, err := disk.Get(context.Background(), "nope.json")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLocalDiskStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	parent := t.TempDir()
	root := filepath.Join(parent, "disk")
	disk := storage.NewLocalDisk(root, "")

	require.NoError(t, disk.Put(ctx, "../escape.json", []byte(`{}`)))

	_, err := os.Stat(filepath.Join(parent, "escape.json"))
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, filepath.Join(root, "escape.json"))
}

func TestRegisterAndUse(t *testing.T) {
	disk := storage.NewLocalDisk(t.TempDir(), "")
	storage.RegisterDisk("scratch", disk)

	got, err := storage.Use("scratch")
	require.NoError(t, err)
	assert.Same(t, disk, got)
	assert.Contains(t, storage.Names(), "scratch")

	_, err = storage.Use("missing")
	assert.Error(t, err)
}
