package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalDisk stores files below a root directory.
type LocalDisk struct {
	root    string
	baseURL string
}

// NewLocalDisk returns a disk rooted at root. A relative root is resolved
// against the working directory.
func NewLocalDisk(root, baseURL string) *LocalDisk {
	if !filepath.IsAbs(root) {
		cwd, _ := os.Getwd()
		root = filepath.Join(cwd, root)
	}
	return &LocalDisk{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Root returns the absolute root directory.
func (d *LocalDisk) Root() string { return d.root }

func (d *LocalDisk) abs(path string) string {
	// Clean against "/" so "../" segments cannot climb out of root.
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	return filepath.Join(d.root, clean)
}

func (d *LocalDisk) Put(_ context.Context, path string, content []byte) error {
	full := d.abs(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	return nil
}

func (d *LocalDisk) Get(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(d.abs(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage/local: get %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: get %s: %w", path, err)
	}
	return data, nil
}

func (d *LocalDisk) Exists(_ context.Context, path string) bool {
	info, err := os.Stat(d.abs(path))
	return err == nil && !info.IsDir()
}

func (d *LocalDisk) Delete(_ context.Context, path string) error {
	err := os.Remove(d.abs(path))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}

func (d *LocalDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}
