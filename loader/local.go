package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalLoader serves keys from a directory tree, mirroring the bucket
// layout. Used by the CLI and in tests.
type LocalLoader struct {
	root string
}

func NewLocalLoader(root string) *LocalLoader {
	return &LocalLoader{root: root}
}

func (l *LocalLoader) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(l.root, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return true, nil
}

func (l *LocalLoader) Download(_ context.Context, key, dest string) error {
	src := filepath.Join(l.root, filepath.FromSlash(key))
	in, err := os.Open(src)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", key, err)
	}
	return nil
}
