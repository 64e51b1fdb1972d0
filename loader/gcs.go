package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"cloud.google.com/go/storage"
)

// GCSLoader fetches images from a Google Cloud Storage bucket.
type GCSLoader struct {
	client *storage.Client
	bucket string
}

func NewGCSLoader(client *storage.Client, bucket string) *GCSLoader {
	return &GCSLoader{client: client, bucket: bucket}
}

func (l *GCSLoader) Exists(ctx context.Context, key string) (bool, error) {
	_, err := l.client.Bucket(l.bucket).Object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s/%s: %w", l.bucket, key, err)
	}
	return true, nil
}

func (l *GCSLoader) Download(ctx context.Context, key, dest string) error {
	log.Printf("downloading gs://%s/%s to %s", l.bucket, key, dest)

	reader, err := l.client.Bucket(l.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%w: %s/%s", ErrKeyNotFound, l.bucket, key)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s/%s: %w", l.bucket, key, err)
	}
	defer reader.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return fmt.Errorf("failed to download %s/%s: %w", l.bucket, key, err)
	}
	return nil
}
