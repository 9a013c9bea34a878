package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/choudharyperfumes/storefront/config"
)

// Bucket stores uploaded images and hands back their public URL.
type Bucket interface {
	Put(ctx context.Context, objectName, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, objectName string) error
	// ObjectName reverses a public URL produced by Put. ok is false for URLs
	// this bucket does not own, such as the placeholder image.
	ObjectName(publicURL string) (name string, ok bool)
}

// New picks the backend named by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Bucket, error) {
	switch cfg.StorageDriver {
	case "r2":
		return NewR2(ctx, R2Options{
			Bucket:          cfg.R2Bucket,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			Endpoint:        cfg.R2Endpoint,
			PublicDomain:    cfg.R2PublicDomain,
		})
	case "gcs":
		return NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentials)
	case "local", "":
		return NewLocal(cfg.UploadDir, "/uploads")
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}

// DeleteURLs removes every object behind urls that b owns and reports the
// first failure.
func DeleteURLs(ctx context.Context, b Bucket, urls ...string) error {
	var firstErr error
	for _, u := range urls {
		name, ok := b.ObjectName(u)
		if !ok {
			continue
		}
		if err := b.Delete(ctx, name); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", name, err)
		}
	}
	return firstErr
}
