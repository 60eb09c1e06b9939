// Package storage holds rendered chart and spreadsheet artifacts.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/RMahshie/specplot/internal/config"
)

// ErrNotFound is returned by Get when no artifact exists under the key
var ErrNotFound = errors.New("artifact not found")

// ArtifactStore persists published artifacts and hands out download URLs
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	DownloadURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New builds the store selected by cfg.Storage.Backend
func New(ctx context.Context, cfg *config.Config) (ArtifactStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendLocal, "":
		return NewLocalStore(cfg.Storage.OutputDir, "/artifacts")
	case config.BackendS3:
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.AWS.S3Bucket,
			Endpoint:  cfg.AWS.S3Endpoint,
			Region:    cfg.AWS.Region,
			AccessKey: cfg.AWS.AccessKeyID,
			SecretKey: cfg.AWS.SecretAccessKey,
		})
	case config.BackendMinIO:
		return NewMinIOStore(ctx, MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			Bucket:    cfg.AWS.S3Bucket,
			AccessKey: cfg.AWS.AccessKeyID,
			SecretKey: cfg.AWS.SecretAccessKey,
			UseSSL:    cfg.MinIO.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// validateContentType validates that the content type is one we publish
func validateContentType(contentType string) error {
	validTypes := map[string]bool{
		"image/svg+xml": true,
		"image/png":     true,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	}

	if !validTypes[contentType] {
		return fmt.Errorf("invalid content type: %s. Supported types: image/svg+xml, image/png, xlsx", contentType)
	}

	return nil
}

// cleanKey rejects keys that would escape the store root
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))[1:]
	if k == "" || k == "." {
		return "", fmt.Errorf("invalid artifact key %q", key)
	}
	return k, nil
}
