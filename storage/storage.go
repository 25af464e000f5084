// Package storage keeps product images uploaded on wizard step 1 until the
// product is submitted to the backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/raushankrgupta/merchant-dashboard/config"
	"github.com/raushankrgupta/merchant-dashboard/logx"
)

// ErrNotFound is returned when a key has no object
var ErrNotFound = errors.New("object not found")

type PutInput struct {
	Filename    string
	ContentType string
}

type PutResult struct {
	Key  string
	Size int64
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// FromConfig builds the driver selected by STORAGE_DRIVER
func FromConfig(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocal(cfg.LocalUploadDir), nil
	case "s3":
		if cfg.S3Region == "" || cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3 config missing: S3_REGION and S3_BUCKET are required")
		}
		return NewS3(ctx, S3Config{
			Region: cfg.S3Region,
			Bucket: cfg.S3Bucket,
			Prefix: cfg.S3Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER: %s", cfg.StorageDriver)
	}
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return ext
	default:
		return ""
	}
}

// Sweeper deletes staged objects last written before a cutoff
type Sweeper interface {
	Sweep(ctx context.Context, before time.Time) (int, error)
}

// RunJanitor sweeps objects older than maxAge right away and then every
// interval until ctx is done. Drafts expire on their own, so their images
// are only reclaimed here.
func RunJanitor(ctx context.Context, s Sweeper, maxAge, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		n, err := s.Sweep(ctx, time.Now().Add(-maxAge))
		if err != nil {
			logx.Warn().Err(err).Msg("failed to sweep staged images")
		} else if n > 0 {
			logx.Info().Int("deleted", n).Msg("swept abandoned staged images")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
