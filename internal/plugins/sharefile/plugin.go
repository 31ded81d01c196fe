// Package sharefile shares local files through temporary public S3 buckets.
package sharefile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/korben-sh/korben/internal/domain/plugin"
	"github.com/korben-sh/korben/internal/plugins/awss3"
	"github.com/korben-sh/korben/internal/ports"
)

const defaultExpirationDays = 3

// Plugin returns the share_file plugin descriptor. It builds on the aws_s3
// plugin's bucket handling.
func Plugin(runner ports.CommandRunner) plugin.Descriptor {
	return plugin.Descriptor{
		Name:         "share_file",
		Version:      "v1.0.0",
		Dependencies: []string{"aws_s3"},
		Tasks: func(b *plugin.Binder) error {
			b.Register("share_file", shareFile(runner))
			return nil
		},
	}
}

func shareFile(runner ports.CommandRunner) plugin.Callable {
	return func(ctx context.Context, params map[string]string) (string, error) {
		file := params["file"]
		if file == "" {
			return "", fmt.Errorf("no file specified, provide --param file=PATH")
		}
		if _, err := os.Stat(file); err != nil {
			return "", fmt.Errorf("file not found: %s", file)
		}

		expirationDays := defaultExpirationDays
		if v := params["expiration"]; v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return "", fmt.Errorf("invalid expiration %q: %w", v, err)
			}
			expirationDays = n
		}

		bucket := "share-" + uuid.New().String()
		key := filepath.Base(file)

		svc := awss3.NewService(runner)
		if err := svc.CreateBucket(ctx, bucket, true, expirationDays); err != nil {
			return "", fmt.Errorf("creating share bucket: %w", err)
		}
		if err := svc.Upload(ctx, bucket, file, key); err != nil {
			return "", fmt.Errorf("uploading %s: %w", file, err)
		}

		url := svc.PublicURL(bucket, key)
		return fmt.Sprintf("File shared for %d day(s): %s", expirationDays, url), nil
	}
}
