package awss3

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/korben-sh/korben/internal/domain/plugin"
	"github.com/korben-sh/korben/internal/ports"
)

// Plugin returns the aws_s3 plugin descriptor.
func Plugin(runner ports.CommandRunner) plugin.Descriptor {
	return plugin.Descriptor{
		Name:    "aws_s3",
		Version: "v1.0.0",
		Tasks: func(b *plugin.Binder) error {
			b.Register("create_bucket", createBucket(runner))
			b.Register("delete_bucket", deleteBucket(runner))
			b.Register("upload_file_to_s3", uploadFile(runner))
			return nil
		},
	}
}

func createBucket(runner ports.CommandRunner) plugin.Callable {
	return func(ctx context.Context, params map[string]string) (string, error) {
		bucket := params["bucket_name"]
		if bucket == "" {
			return "", fmt.Errorf("no bucket_name specified, provide --param bucket_name=NAME")
		}

		allowPublic := params["allow_public"] == "true"
		expirationDays := 0
		if v := params["expiration_days"]; v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return "", fmt.Errorf("invalid expiration_days %q: %w", v, err)
			}
			expirationDays = n
		}

		svc := NewService(runner)
		if !svc.HasCredentials() {
			return "", fmt.Errorf("no AWS credentials found, set AWS_ACCESS_KEY_ID or configure ~/.aws/credentials")
		}
		if err := svc.CreateBucket(ctx, bucket, allowPublic, expirationDays); err != nil {
			return "", err
		}
		return fmt.Sprintf("Bucket %s is ready", bucket), nil
	}
}

func deleteBucket(runner ports.CommandRunner) plugin.Callable {
	return func(ctx context.Context, params map[string]string) (string, error) {
		bucket := params["bucket_name"]
		if bucket == "" {
			return "", fmt.Errorf("no bucket_name specified, provide --param bucket_name=NAME")
		}

		svc := NewService(runner)
		if err := svc.DeleteBucket(ctx, bucket); err != nil {
			return "", err
		}
		return fmt.Sprintf("Bucket %s and all its contents have been deleted", bucket), nil
	}
}

func uploadFile(runner ports.CommandRunner) plugin.Callable {
	return func(ctx context.Context, params map[string]string) (string, error) {
		bucket := params["bucket_name"]
		file := params["file"]
		if bucket == "" || file == "" {
			return "", fmt.Errorf("provide --param bucket_name=NAME and --param file=PATH")
		}

		key := params["key"]
		if key == "" {
			key = filepath.Base(file)
		}

		svc := NewService(runner)
		if err := svc.Upload(ctx, bucket, file, key); err != nil {
			return "", err
		}
		return fmt.Sprintf("Uploaded %s to s3://%s/%s", file, bucket, key), nil
	}
}
