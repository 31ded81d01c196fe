// Package awss3 manages S3 buckets and objects by driving the aws CLI.
package awss3

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/korben-sh/korben/internal/ports"
)

// Service wraps the aws CLI behind the CommandRunner port.
type Service struct {
	Runner ports.CommandRunner
	Region string
}

// NewService creates a Service using AWS_REGION (default us-east-2).
func NewService(runner ports.CommandRunner) *Service {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	return &Service{Runner: runner, Region: region}
}

// HasCredentials reports whether AWS credentials are available, either in
// the environment or in ~/.aws/credentials.
func (s *Service) HasCredentials() bool {
	if os.Getenv("AWS_ACCESS_KEY_ID") != "" {
		return true
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	creds, err := ini.Load(filepath.Join(home, ".aws", "credentials"))
	if err != nil {
		return false
	}
	for _, section := range creds.Sections() {
		if section.HasKey("aws_access_key_id") {
			return true
		}
	}
	return false
}

// run executes one aws CLI invocation, converting non-zero exits to errors.
func (s *Service) run(ctx context.Context, args ...string) (string, error) {
	res, err := s.Runner.Run(ctx, "aws", args...)
	if err != nil {
		return "", fmt.Errorf("running aws %s: %w", args[0], err)
	}
	if !res.Success() {
		return "", fmt.Errorf("aws %s failed: %s", args[0], res.Stderr)
	}
	return res.Stdout, nil
}

// BucketExists checks for a bucket with head-bucket.
func (s *Service) BucketExists(ctx context.Context, bucket string) bool {
	res, err := s.Runner.Run(ctx, "aws", "s3api", "head-bucket", "--bucket", bucket)
	return err == nil && res.Success()
}

// CreateBucket creates a bucket if it does not already exist. With
// allowPublic the bucket policy permits public reads; with expirationDays
// objects expire after that many days.
func (s *Service) CreateBucket(ctx context.Context, bucket string, allowPublic bool, expirationDays int) error {
	if s.BucketExists(ctx, bucket) {
		return nil
	}

	args := []string{"s3api", "create-bucket", "--bucket", bucket, "--region", s.Region}
	// us-east-1 rejects an explicit location constraint.
	if s.Region != "us-east-1" {
		args = append(args, "--create-bucket-configuration", "LocationConstraint="+s.Region)
	}
	if _, err := s.run(ctx, args...); err != nil {
		return err
	}

	if allowPublic {
		if _, err := s.run(ctx, "s3api", "delete-public-access-block", "--bucket", bucket); err != nil {
			return err
		}
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Sid":"PublicReadGetObject","Effect":"Allow","Principal":"*","Action":"s3:GetObject","Resource":"arn:aws:s3:::%s/*"}]}`, bucket)
		if _, err := s.run(ctx, "s3api", "put-bucket-policy", "--bucket", bucket, "--policy", policy); err != nil {
			return err
		}
	}

	if expirationDays > 0 {
		lifecycle := fmt.Sprintf(`{"Rules":[{"ID":"expire-objects","Status":"Enabled","Filter":{"Prefix":""},"Expiration":{"Days":%d}}]}`, expirationDays)
		if _, err := s.run(ctx, "s3api", "put-bucket-lifecycle-configuration", "--bucket", bucket, "--lifecycle-configuration", lifecycle); err != nil {
			return err
		}
	}
	return nil
}

// DeleteBucket removes a bucket and all of its contents.
func (s *Service) DeleteBucket(ctx context.Context, bucket string) error {
	_, err := s.run(ctx, "s3", "rb", "s3://"+bucket, "--force")
	return err
}

// Upload copies a local file into a bucket under key.
func (s *Service) Upload(ctx context.Context, bucket, file, key string) error {
	_, err := s.run(ctx, "s3", "cp", file, fmt.Sprintf("s3://%s/%s", bucket, key))
	return err
}

// PublicURL returns the public object URL for a key.
func (s *Service) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.Region, key)
}
