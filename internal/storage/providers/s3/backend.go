// Package s3 uploads backup artifacts to an Amazon S3 bucket.
package s3

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"

	"github.com/abolmasow/electronic-library/internal/config"
)

// Backend implements storage.Backend over the S3 API.
type Backend struct {
	svc    *awss3.S3
	bucket string
	prefix string
}

// NewBackend creates an S3 backend with static credentials from config.
func NewBackend(cfg config.S3) *Backend {
	sess := session.Must(session.NewSession(&aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}))

	return &Backend{
		svc:    awss3.New(sess),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}
}

func (b *Backend) Name() string { return "s3" }

// Upload puts the local file under <prefix>/<basename> in the bucket.
func (b *Backend) Upload(ctx context.Context, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	key := path.Join(b.prefix, filepath.Base(localPath))
	if _, err := b.svc.PutObjectWithContext(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   file,
	}); err != nil {
		return fmt.Errorf("s3 upload of %s failed: %w", key, err)
	}
	return nil
}
