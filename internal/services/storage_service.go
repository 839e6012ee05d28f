// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/listing-intake/internal/config"
)

// BlobStore stores media bytes under a path. Writing an existing path
// replaces the object. Put returns the path recorded in the database.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// NewBlobStore builds the backend named by cfg.Backend.
func NewBlobStore(ctx context.Context, cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3BlobStore(cfg)
	case "minio":
		return NewMinioBlobStore(ctx, cfg)
	case "local":
		return NewLocalBlobStore(cfg.LocalDir), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// S3BlobStore talks to AWS S3 or an S3 compatible endpoint such as
// Supabase Storage.
type S3BlobStore struct {
	client       *s3.S3
	bucket       string
	cacheControl string
}

func NewS3BlobStore(cfg config.StorageConfig) (*S3BlobStore, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	logrus.WithFields(logrus.Fields{"bucket": cfg.Bucket, "endpoint": cfg.Endpoint}).Info("Using S3 blob store")
	return &S3BlobStore{
		client:       s3.New(sess),
		bucket:       cfg.Bucket,
		cacheControl: cfg.CacheControl,
	}, nil
}

func (s *S3BlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if s.cacheControl != "" {
		params.CacheControl = aws.String(s.cacheControl)
	}

	if _, err := s.client.PutObjectWithContext(ctx, params); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return path, nil
}

type MinioBlobStore struct {
	client       *minio.Client
	bucket       string
	cacheControl string
}

// NewMinioBlobStore connects and creates the bucket when it is missing.
func NewMinioBlobStore(ctx context.Context, cfg config.StorageConfig) (*MinioBlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logrus.WithField("bucket", cfg.Bucket).Info("Created blob store bucket")
	}

	logrus.WithFields(logrus.Fields{"bucket": cfg.Bucket, "endpoint": cfg.Endpoint}).Info("Using MinIO blob store")
	return &MinioBlobStore{
		client:       client,
		bucket:       cfg.Bucket,
		cacheControl: cfg.CacheControl,
	}, nil
}

func (s *MinioBlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: s.cacheControl,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", path, s.bucket, err)
	}
	return path, nil
}

// LocalBlobStore writes under a directory. Used in development, where the
// router also serves the directory at /uploads.
type LocalBlobStore struct {
	dir string
}

func NewLocalBlobStore(dir string) *LocalBlobStore {
	return &LocalBlobStore{dir: dir}
}

func (s *LocalBlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	root := filepath.Clean(s.dir)
	target := filepath.Join(root, filepath.FromSlash(path))
	if !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes upload directory", path)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}
