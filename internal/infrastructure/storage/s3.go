package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/zlog"

	"github.com/olekhv/shoplift/internal/config"
)

type s3Storage struct {
	client    *minio.Client
	bucket    string
	uploadDir string
}

func NewS3Storage(cfg *config.StorageConfig) (Storage, error) {
	if cfg.S3Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "upload"
	}

	creds := credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, "")
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize s3 client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check s3 bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3Bucket, minio.MakeBucketOptions{Region: cfg.S3Region}); err != nil {
			zlog.Logger.Warn().Err(err).Str("bucket", cfg.S3Bucket).Msg("unable to create bucket, ensure it exists and credentials are correct")
		} else {
			zlog.Logger.Info().Str("bucket", cfg.S3Bucket).Msg("created s3 bucket")
		}
	}

	return &s3Storage{
		client:    client,
		bucket:    cfg.S3Bucket,
		uploadDir: cfg.UploadDir,
	}, nil
}

func (s *s3Storage) Save(ctx context.Context, filename string, reader io.Reader) (string, error) {
	if reader == nil {
		zlog.Logger.Error().Str("filename", filename).Msg("reader is nil")
		return "", fmt.Errorf("reader is nil")
	}

	objectName := path.Join(s.uploadDir, filename)

	if _, err := s.client.PutObject(ctx, s.bucket, objectName, reader, -1, minio.PutObjectOptions{}); err != nil {
		zlog.Logger.Error().Err(err).Str("object", objectName).Msg("failed to put object to s3")
		return "", fmt.Errorf("put object %s: %w", objectName, err)
	}

	zlog.Logger.Info().Str("path", objectName).Msg("object saved to s3")
	return objectName, nil
}

func (s *s3Storage) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	objectName := path.Join(s.uploadDir, filename)

	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		zlog.Logger.Error().Err(err).Str("object", objectName).Msg("failed to get object")
		return nil, fmt.Errorf("get object %s: %w", objectName, err)
	}

	if _, err := obj.Stat(); err != nil {
		return nil, fmt.Errorf("object not found: %s", objectName)
	}

	return obj, nil
}

func (s *s3Storage) Delete(ctx context.Context, filename string) error {
	if filename == "" {
		return nil
	}

	objectName := path.Join(s.uploadDir, filename)

	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		zlog.Logger.Error().Err(err).Str("path", objectName).Msg("failed to delete object from s3")
		return fmt.Errorf("remove object %s: %w", objectName, err)
	}

	zlog.Logger.Info().Str("path", objectName).Msg("object deleted from s3")
	return nil
}
