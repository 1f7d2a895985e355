package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/wb-go/wbf/zlog"

	"github.com/olekhv/shoplift/internal/config"
)

// Storage persists image derivative files under the public upload
// directory. Save overwrites any existing file with the same name.
type Storage interface {
	Save(ctx context.Context, filename string, reader io.Reader) (string, error)
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
	Delete(ctx context.Context, filename string) error
}

func New(cfg *config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "local":
		zlog.Logger.Info().Msg("Initializing local storage")
		return NewLocalStorage(cfg)
	case "s3":
		zlog.Logger.Info().Msg("Initializing S3 storage")
		return NewS3Storage(cfg)
	default:
		zlog.Logger.Error().Str("type", cfg.Type).Msg("Unsupported storage type, use 'local' or 's3'")
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
