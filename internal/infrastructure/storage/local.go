package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wb-go/wbf/zlog"

	"github.com/olekhv/shoplift/internal/config"
)

type localStorage struct {
	publicDir string
	uploadDir string
}

func NewLocalStorage(cfg *config.StorageConfig) (Storage, error) {
	if cfg.PublicDir == "" {
		return nil, fmt.Errorf("PublicDir is empty, set storage.public_dir in config or env")
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "upload"
	}

	s := &localStorage{
		publicDir: cfg.PublicDir,
		uploadDir: cfg.UploadDir,
	}

	if err := os.MkdirAll(filepath.Join(s.publicDir, s.uploadDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return s, nil
}

func (s *localStorage) Save(ctx context.Context, filename string, reader io.Reader) (string, error) {
	if reader == nil {
		zlog.Logger.Error().Str("filename", filename).Msg("reader is nil")
		return "", fmt.Errorf("reader is nil")
	}

	fullPath := filepath.Join(s.publicDir, s.uploadDir, filename)

	file, err := os.Create(fullPath)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to create file")
		return "", fmt.Errorf("create file %s: %w", fullPath, err)
	}
	defer file.Close()

	written, err := io.Copy(file, reader)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to write file")
		return "", fmt.Errorf("write file %s: %w", fullPath, err)
	}
	if written == 0 {
		zlog.Logger.Error().Str("path", fullPath).Msg("no bytes written to file")
		return "", fmt.Errorf("no bytes written to file %s", fullPath)
	}

	relativePath := filepath.Join(s.uploadDir, filename)
	zlog.Logger.Info().
		Str("path", relativePath).
		Int64("bytes", written).
		Msg("file saved")

	return relativePath, nil
}

func (s *localStorage) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.publicDir, s.uploadDir, filename)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", filename)
		}
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to open file")
		return nil, fmt.Errorf("open file %s: %w", fullPath, err)
	}

	return file, nil
}

// Delete treats a missing file as success: replacing an image whose old
// set was never written must not fail.
func (s *localStorage) Delete(ctx context.Context, filename string) error {
	if filename == "" {
		return nil
	}

	fullPath := filepath.Join(s.publicDir, s.uploadDir, filename)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			zlog.Logger.Warn().Str("path", fullPath).Msg("file not found, skipping delete")
			return nil
		}
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to delete file")
		return fmt.Errorf("delete file %s: %w", fullPath, err)
	}

	zlog.Logger.Info().Str("path", filename).Msg("file deleted")
	return nil
}
