package storage

import (
	"Blips/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
)

// New builds the backend selected by cfg.Storage.Type
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	var (
		s   Storage
		err error
	)
	switch cfg.Storage.Type {
	case config.StorageLocal:
		s, err = NewLocalStorage(cfg.Storage.LocalPath, cfg.Server.PublicURL)
	case config.StorageS3:
		s, err = NewS3Storage(cfg.Storage.S3)
	case config.StorageMinIO:
		s, err = NewMinIOStorage(ctx, cfg.Storage.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
	if err != nil {
		return nil, err
	}
	log.Info("Storage initialized", "type", s.Kind())
	return s, nil
}
