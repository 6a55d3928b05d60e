package sensorstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/assistant-actions/internal/domain/device"
	"github.com/yanqian/assistant-actions/internal/infra/config"
)

// Store reads and replaces the single fallback record.
type Store interface {
	Load(ctx context.Context) (device.SensorReading, error)
	Save(ctx context.Context, reading device.SensorReading) error
}

// Open selects the backend named in cfg.
func Open(cfg config.FallbackConfig, logger *slog.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", config.FallbackBackendFile:
		return NewFileStore(cfg.Path), nil
	case config.FallbackBackendS3:
		return NewS3Store(cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.Key, cfg.S3.Region, logger)
	default:
		return nil, fmt.Errorf("unknown fallback backend %q", cfg.Backend)
	}
}

var (
	_ Store                = (*FileStore)(nil)
	_ Store                = (*S3Store)(nil)
	_ device.FallbackStore = (*FileStore)(nil)
)
