package main

import (
	"context"
	"fmt"

	"github.com/Cameron831/CloudStreamer/config"
	"github.com/Cameron831/CloudStreamer/store/memory"
	"github.com/Cameron831/CloudStreamer/store/minio"
	"github.com/Cameron831/CloudStreamer/store/s3"
	"github.com/Cameron831/CloudStreamer/streamtypes"
)

// newStore builds the backend selected by cfg.Backend.
func newStore(ctx context.Context, cfg config.StoreConfig) (streamtypes.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(cfg.Bucket), nil

	case config.BackendMinio:
		store, err := minio.New(minio.Config{
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Region:          cfg.Region,
			Secure:          cfg.Secure,
		})
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendS3:
		opts := []s3.Option{
			s3.WithRegion(cfg.Region),
			s3.WithMaxRetries(cfg.MaxRetries),
			s3.WithForcePathStyle(cfg.ForcePathStyle),
		}
		if cfg.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(cfg.Endpoint))
		}
		if cfg.AccessKeyID != "" {
			opts = append(opts, s3.WithStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken))
		}
		store, err := s3.New(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
