package storage

import (
	"context"
	"fmt"
	"time"

	gcstorage "cloud.google.com/go/storage"
	"github.com/specforms/backend/config"
	"github.com/specforms/backend/internal/domain"
	"github.com/specforms/backend/internal/infrastructure/storage/gcs"
	"github.com/specforms/backend/internal/infrastructure/storage/local"
)

// NewSchemaStore builds the store selected by cfg.Type. The returned close func releases
// any client the store holds and is never nil.
func NewSchemaStore(
	ctx context.Context,
	cfg config.OutputConfig,
	index domain.FingerprintIndex,
	ttl time.Duration,
) (domain.SchemaStore, func() error, error) {
	switch cfg.Type {
	case "", config.OutputLocal:
		return local.NewStore(cfg.Dir, index, ttl), func() error { return nil }, nil
	case config.OutputGCS:
		if cfg.GCSBucket == "" {
			return nil, nil, fmt.Errorf("%w: gcs output requires a bucket", domain.ErrInvalidRequest)
		}
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("create storage client: %w", err)
		}
		return gcs.NewStore(client, cfg.GCSBucket, cfg.GCSPrefix), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown output type %q", domain.ErrInvalidRequest, cfg.Type)
	}
}
