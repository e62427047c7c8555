package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Set of provider asset keys whose upload succeeded but whose entry was
// never persisted: diary:orphan-assets
const orphanSetKey = "diary:orphan-assets"

// OrphanRepository tracks hosted assets left behind by failed pipeline
// runs so the reconciler can release them.
type OrphanRepository struct {
	client *redis.Client
}

// NewOrphanRepository creates a new orphan asset repository.
func NewOrphanRepository(client *redis.Client) *OrphanRepository {
	return &OrphanRepository{client: client}
}

// Add records an orphaned asset key.
func (r *OrphanRepository) Add(ctx context.Context, assetKey string) error {
	if assetKey == "" {
		return fmt.Errorf("asset key required")
	}
	if err := r.client.SAdd(ctx, orphanSetKey, assetKey).Err(); err != nil {
		return fmt.Errorf("failed to record orphaned asset: %w", err)
	}
	return nil
}

// Keys returns every recorded orphaned asset key.
func (r *OrphanRepository) Keys(ctx context.Context) ([]string, error) {
	keys, err := r.client.SMembers(ctx, orphanSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list orphaned assets: %w", err)
	}
	return keys, nil
}

// Remove forgets an asset key once the asset has been released.
func (r *OrphanRepository) Remove(ctx context.Context, assetKey string) error {
	if err := r.client.SRem(ctx, orphanSetKey, assetKey).Err(); err != nil {
		return fmt.Errorf("failed to remove orphaned asset: %w", err)
	}
	return nil
}
