package media

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// OrphanSource lists and forgets recorded orphaned asset keys.
type OrphanSource interface {
	Keys(ctx context.Context) ([]string, error)
	Remove(ctx context.Context, assetKey string) error
}

// AssetDeleter releases a hosted asset. Delete must be idempotent.
type AssetDeleter interface {
	Delete(ctx context.Context, assetKey string) error
}

// Reconciler releases hosted assets whose diary entry was never
// persisted. The pipeline only records the keys; the actual delete runs
// here, out of band, so a persistence failure never turns into an in-band
// compensating call.
type Reconciler struct {
	orphans OrphanSource
	assets  AssetDeleter
}

func NewReconciler(orphans OrphanSource, assets AssetDeleter) *Reconciler {
	return &Reconciler{orphans: orphans, assets: assets}
}

// Start schedules the nightly sweep (03:00).
func (r *Reconciler) Start() *cron.Cron {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		r.Sweep(ctx)
	})
	if err != nil {
		log.Printf("Failed to create reconciler cron job: %v", err)
		return c
	}

	log.Println("Orphan asset reconciler started (running nightly at 3:00AM)")
	c.Start()
	return c
}

// Sweep deletes every recorded orphaned asset and forgets the keys that
// were released. Keys that fail to delete stay queued for the next run.
func (r *Reconciler) Sweep(ctx context.Context) {
	keys, err := r.orphans.Keys(ctx)
	if err != nil {
		log.Printf("[error] operation=orphan_sweep error=%v", err)
		return
	}
	if len(keys) == 0 {
		return
	}

	log.Printf("[info] operation=orphan_sweep message=releasing orphaned assets count=%d", len(keys))

	released := 0
	for _, key := range keys {
		if err := r.assets.Delete(ctx, key); err != nil {
			log.Printf("[warn] operation=orphan_sweep asset_key=%s error=%v", key, err)
			continue
		}
		if err := r.orphans.Remove(ctx, key); err != nil {
			log.Printf("[warn] operation=orphan_sweep asset_key=%s error=%v", key, err)
			continue
		}
		released++
	}

	log.Printf("[info] operation=orphan_sweep message=sweep finished released=%d remaining=%d", released, len(keys)-released)
}
