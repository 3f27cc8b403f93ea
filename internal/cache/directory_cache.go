package cache

import (
	"context"
	"sync"
	"time"

	"github.com/nexadigital/nexa-api/internal/models"
	"github.com/nexadigital/nexa-api/pkg/logger"
	"github.com/nexadigital/nexa-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	countCacheKey  = "directory_count"
	countCacheName = "directory_count"
)

// CountLoader walks the directory and returns fresh stats
type CountLoader func(ctx context.Context) (*models.DirectoryStats, error)

// CountCache keeps the last directory count for a short TTL so landing
// page traffic does not page through the whole directory on every hit.
// A zero TTL disables caching.
type CountCache struct {
	cache *gocache.Cache
	ttl   time.Duration
	// serialises loads so concurrent misses trigger one walk
	loadMu sync.Mutex
}

// NewCountCache creates a count cache
func NewCountCache(ttl time.Duration) *CountCache {
	cleanup := ttl
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &CountCache{
		cache: gocache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// Enabled reports whether results are cached at all
func (cc *CountCache) Enabled() bool {
	return cc != nil && cc.ttl > 0
}

// Get returns cached stats or loads them on a miss
func (cc *CountCache) Get(ctx context.Context, load CountLoader) (*models.DirectoryStats, error) {
	if !cc.Enabled() {
		return load(ctx)
	}

	if stats, ok := cc.lookup(); ok {
		metrics.CacheHits.WithLabelValues(countCacheName).Inc()
		logger.Debug("Directory count cache hit")
		return stats, nil
	}

	cc.loadMu.Lock()
	defer cc.loadMu.Unlock()

	// another request may have filled it while we waited
	if stats, ok := cc.lookup(); ok {
		metrics.CacheHits.WithLabelValues(countCacheName).Inc()
		return stats, nil
	}

	metrics.CacheMisses.WithLabelValues(countCacheName).Inc()
	logger.Info("Directory count cache miss, walking directory")

	return cc.refreshLocked(ctx, load)
}

// Refresh loads fresh stats and replaces the cached value
func (cc *CountCache) Refresh(ctx context.Context, load CountLoader) (*models.DirectoryStats, error) {
	if !cc.Enabled() {
		return load(ctx)
	}
	cc.loadMu.Lock()
	defer cc.loadMu.Unlock()
	return cc.refreshLocked(ctx, load)
}

// Invalidate drops the cached value
func (cc *CountCache) Invalidate() {
	if cc.Enabled() {
		cc.cache.Delete(countCacheKey)
	}
}

func (cc *CountCache) refreshLocked(ctx context.Context, load CountLoader) (*models.DirectoryStats, error) {
	stats, err := load(ctx)
	if err != nil {
		logger.Error("Failed to refresh directory count cache", zap.Error(err))
		return nil, err
	}

	stored := *stats
	cc.cache.Set(countCacheKey, stored, cc.ttl)

	logger.Info("Directory count cache refreshed",
		zap.Int("total", stats.Total),
		zap.Int("batches", stats.Batches))

	return stats, nil
}

func (cc *CountCache) lookup() (*models.DirectoryStats, bool) {
	data, found := cc.cache.Get(countCacheKey)
	if !found {
		return nil, false
	}
	stats, ok := data.(models.DirectoryStats)
	if !ok {
		logger.Error("Invalid directory count cache data type")
		cc.cache.Delete(countCacheKey)
		return nil, false
	}
	return &stats, true
}
