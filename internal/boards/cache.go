package boards

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"insight-workers/internal/common/database"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
	"insight-workers/internal/common/metrics"
	"insight-workers/internal/models"
)

const cacheKeyPrefix = "bi:board:"

// CacheOptions tunes Cache. Entries younger than TTL are fresh; entries
// younger than TTL+StaleWindow are served while a refresh runs.
type CacheOptions struct {
	TTL          time.Duration
	StaleWindow  time.Duration
	FetchTimeout time.Duration
}

type cacheEntry struct {
	FetchedAt time.Time        `json:"fetchedAt"`
	Table     *models.RawTable `json:"table"`
}

// Cache is a Redis read-through cache in front of a Source. It is itself a
// Source. Redis failures fall back to fetching directly.
type Cache struct {
	source Source
	redis  *database.RedisClient
	opts   CacheOptions
	log    logger.Logger
	now    func() time.Time

	group      singleflight.Group
	refreshing sync.WaitGroup
}

func NewCache(source Source, redis *database.RedisClient, opts CacheOptions, log logger.Logger) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 15 * time.Second
	}
	return &Cache{
		source: source,
		redis:  redis,
		opts:   opts,
		log:    log.With(map[string]interface{}{"component": "board-cache"}),
		now:    time.Now,
	}
}

func (c *Cache) Name() string { return c.source.Name() }

func cacheKey(boardID string) string { return cacheKeyPrefix + boardID }

func (c *Cache) Fetch(ctx context.Context, boardID string) (*models.RawTable, error) {
	key := cacheKey(boardID)

	var entry cacheEntry
	found, err := c.redis.GetJSON(ctx, key, &entry)
	switch {
	case err != nil:
		metrics.BoardCacheResults.WithLabelValues(metrics.CacheError).Inc()
		c.log.Warn("Board cache read failed, fetching directly", map[string]interface{}{
			"boardId": boardID,
			"error":   err.Error(),
		})
	case found && entry.Table != nil:
		age := c.now().Sub(entry.FetchedAt)
		if age <= c.opts.TTL {
			metrics.BoardCacheResults.WithLabelValues(metrics.CacheHit).Inc()
			return entry.Table, nil
		}
		if age <= c.opts.TTL+c.opts.StaleWindow {
			metrics.BoardCacheResults.WithLabelValues(metrics.CacheStale).Inc()
			c.refreshInBackground(boardID)
			return entry.Table, nil
		}
		metrics.BoardCacheResults.WithLabelValues(metrics.CacheMiss).Inc()
	default:
		metrics.BoardCacheResults.WithLabelValues(metrics.CacheMiss).Inc()
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.load(context.WithoutCancel(ctx), boardID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.RawTable), nil
}

// refreshInBackground reloads boardID unless a load for it is already running.
func (c *Cache) refreshInBackground(boardID string) {
	c.refreshing.Add(1)
	ch := c.group.DoChan(cacheKey(boardID), func() (interface{}, error) {
		return c.load(context.Background(), boardID)
	})
	go func() {
		defer c.refreshing.Done()
		if res := <-ch; res.Err != nil {
			c.log.Warn("Background board refresh failed", map[string]interface{}{
				"boardId": boardID,
				"error":   res.Err.Error(),
			})
		}
	}()
}

func (c *Cache) load(ctx context.Context, boardID string) (*models.RawTable, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	defer cancel()

	table, err := c.source.Fetch(ctx, boardID)
	if err != nil {
		return nil, err
	}

	entry := cacheEntry{FetchedAt: c.now(), Table: table}
	if err := c.redis.SetJSON(ctx, cacheKey(boardID), entry, c.opts.TTL+c.opts.StaleWindow); err != nil {
		c.log.Warn("Board cache write failed", map[string]interface{}{
			"boardId": boardID,
			"error":   err.Error(),
		})
	}
	return table, nil
}

// Invalidate drops the cached copies of boardIDs.
func (c *Cache) Invalidate(ctx context.Context, boardIDs ...string) error {
	keys := make([]string, len(boardIDs))
	for i, id := range boardIDs {
		keys[i] = cacheKey(id)
	}
	if err := c.redis.Del(ctx, keys...); err != nil {
		return errors.NewBoardCacheFailedError(err)
	}
	return nil
}

// Wait blocks until background refreshes started so far have finished.
func (c *Cache) Wait() {
	c.refreshing.Wait()
}
