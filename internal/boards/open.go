package boards

import (
	"context"

	"insight-workers/internal/common/config"
	"insight-workers/internal/common/database"
	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
)

// Closer releases the connections opened by Open.
type Closer func() error

// Open builds the configured source, instrumented and, when enabled, cached
// in Redis.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Source, Closer, error) {
	timeout := config.GetDuration(cfg.Boards.FetchTimeout)
	var (
		base    Source
		closers []func() error
	)

	switch cfg.Boards.Source {
	case config.SourceMonday:
		base = NewMondaySource(cfg.Boards.Monday, timeout)
	case config.SourcePostgres:
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, pg.Close)
		base = NewPostgresSource(pg, cfg.Boards.Postgres, timeout)
	case config.SourceElasticsearch:
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, nil, err
		}
		base = NewElasticsearchSource(es, cfg.Boards.Elasticsearch, timeout)
	case config.SourceXLSX:
		base = NewXLSXSource(cfg.Boards)
	default:
		return nil, nil, errors.NewSourceNotConfiguredError(cfg.Boards.Source)
	}

	source := Instrument(base)
	if cfg.Boards.CacheEnabled {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		if err := rdb.Ping(ctx); err != nil {
			log.Warn("Redis unreachable, board cache will fall back to direct fetches", map[string]interface{}{
				"error": err.Error(),
			})
		}
		closers = append(closers, rdb.Close)
		source = NewCache(source, rdb, CacheOptions{
			TTL:          config.GetDuration(cfg.Boards.CacheTTL),
			StaleWindow:  config.GetDuration(cfg.Boards.StaleWindow),
			FetchTimeout: timeout,
		}, log)
	}

	return source, func() error { return closeAll(closers) }, nil
}

func closeAll(closers []func() error) error {
	var first error
	for _, c := range closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
