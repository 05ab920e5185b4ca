// Package cache stores the computed ranking summary between requests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/yigit/esgchampions/internal/app/models"
)

// Redis keys of the ranking cache
const (
	// RankingSummaryKey holds the serialized summary
	RankingSummaryKey = "ranking:summary"
	// RankingGenerationKey is bumped by every invalidation
	RankingGenerationKey = "ranking:gen"
)

// ErrStaleGeneration is returned by Set when the ranking was invalidated
// after the summary's inputs were read
var ErrStaleGeneration = errors.New("ranking cache generation changed")

// RankingCache keeps the last computed ranking summary. Writers read the
// generation before loading their inputs and pass it to Set, so a summary
// computed before an invalidation is never stored after it.
type RankingCache interface {
	// Get returns the cached summary, or nil with no error on a miss
	Get(ctx context.Context) (*models.RankingSummary, error)
	// Generation returns the current invalidation counter
	Generation(ctx context.Context) (int64, error)
	// Set stores summary unless the generation moved past gen
	Set(ctx context.Context, gen int64, summary *models.RankingSummary) error
	Invalidate(ctx context.Context) error
	Close() error
}

// RedisOptions configures NewRedisRankingCache
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type redisRankingCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewRedisRankingCache connects to Redis and pings it
func NewRedisRankingCache(opts RedisOptions, log zerolog.Logger) (RankingCache, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisRankingCache{
		rdb: rdb,
		ttl: opts.TTL,
		log: log.With().Str("component", "ranking_cache").Logger(),
	}, nil
}

func (c *redisRankingCache) Get(ctx context.Context) (*models.RankingSummary, error) {
	raw, err := c.rdb.Get(ctx, RankingSummaryKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var summary models.RankingSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		// a corrupt entry is dropped and treated as a miss
		c.log.Warn().Err(err).Msg("Discarding unreadable ranking cache entry")
		_ = c.rdb.Del(ctx, RankingSummaryKey).Err()
		return nil, nil
	}
	return &summary, nil
}

// getter is satisfied by both *goredis.Client and *goredis.Tx
type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func generation(ctx context.Context, cmd getter) (int64, error) {
	gen, err := cmd.Get(ctx, RankingGenerationKey).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *redisRankingCache) Generation(ctx context.Context) (int64, error) {
	gen, err := generation(ctx, c.rdb)
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

// Set writes the summary in a WATCH/MULTI transaction on the generation key
func (c *redisRankingCache) Set(ctx context.Context, gen int64, summary *models.RankingSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode ranking summary: %w", err)
	}

	err = c.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		current, err := generation(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return ErrStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, RankingSummaryKey, raw, c.ttl)
			return nil
		})
		return err
	}, RankingGenerationKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStaleGeneration), errors.Is(err, goredis.TxFailedErr):
		return ErrStaleGeneration
	}
	return fmt.Errorf("redis set: %w", err)
}

// Invalidate bumps the generation and drops the summary atomically
func (c *redisRankingCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, RankingGenerationKey)
		pipe.Del(ctx, RankingSummaryKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}
	return nil
}

func (c *redisRankingCache) Close() error {
	return c.rdb.Close()
}

// Noop is used when Redis is not configured; every Get is a miss
type Noop struct{}

func (Noop) Get(context.Context) (*models.RankingSummary, error)      { return nil, nil }
func (Noop) Generation(context.Context) (int64, error)                { return 0, nil }
func (Noop) Set(context.Context, int64, *models.RankingSummary) error { return nil }
func (Noop) Invalidate(context.Context) error                         { return nil }
func (Noop) Close() error                                             { return nil }
