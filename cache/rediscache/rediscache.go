// Package rediscache implements cache.Cache on Redis so that several processes share
// the cached documents and their invalidation.
package rediscache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/code19m/errx"
	"github.com/redis/go-redis/v9"
	"github.com/rise-and-shine/docrepo/cache"
)

const scanBatch = 256

// globEscaper quotes the characters SCAN MATCH treats as pattern syntax.
var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)

var _ cache.Cache = (*Cache)(nil)

// Cache stores values in Redis under Config.Prefix.
type Cache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewClient creates a Redis client for cfg.
func NewClient(cfg Config) redis.UniversalClient {
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    strings.Split(cfg.Addrs, ","),
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// New wraps client. Keys are stored as "<prefix>:<key>".
func New(client redis.UniversalClient, cfg Config) *Cache {
	return &Cache{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}
}

// Key returns the Redis key used for key.
func (c *Cache) Key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.client.Get(ctx, c.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errx.Wrap(err)
	}
	return v, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	return errx.Wrap(c.client.Set(ctx, c.Key(key), value, c.ttl).Err())
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.Key(k)
	}
	return unlink(ctx, c.client, full)
}

// DeletePrefix scans for the keys starting with prefix and removes them batch by
// batch. On a cluster every master is scanned.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := prefixPattern(c.Key(prefix))

	if cc, ok := c.client.(*redis.ClusterClient); ok {
		return errx.Wrap(cc.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
			return scanUnlink(ctx, node, pattern)
		}))
	}
	return scanUnlink(ctx, c.client, pattern)
}

// prefixPattern is the MATCH pattern of the keys starting with key literally.
func prefixPattern(key string) string {
	return globEscaper.Replace(key) + "*"
}

func scanUnlink(ctx context.Context, client redis.UniversalClient, pattern string) error {
	iter := client.Scan(ctx, 0, pattern, scanBatch).Iterator()

	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := unlink(ctx, client, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errx.Wrap(err)
	}
	return unlink(ctx, client, batch)
}

// unlink removes keys one command per key so that keys of different cluster slots can
// be removed in one pipeline.
func unlink(ctx context.Context, client redis.UniversalClient, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			p.Unlink(ctx, k)
		}
		return nil
	})
	return errx.Wrap(err)
}
