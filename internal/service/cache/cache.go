// Package cache stores analysis results keyed by the MD5 of the uploaded
// image, so re-uploading the same picture skips inference.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"findit/internal/config"
	"findit/internal/service/vision"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "findit:analysis:"

// Entry is a cached inference result.
type Entry struct {
	Model      string             `json:"model"`
	Detections []vision.Detection `json:"detections"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Annotated  []byte             `json:"annotated,omitempty"`
}

// AnalysisCache looks up and stores entries. Get returns nil, nil on a miss.
type AnalysisCache interface {
	Get(ctx context.Context, md5 string) (*Entry, error)
	Set(ctx context.Context, md5 string, entry *Entry) error
	Close() error
}

// New returns a Redis-backed cache when an address is configured and a Nop
// cache otherwise.
func New(cfg *config.Config) AnalysisCache {
	if cfg.RedisAddr == "" {
		return Nop{}
	}
	return NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTTL)
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, md5 string) (*Entry, error) {
	data, err := c.client.Get(ctx, Key(md5)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cached analysis %s: %w", md5, err)
	}
	return &entry, nil
}

func (c *RedisCache) Set(ctx context.Context, md5 string, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(md5), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Key returns the Redis key for an image checksum.
func Key(md5 string) string {
	return keyPrefix + md5
}

// Nop never hits.
type Nop struct{}

func (Nop) Get(context.Context, string) (*Entry, error) { return nil, nil }

func (Nop) Set(context.Context, string, *Entry) error { return nil }

func (Nop) Close() error { return nil }
