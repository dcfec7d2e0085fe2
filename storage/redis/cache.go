// Package redis is a parse cache shared through a Redis server.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	sent "github.com/revelaction/qadiv/sentence"
	"github.com/revelaction/qadiv/storage"
)

const (
	DefaultKeyPrefix  = "qadiv:parse"
	DefaultExpiration = 7 * 24 * time.Hour
)

// Conf configures the Redis connection.
type Conf struct {
	Host     string
	Port     int
	Password string
	DB       int

	// KeyPrefix is prepended to the text key
	KeyPrefix string

	// Expiration of cached parses. Zero keeps them forever.
	Expiration time.Duration
}

type cachedParse struct {
	Text   string       `json:"text"`
	Tokens []sent.Token `json:"tokens"`
}

// CacheHandler stores parses as JSON strings under <prefix>:<sha1 of text>.
type CacheHandler struct {
	c          *redis.Client
	prefix     string
	expiration time.Duration
}

var _ storage.ParseCache = (*CacheHandler)(nil)

// NewCacheHandler connects to the server described by conf.
func NewCacheHandler(conf Conf) *CacheHandler {
	prefix := conf.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
		log.Debug().
			Str("prefix", prefix).
			Msg("Redis key prefix not specified, using default")
	}

	return NewCacheHandlerFromClient(redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password: conf.Password,
		DB:       conf.DB,
	}), prefix, conf.Expiration)
}

// NewCacheHandlerFromClient wraps an existing client.
func NewCacheHandlerFromClient(c *redis.Client, prefix string, expiration time.Duration) *CacheHandler {
	return &CacheHandler{c: c, prefix: prefix, expiration: expiration}
}

func (h *CacheHandler) key(text string) string {
	return h.prefix + ":" + storage.Key(text)
}

// Ping checks the connection.
func (h *CacheHandler) Ping(ctx context.Context) error {
	if err := h.c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

func (h *CacheHandler) Read(ctx context.Context, text string) ([]sent.Token, bool, error) {
	val, err := h.c.Get(ctx, h.key(text)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached parse: %w", err)
	}

	var cp cachedParse
	if err := json.Unmarshal([]byte(val), &cp); err != nil {
		return nil, false, fmt.Errorf("failed to deserialize cached parse: %w", err)
	}

	if cp.Text != text {
		return nil, false, nil
	}

	return cp.Tokens, true, nil
}

func (h *CacheHandler) Write(ctx context.Context, text string, tokens []sent.Token) error {
	data, err := json.Marshal(cachedParse{Text: text, Tokens: tokens})
	if err != nil {
		return fmt.Errorf("failed to serialize parse: %w", err)
	}

	return h.c.Set(ctx, h.key(text), string(data), h.expiration).Err()
}

func (h *CacheHandler) Close() error {
	return h.c.Close()
}
