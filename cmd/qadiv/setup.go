package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/revelaction/qadiv/divergence"
	"github.com/revelaction/qadiv/parser"
	"github.com/revelaction/qadiv/storage"
	"github.com/revelaction/qadiv/storage/filesystem"
	"github.com/revelaction/qadiv/storage/postgres"
	"github.com/revelaction/qadiv/storage/redis"
	"github.com/revelaction/qadiv/storage/sqlite/zombiezen"
)

// closers collects the resources opened while building a command.
type closers []func() error

func (c *closers) add(f func() error) {
	*c = append(*c, f)
}

func (c closers) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		errs = append(errs, c[i]())
	}
	return errors.Join(errs...)
}

// isDir reports whether path is an existing directory. A missing path is
// not an error: it names a SQLite file to be created.
func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// NewParseCache opens the parse cache at path: a directory of JSON files
// or a SQLite file.
func NewParseCache(p *Pool, path string) (storage.ParseCache, error) {
	dir, err := isDir(path)
	if err != nil {
		return nil, err
	}

	if dir {
		return filesystem.NewDocHandler(path)
	}

	pool, err := p.Open(path, zombiezen.CacheSchema)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewDocHandler(pool), nil
}

// NewRedisCache connects to a Redis parse cache at addr (host:port).
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*redis.CacheHandler, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid redis address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid redis port %q: %w", portStr, err)
	}

	h := redis.NewCacheHandler(redis.Conf{
		Host:       host,
		Port:       port,
		Password:   password,
		DB:         db,
		Expiration: ttl,
	})
	if err := h.Ping(ctx); err != nil {
		_ = h.Close()
		return nil, err
	}
	return h, nil
}

// NewResultWriter opens the per item result store at path: a directory of
// JSON lines files or a SQLite file.
func NewResultWriter(p *Pool, path string) (storage.ResultWriter, error) {
	dir, err := isDir(path)
	if err != nil {
		return nil, err
	}

	if dir {
		return filesystem.NewResultHandler(path)
	}

	pool, err := p.Open(path, zombiezen.ResultsSchema)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewResultHandler(pool), nil
}

// NewPostgresWriter connects to PostgreSQL and creates the results table.
func NewPostgresWriter(ctx context.Context, connStr string) (*postgres.ResultHandler, error) {
	h, err := postgres.NewResultHandler(ctx, connStr)
	if err != nil {
		return nil, err
	}
	if err := h.Initialize(ctx); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

// newBackend returns the parser producing new parses, nil for none.
func newBackend(opts ParserOptions) (parser.Parser, error) {
	switch opts.Backend {
	case ParserNone:
		return nil, nil
	case ParserCoNLLU:
		if opts.CoNLLU == "" {
			return nil, errors.New("the conllu parser needs --conllu")
		}
		return parser.OpenCoNLLU(opts.CoNLLU)
	case ParserHTTP:
		return parser.NewHTTP(opts.URL), nil
	case ParserOllama:
		return parser.NewOllama(opts.OllamaHost, opts.OllamaModel)
	}
	return nil, fmt.Errorf("unknown parser %q", opts.Backend)
}

// newParser builds the parser chain: Redis cache, then the local cache,
// then the backend. Parses of the backend fill the caches.
func newParser(ctx context.Context, opts ParserOptions, p *Pool, cl *closers) (parser.Parser, error) {
	next, err := newBackend(opts)
	if err != nil {
		return nil, err
	}

	if opts.CachePath != "" {
		cache, err := NewParseCache(p, opts.CachePath)
		if err != nil {
			return nil, err
		}
		next = &parser.Cached{Cache: cache, Next: next}
	}

	if opts.RedisAddr != "" {
		cache, err := NewRedisCache(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisTTL)
		if err != nil {
			return nil, err
		}
		cl.add(cache.Close)
		next = &parser.Cached{Cache: cache, Next: next}
	}

	if next == nil {
		return nil, errors.New("no parser: the none parser needs --cache or --redis")
	}
	return next, nil
}

// newConfig builds the analyzer configuration.
func newConfig(opts ParserOptions) (divergence.Config, error) {
	conf := divergence.DefaultConfig()

	policy, err := divergence.ParsePolicy(opts.Policy)
	if err != nil {
		return conf, err
	}
	conf.Policy = policy

	if opts.Interrogatives != "" {
		lemmas, err := divergence.LoadInterrogatives(opts.Interrogatives)
		if err != nil {
			return conf, err
		}
		conf.Interrogatives = lemmas
	}

	return conf, nil
}
