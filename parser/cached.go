package parser

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	sent "github.com/revelaction/qadiv/sentence"
	"github.com/revelaction/qadiv/storage"
)

// Cached serves parses from a cache and fills it from Next on misses.
// Cache failures are logged and fall through to Next. A nil Next makes a
// cache-only parser returning ErrNotFound on misses.
type Cached struct {
	Cache storage.ParseCache
	Next  Parser
}

var _ Parser = (*Cached)(nil)

func (c *Cached) Parse(ctx context.Context, text string) ([]sent.Token, error) {
	tokens, ok, err := c.Cache.Read(ctx, text)
	if err != nil {
		log.Warn().Err(err).Str("text", text).Msg("parse cache read failed")
	}
	if ok {
		return tokens, nil
	}

	if c.Next == nil {
		return nil, errors.Join(ErrNotFound, err)
	}

	tokens, err = c.Next.Parse(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.Cache.Write(ctx, text, tokens); err != nil {
		log.Warn().Err(err).Str("text", text).Msg("parse cache write failed")
	}

	return tokens, nil
}
