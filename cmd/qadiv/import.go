package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosuri/uiprogress"

	"github.com/revelaction/qadiv/parser"
	sent "github.com/revelaction/qadiv/sentence"
	"github.com/revelaction/qadiv/storage"
)

func importCommand(ctx context.Context, opts ImportOptions, ui UI) (err error) {
	if opts.CachePath == "" && opts.RedisAddr == "" {
		return errors.New("import needs a --cache or a --redis destination")
	}

	src, err := parser.OpenCoNLLU(opts.From)
	if err != nil {
		return err
	}

	pool := &Pool{}
	var cl closers
	cl.add(pool.Close)
	defer func() {
		err = errors.Join(err, cl.Close())
	}()

	var dsts []storage.ParseCacheWriter
	if opts.CachePath != "" {
		cache, err := NewParseCache(pool, opts.CachePath)
		if err != nil {
			return err
		}
		dsts = append(dsts, cache)
	}

	if opts.RedisAddr != "" {
		cache, err := NewRedisCache(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisTTL)
		if err != nil {
			return err
		}
		cl.add(cache.Close)
		dsts = append(dsts, cache)
	}

	fmt.Fprintf(ui.Out, "Importing %d parses from %s...\n", src.Len(), opts.From)

	uiprogress.Start()
	bar := uiprogress.AddBar(max(src.Len(), 1))
	bar.AppendCompleted()
	bar.PrependElapsed()

	count := 0
	err = src.Each(func(text string, tokens []sent.Token) error {
		if err := parser.Validate(tokens); err != nil {
			return fmt.Errorf("parse of %q: %w", text, err)
		}

		for _, dst := range dsts {
			if err := dst.Write(ctx, text, tokens); err != nil {
				return fmt.Errorf("failed to write parse of %q: %w", text, err)
			}
		}
		count++
		bar.Incr()
		return nil
	})
	uiprogress.Stop()

	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "Successfully imported %d parses from %s\n", count, opts.From)
	return nil
}
