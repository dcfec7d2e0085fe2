package main

import (
	"context"
	"errors"

	"github.com/revelaction/qadiv/divergence"
	"github.com/revelaction/qadiv/parser"
	"github.com/revelaction/qadiv/query"
	"github.com/revelaction/qadiv/render"
	"github.com/revelaction/qadiv/squad"
)

// inspectCommand analyzes the pair given with --question, or starts the
// prompt when there is none.
func inspectCommand(ctx context.Context, opts InspectOptions, ui UI) (err error) {
	conf, err := newConfig(opts.ParserOptions)
	if err != nil {
		return err
	}

	var triples []squad.Triple
	if opts.Dataset != "" {
		ds, err := squad.Load(opts.Dataset)
		if err != nil {
			return err
		}
		triples, _ = squad.Triples(ds, parser.Rules{})
	}

	pool := &Pool{}
	var cl closers
	cl.add(pool.Close)
	defer func() {
		err = errors.Join(err, cl.Close())
	}()

	p, err := newParser(ctx, opts.ParserOptions, pool, &cl)
	if err != nil {
		return err
	}

	r := render.NewRenderer(ui.Out)
	r.HasColor = !opts.NoColor

	h := query.NewHandler(p, conf, triples, r)

	if opts.Question == "" {
		return h.Run(ctx)
	}

	if opts.Sentence == "" {
		return errors.New("--question needs --sentence")
	}

	return h.Inspect(ctx, divergence.Pair{
		Question: opts.Question,
		Sentence: opts.Sentence,
		Span:     opts.Span,
	})
}
