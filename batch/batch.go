// Package batch runs the divergence analysis over the triples of a dataset
// and aggregates the outcomes into a Report.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/revelaction/qadiv/deptree"
	"github.com/revelaction/qadiv/divergence"
	"github.com/revelaction/qadiv/parser"
	"github.com/revelaction/qadiv/squad"
	"github.com/revelaction/qadiv/storage"
)

// Analyzer computes the divergence of one pair.
type Analyzer interface {
	Analyze(ctx context.Context, pair divergence.Pair) (divergence.Result, error)
}

// Item is the outcome of one triple. Err is set for failed items; Result
// is meaningless then.
type Item struct {
	Index  int
	Triple squad.Triple
	Result divergence.Result
	Err    error

	Duration time.Duration
}

type recoveredError struct {
	error
}

// Failure kinds
const (
	KindMalformed     = "malformed"
	KindDisconnected  = "disconnected"
	KindUnknownNode   = "unknown_node"
	KindEmptyQuestion = "empty_question"
	KindNotFound      = "parse_not_found"
	KindInvalidParse  = "invalid_parse"
	KindTimeout       = "timeout"
	KindCanceled      = "canceled"
	KindPanic         = "panic"
	KindParser        = "parser"
)

// Kind classifies an item error.
func Kind(err error) string {
	var rerr recoveredError
	switch {
	case errors.As(err, &rerr):
		return KindPanic
	case errors.Is(err, deptree.ErrMalformed):
		return KindMalformed
	case errors.Is(err, deptree.ErrDisconnected):
		return KindDisconnected
	case errors.Is(err, deptree.ErrUnknownNode):
		return KindUnknownNode
	case errors.Is(err, divergence.ErrEmptyQuestion):
		return KindEmptyQuestion
	case errors.Is(err, parser.ErrNotFound):
		return KindNotFound
	case errors.Is(err, parser.ErrInvalidParse):
		return KindInvalidParse
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	}
	return KindParser
}

// Driver analyzes triples concurrently. Items are independent: a failed
// item is counted and the run goes on. Only the cancellation of the run
// context stops it.
type Driver struct {
	Analyzer Analyzer

	// Workers is the number of concurrent analyses. Values below 1 mean 1.
	Workers int

	// ItemTimeout bounds the analysis of a single item. Zero means no bound.
	ItemTimeout time.Duration

	// OnResult is called for every finished item, in completion order, from
	// a single goroutine.
	OnResult func(Item)
}

// Run analyzes triples and returns the report. On cancellation it returns
// the report of the items finished so far and the context error.
func (d *Driver) Run(ctx context.Context, triples []squad.Triple) (*Report, error) {
	workers := d.Workers
	if workers < 1 {
		workers = 1
	}

	results := make(chan Item)

	go func() {
		var g errgroup.Group
		g.SetLimit(workers)

		for i, tr := range triples {
			if ctx.Err() != nil {
				break
			}

			g.Go(func() error {
				results <- d.analyze(ctx, i, tr)
				return nil
			})
		}

		g.Wait()
		close(results)
	}()

	items := make([]Item, 0, len(triples))
	for it := range results {
		if it.Err != nil {
			log.Debug().
				Err(it.Err).
				Int("index", it.Index).
				Str("question", it.Triple.Question).
				Str("span", it.Triple.Span).
				Msg("item failed")
		}

		if d.OnResult != nil {
			d.OnResult(it)
		}
		items = append(items, it)
	}

	report := NewReport(items)

	if err := ctx.Err(); err != nil {
		return report, err
	}

	return report, nil
}

func (d *Driver) analyze(ctx context.Context, i int, tr squad.Triple) (it Item) {
	it = Item{Index: i, Triple: tr}

	start := time.Now()
	defer func() {
		it.Duration = time.Since(start)
		if r := recover(); r != nil {
			it.Err = recoveredError{fmt.Errorf("recovered error: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		it.Err = err
		return it
	}

	if d.ItemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.ItemTimeout)
		defer cancel()
	}

	it.Result, it.Err = d.Analyzer.Analyze(ctx, divergence.Pair{
		Question: tr.Question,
		Sentence: tr.Sentence,
		Span:     tr.Span,
	})

	return it
}

// Record converts an item into its stored form.
func Record(it Item) storage.ItemResult {
	r := storage.ItemResult{
		Index:    it.Index,
		Id:       it.Triple.Id,
		Question: it.Triple.Question,
		Sentence: it.Triple.Sentence,
		Span:     it.Triple.Span,
	}

	if it.Err != nil {
		r.Err = it.Err.Error()
		return r
	}

	r.Status = it.Result.Status.String()
	r.Distance = it.Result.Distance
	r.LexicalVariation = it.Result.LexicalVariation
	r.Anchor = it.Result.Anchor
	r.AnchorRoot = it.Result.AnchorRoot
	r.QuestionPath = it.Result.QuestionPath
	r.AnswerPath = it.Result.AnswerPath
	return r
}
