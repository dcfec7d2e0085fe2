package batch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/qadiv/deptree"
	"github.com/revelaction/qadiv/divergence"
	"github.com/revelaction/qadiv/parser"
	"github.com/revelaction/qadiv/squad"
)

// scriptedAnalyzer answers according to the question text.
type scriptedAnalyzer struct {
	calls atomic.Int32
}

func (s *scriptedAnalyzer) Analyze(ctx context.Context, pair divergence.Pair) (divergence.Result, error) {
	s.calls.Add(1)
	switch pair.Question {
	case "malformed":
		return divergence.Result{}, fmt.Errorf("question tree: %w", deptree.ErrMalformed)
	case "disconnected":
		return divergence.Result{}, fmt.Errorf("question path: %w", deptree.ErrDisconnected)
	case "panic":
		panic("boom")
	case "slow":
		<-ctx.Done()
		return divergence.Result{}, ctx.Err()
	case "no_anchor":
		return divergence.Result{Status: divergence.NoAnchor, LexicalVariation: 1}, nil
	case "no_interrogative":
		return divergence.Result{Status: divergence.NoInterrogative, LexicalVariation: 0.5}, nil
	case "unresolved":
		return divergence.Result{Status: divergence.UnresolvedAnchorRoot, LexicalVariation: 0.5}, nil
	}

	d, err := strconv.Atoi(pair.Question)
	if err != nil {
		return divergence.Result{}, errors.New("unparsable")
	}
	return divergence.Result{Status: divergence.OK, Distance: d, LexicalVariation: float64(d) / 10}, nil
}

func triples(questions ...string) []squad.Triple {
	var out []squad.Triple
	for i, q := range questions {
		out = append(out, squad.Triple{Id: strconv.Itoa(i), Question: q, Sentence: "s", Span: "a"})
	}
	return out
}

func TestRunAggregates(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			var seen atomic.Int32
			d := &Driver{
				Analyzer: &scriptedAnalyzer{},
				Workers:  workers,
				OnResult: func(Item) { seen.Add(1) },
			}

			report, err := d.Run(context.Background(), triples(
				"3", "malformed", "1", "no_anchor", "no_interrogative", "unresolved", "panic", "0", "disconnected", "x",
			))
			require.NoError(t, err)

			assert.Equal(t, int32(10), seen.Load())
			assert.Equal(t, 10, report.Total)
			// item order, whatever the completion order
			assert.Equal(t, []int{3, 1, 0}, report.Distances)
			assert.Equal(t, []float64{0.3, 0.1, 0}, report.LexicalVariations)
			assert.Equal(t, 1, report.NoAnchor)
			assert.Equal(t, 1, report.NoInterrogative)
			assert.Equal(t, 1, report.UnresolvedAnchorRoot)
			assert.Equal(t, 4, report.Failures)
			assert.Equal(t, map[string]int{
				KindMalformed:    1,
				KindDisconnected: 1,
				KindPanic:        1,
				KindParser:       1,
			}, report.FailureKinds)
		})
	}
}

func TestRunItemTimeout(t *testing.T) {
	d := &Driver{Analyzer: &scriptedAnalyzer{}, Workers: 2, ItemTimeout: 10 * time.Millisecond}

	report, err := d.Run(context.Background(), triples("slow", "2"))
	require.NoError(t, err)
	assert.Equal(t, 1, report.FailureKinds[KindTimeout])
	assert.Equal(t, []int{2}, report.Distances)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := &scriptedAnalyzer{}
	d := &Driver{Analyzer: a, Workers: 2}
	report, err := d.Run(ctx, triples("1", "2", "3"))
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, int32(0), a.calls.Load())
	assert.Empty(t, report.Distances)
}

func TestRunCancelledInFlight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	d := &Driver{Analyzer: &scriptedAnalyzer{}, Workers: 2}
	report, err := d.Run(ctx, triples("slow", "slow"))
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.Failures)
	assert.Equal(t, map[string]int{KindCanceled: 2}, report.FailureKinds)
}

func TestRunEmpty(t *testing.T) {
	d := &Driver{Analyzer: &scriptedAnalyzer{}}
	report, err := d.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.Distances)
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindUnknownNode, Kind(fmt.Errorf("x: %w", deptree.ErrUnknownNode)))
	assert.Equal(t, KindEmptyQuestion, Kind(divergence.ErrEmptyQuestion))
	assert.Equal(t, KindNotFound, Kind(fmt.Errorf("parse question: %w", parser.ErrNotFound)))
	assert.Equal(t, KindInvalidParse, Kind(parser.ErrInvalidParse))
	assert.Equal(t, KindTimeout, Kind(context.DeadlineExceeded))
	assert.Equal(t, KindCanceled, Kind(fmt.Errorf("parse question: %w", context.Canceled)))
	assert.Equal(t, KindParser, Kind(errors.New("connection refused")))
}

func TestRecord(t *testing.T) {
	tr := squad.Triple{Id: "7", Question: "Qui ?", Sentence: "Paul.", Span: "Paul"}

	r := Record(Item{Index: 2, Triple: tr, Result: divergence.Result{
		Status:       divergence.OK,
		Distance:     1,
		Anchor:       "venir",
		QuestionPath: []string{"nsubj"},
	}})
	assert.Equal(t, "ok", r.Status)
	assert.Equal(t, "7", r.Id)
	assert.Equal(t, 2, r.Index)
	assert.Equal(t, []string{"nsubj"}, r.QuestionPath)
	assert.Empty(t, r.Err)

	r = Record(Item{Triple: tr, Err: deptree.ErrMalformed})
	assert.Empty(t, r.Status)
	assert.Contains(t, r.Err, "malformed")
}
