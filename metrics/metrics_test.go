package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/qadiv/batch"
	"github.com/revelaction/qadiv/deptree"
	"github.com/revelaction/qadiv/divergence"
)

func TestObserve(t *testing.T) {
	m := New()

	m.Observe(batch.Item{Result: divergence.Result{Status: divergence.OK, Distance: 2, LexicalVariation: 0.4}, Duration: time.Millisecond})
	m.Observe(batch.Item{Result: divergence.Result{Status: divergence.OK, Distance: 0, LexicalVariation: 0.2}})
	m.Observe(batch.Item{Result: divergence.Result{Status: divergence.NoAnchor, LexicalVariation: 1}})
	m.Observe(batch.Item{Err: deptree.ErrDisconnected})
	m.SetUnfound(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.items.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.items.WithLabelValues("no_anchor")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.items.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues(batch.KindDisconnected)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.unfound))

	expected := `
# HELP qadiv_unfound_answers Answers not found in the sentence at their offset
# TYPE qadiv_unfound_answers gauge
qadiv_unfound_answers 3
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "qadiv_unfound_answers"))

	n, err := testutil.GatherAndCount(m.Registry, "qadiv_syntactic_divergence")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Observe(batch.Item{Result: divergence.Result{Status: divergence.OK, Distance: 1}})

	path := filepath.Join(t.TempDir(), "qadiv.prom")
	require.NoError(t, m.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `qadiv_items_total{outcome="ok"} 1`)
	assert.Contains(t, string(content), "qadiv_syntactic_divergence_count 1")
}
