package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sent "github.com/revelaction/qadiv/sentence"
	"github.com/revelaction/qadiv/storage"
)

func TestDocHandlerReadWrite(t *testing.T) {
	ctx := context.Background()
	h, err := NewDocHandler(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	_, ok, err := h.Read(ctx, "Le livre")
	require.NoError(t, err)
	assert.False(t, ok)

	tokens := []sent.Token{
		{Id: 0, Head: 1, Dep: "det", Lemma: "le", Text: "Le"},
		{Id: 1, Head: 1, Dep: "ROOT", Lemma: "livre", Text: "livre", Idx: 3},
	}
	require.NoError(t, h.Write(ctx, "Le livre", tokens))

	got, ok, err := h.Read(ctx, "Le livre")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, tokens, got)

	names, err := h.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{storage.Key("Le livre")}, names)
}

func TestDocHandlerCorrupt(t *testing.T) {
	dir := t.TempDir()
	h, err := NewDocHandler(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, storage.Key("x")+".json"), []byte("{"), 0o644))
	_, _, err = h.Read(context.Background(), "x")
	assert.Error(t, err)
}

func TestResultHandler(t *testing.T) {
	ctx := context.Background()
	h, err := NewResultHandler(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, h.WriteResult(ctx, "run1", storage.ItemResult{Index: 0, Status: "ok", Distance: 2, QuestionPath: []string{"nsubj"}}))
	require.NoError(t, h.WriteResult(ctx, "run1", storage.ItemResult{Index: 1, Err: "malformed"}))
	require.NoError(t, h.WriteResult(ctx, "run2", storage.ItemResult{Index: 0, Status: "no_anchor"}))

	results, err := h.Results("run1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].Distance)
	assert.Equal(t, []string{"nsubj"}, results[0].QuestionPath)
	assert.Equal(t, "malformed", results[1].Err)
}
