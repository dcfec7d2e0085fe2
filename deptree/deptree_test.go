package deptree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sent "github.com/revelaction/qadiv/sentence"
)

func tok(id, head int, dep, lemma, text string) sent.Token {
	return sent.Token{Id: id, Head: head, Dep: dep, Lemma: lemma, Text: text}
}

// Le livre a été écrit par Voltaire en 1759 .
func answerTokens() []sent.Token {
	return []sent.Token{
		tok(0, 1, "det", "le", "Le"),
		tok(1, 4, "nsubj:pass", "livre", "livre"),
		tok(2, 4, "aux:tense", "avoir", "a"),
		tok(3, 4, "aux:pass", "être", "été"),
		tok(4, 4, "ROOT", "écrire", "écrit"),
		tok(5, 6, "case", "par", "par"),
		tok(6, 4, "obl:agent", "Voltaire", "Voltaire"),
		tok(7, 8, "case", "en", "en"),
		tok(8, 4, "obl:mod", "1759", "1759"),
		tok(9, 4, "punct", ".", "."),
	}
}

func TestBuild(t *testing.T) {
	tr, err := Build(answerTokens())
	require.NoError(t, err)

	assert.Equal(t, 10, tr.Len())
	assert.Equal(t, []NodeID{{"écrire", 4}}, tr.Roots())

	head, label, ok := tr.Parent(NodeID{"le", 0})
	assert.True(t, ok)
	assert.Equal(t, NodeID{"livre", 1}, head)
	assert.Equal(t, "det", label)

	_, _, ok = tr.Parent(NodeID{"écrire", 4})
	assert.False(t, ok)

	children := tr.Children(NodeID{"écrire", 4})
	assert.Len(t, children, 6)
	assert.Equal(t, "obl:agent", children[NodeID{"Voltaire", 6}])

	// both directions carry the same label
	l1, ok1 := tr.Label(NodeID{"par", 5}, NodeID{"Voltaire", 6})
	l2, ok2 := tr.Label(NodeID{"Voltaire", 6}, NodeID{"par", 5})
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, "case", l1)
	assert.Equal(t, l1, l2)

	assert.Equal(t, "Voltaire", tr.Text(NodeID{"Voltaire", 6}))
	assert.Equal(t, map[string]string{"le-0": "livre-1"}, filter(tr.ParentMap(), "le-0"))
}

func filter(m map[string]string, key string) map[string]string {
	return map[string]string{key: m[key]}
}

func TestBuildRepeatedLemma(t *testing.T) {
	tokens := []sent.Token{
		tok(0, 1, "nsubj", "chat", "chat"),
		tok(1, 1, "ROOT", "voir", "voit"),
		tok(2, 3, "det", "le", "le"),
		tok(3, 1, "obj", "chat", "chat"),
	}
	tr, err := Build(tokens)
	require.NoError(t, err)

	assert.Equal(t, []NodeID{{"chat", 0}, {"chat", 3}}, tr.LemmaNodes("chat"))
	first, ok := tr.First("chat")
	assert.True(t, ok)
	assert.Equal(t, NodeID{"chat", 0}, first)

	_, ok = tr.First("chien")
	assert.False(t, ok)
}

func TestBuildMalformed(t *testing.T) {
	tests := []struct {
		name   string
		tokens []sent.Token
	}{
		{"duplicate id", []sent.Token{tok(0, 0, "ROOT", "a", "a"), tok(0, 0, "ROOT", "b", "b")}},
		{"unknown head", []sent.Token{tok(0, 0, "ROOT", "a", "a"), tok(1, 7, "obj", "b", "b")}},
		{"cycle", []sent.Token{tok(0, 1, "dep", "a", "a"), tok(1, 0, "dep", "b", "b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.tokens)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.ErrorIs(t, err, ErrStructure)
		})
	}
}

func TestShortestPath(t *testing.T) {
	tr, err := Build(answerTokens())
	require.NoError(t, err)

	path, err := tr.ShortestPath(NodeID{"le", 0}, NodeID{"par", 5})
	require.NoError(t, err)
	assert.Equal(t, []NodeID{{"le", 0}, {"livre", 1}, {"écrire", 4}, {"Voltaire", 6}, {"par", 5}}, path)

	labels, err := tr.PathLabels(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"det", "nsubj:pass", "obl:agent", "case"}, labels)

	same, err := tr.ShortestPath(NodeID{"le", 0}, NodeID{"le", 0})
	require.NoError(t, err)
	assert.Equal(t, []NodeID{{"le", 0}}, same)

	labels, err = tr.PathLabels(same)
	require.NoError(t, err)
	assert.Empty(t, labels)

	_, err = tr.ShortestPath(NodeID{"le", 0}, NodeID{"chien", 12})
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestShortestPathDisconnected(t *testing.T) {
	tokens := []sent.Token{
		tok(0, 0, "ROOT", "pleuvoir", "Pleut"),
		tok(1, 1, "ROOT", "neiger", "Neige"),
	}
	tr, err := Build(tokens)
	require.NoError(t, err)
	assert.Len(t, tr.Roots(), 2)

	_, err = tr.ShortestPath(NodeID{"pleuvoir", 0}, NodeID{"neiger", 1})
	assert.ErrorIs(t, err, ErrDisconnected)
	assert.ErrorIs(t, err, ErrStructure)

	_, err = tr.LowestCommonAncestor(NodeID{"pleuvoir", 0}, NodeID{"neiger", 1})
	assert.ErrorIs(t, err, ErrDisconnected)
}

// The BFS path length between any two nodes of a tree must equal the sum of
// their depths minus twice the depth of their lowest common ancestor, and the
// label sequence must have one label per edge.
func TestPathLengthMatchesDepths(t *testing.T) {
	tr, err := Build(answerTokens())
	require.NoError(t, err)

	for _, a := range tr.Nodes() {
		for _, b := range tr.Nodes() {
			path, err := tr.ShortestPath(a, b)
			require.NoError(t, err)

			da, _ := tr.Depth(a)
			db, _ := tr.Depth(b)
			lca, err := tr.LowestCommonAncestor(a, b)
			require.NoError(t, err)
			dl, _ := tr.Depth(lca)

			assert.Equal(t, da+db-2*dl, len(path)-1, "%s -> %s", a, b)

			labels, err := tr.PathLabels(path)
			require.NoError(t, err)
			assert.Len(t, labels, len(path)-1)
		}
	}
}

func TestDepth(t *testing.T) {
	tr, err := Build(answerTokens())
	require.NoError(t, err)

	d, err := tr.Depth(NodeID{"écrire", 4})
	require.NoError(t, err)
	assert.Equal(t, 0, d)

	d, err = tr.Depth(NodeID{"le", 0})
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	_, err = tr.Depth(NodeID{"x", 99})
	assert.ErrorIs(t, err, ErrUnknownNode)
}
