// Package deptree builds immutable dependency trees from parsed tokens and
// answers path queries over them.
//
// A tree is queried as an undirected graph: the shortest path between two
// nodes may climb through a common ancestor before descending again.
package deptree

import (
	"errors"
	"fmt"
	"sort"

	sent "github.com/revelaction/qadiv/sentence"
)

var (
	// ErrStructure is the parent of every structural parse error.
	ErrStructure = errors.New("structural parse error")

	// ErrMalformed is returned for token sequences that do not form a forest:
	// duplicate ids, heads pointing to unknown tokens or head cycles.
	ErrMalformed = fmt.Errorf("%w: malformed dependency tree", ErrStructure)

	// ErrDisconnected is returned when two nodes have no path between them.
	ErrDisconnected = fmt.Errorf("%w: disconnected dependency graph", ErrStructure)

	// ErrUnknownNode is returned for queries on nodes absent from the tree.
	ErrUnknownNode = fmt.Errorf("%w: unknown node", ErrStructure)
)

// NodeID identifies a tree node. Lemmas repeat within a text, the token
// index disambiguates them.
type NodeID struct {
	Lemma string
	Index int
}

func (n NodeID) String() string {
	return fmt.Sprintf("%s-%d", n.Lemma, n.Index)
}

type edge struct {
	a, b NodeID
}

// newEdge normalizes the endpoint order so that an edge has a single key in
// both walking directions.
func newEdge(a, b NodeID) edge {
	if b.Index < a.Index {
		a, b = b, a
	}
	return edge{a: a, b: b}
}

type arc struct {
	head  NodeID
	label string
}

// Tree is an immutable dependency tree (or forest, for multi-sentence
// texts). Build it with Build.
type Tree struct {
	order    []NodeID
	texts    map[NodeID]string
	parent   map[NodeID]arc
	children map[NodeID]map[NodeID]string
	labels   map[edge]string
	adj      map[NodeID][]NodeID
	lemmas   map[string][]NodeID
	roots    []NodeID
}

// Build creates the tree of a token sequence. Every non-root token
// contributes one edge labelled with its dependency relation.
func Build(tokens []sent.Token) (*Tree, error) {
	b := newBuilder(len(tokens))
	for _, t := range tokens {
		if err := b.add(t); err != nil {
			return nil, err
		}
	}

	return b.build()
}

type builder struct {
	tokens map[int]sent.Token
	ids    []int
}

func newBuilder(n int) *builder {
	return &builder{tokens: make(map[int]sent.Token, n)}
}

func (b *builder) add(t sent.Token) error {
	if _, ok := b.tokens[t.Id]; ok {
		return fmt.Errorf("%w: duplicate token id %d", ErrMalformed, t.Id)
	}
	b.tokens[t.Id] = t
	b.ids = append(b.ids, t.Id)
	return nil
}

func (b *builder) build() (*Tree, error) {
	sort.Ints(b.ids)

	tr := &Tree{
		order:    make([]NodeID, 0, len(b.ids)),
		texts:    make(map[NodeID]string, len(b.ids)),
		parent:   make(map[NodeID]arc, len(b.ids)),
		children: make(map[NodeID]map[NodeID]string, len(b.ids)),
		labels:   make(map[edge]string, len(b.ids)),
		adj:      make(map[NodeID][]NodeID, len(b.ids)),
		lemmas:   map[string][]NodeID{},
	}

	node := func(t sent.Token) NodeID {
		return NodeID{Lemma: t.Lemma, Index: t.Id}
	}

	for _, id := range b.ids {
		t := b.tokens[id]
		n := node(t)
		tr.order = append(tr.order, n)
		tr.texts[n] = t.Text
		tr.children[n] = map[NodeID]string{}
		tr.lemmas[t.Lemma] = append(tr.lemmas[t.Lemma], n)
	}

	for _, id := range b.ids {
		t := b.tokens[id]
		n := node(t)
		if t.IsRoot() {
			tr.roots = append(tr.roots, n)
			continue
		}

		ht, ok := b.tokens[t.Head]
		if !ok {
			return nil, fmt.Errorf("%w: token %d has unknown head %d", ErrMalformed, t.Id, t.Head)
		}
		h := node(ht)

		tr.parent[n] = arc{head: h, label: t.Dep}
		tr.children[h][n] = t.Dep
		tr.labels[newEdge(n, h)] = t.Dep
		tr.adj[n] = append(tr.adj[n], h)
		tr.adj[h] = append(tr.adj[h], n)
	}

	if err := tr.checkAcyclic(); err != nil {
		return nil, err
	}

	for n := range tr.adj {
		ns := tr.adj[n]
		sort.Slice(ns, func(i, j int) bool { return ns[i].Index < ns[j].Index })
	}

	return tr, nil
}

// checkAcyclic walks up from every node; a walk longer than the number of
// nodes means a head cycle.
func (tr *Tree) checkAcyclic() error {
	limit := len(tr.order)
	for _, n := range tr.order {
		cur := n
		for steps := 0; ; steps++ {
			a, ok := tr.parent[cur]
			if !ok {
				break
			}
			if steps >= limit {
				return fmt.Errorf("%w: head cycle through %s", ErrMalformed, n)
			}
			cur = a.head
		}
	}

	return nil
}

// Len returns the number of nodes.
func (tr *Tree) Len() int {
	return len(tr.order)
}

// Nodes returns all nodes in token order.
func (tr *Tree) Nodes() []NodeID {
	return append([]NodeID(nil), tr.order...)
}

// Roots returns the root nodes in token order. A connected tree has one.
func (tr *Tree) Roots() []NodeID {
	return append([]NodeID(nil), tr.roots...)
}

// Has reports whether n belongs to the tree.
func (tr *Tree) Has(n NodeID) bool {
	_, ok := tr.texts[n]
	return ok
}

// Text returns the surface form of n.
func (tr *Tree) Text(n NodeID) string {
	return tr.texts[n]
}

// Parent returns the governing node of n and the relation label. ok is
// false for roots and unknown nodes.
func (tr *Tree) Parent(n NodeID) (head NodeID, label string, ok bool) {
	a, ok := tr.parent[n]
	return a.head, a.label, ok
}

// Children returns the dependents of n with their relation labels.
func (tr *Tree) Children(n NodeID) map[NodeID]string {
	out := make(map[NodeID]string, len(tr.children[n]))
	for c, l := range tr.children[n] {
		out[c] = l
	}
	return out
}

// LemmaNodes returns the nodes carrying lemma, in token order.
func (tr *Tree) LemmaNodes(lemma string) []NodeID {
	return append([]NodeID(nil), tr.lemmas[lemma]...)
}

// First returns the representative node of lemma: its first occurrence.
func (tr *Tree) First(lemma string) (NodeID, bool) {
	ns := tr.lemmas[lemma]
	if len(ns) == 0 {
		return NodeID{}, false
	}
	return ns[0], true
}

// Label returns the relation label of the edge between a and b, in either
// direction.
func (tr *Tree) Label(a, b NodeID) (string, bool) {
	l, ok := tr.labels[newEdge(a, b)]
	return l, ok
}

// ParentMap renders the child to head relation, for diagnostics.
func (tr *Tree) ParentMap() map[string]string {
	out := make(map[string]string, len(tr.parent))
	for c, a := range tr.parent {
		out[c.String()] = a.head.String()
	}
	return out
}
