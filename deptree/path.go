package deptree

import (
	"fmt"
)

// ShortestPath returns the nodes of the shortest undirected path from
// `from` to `to`, both included. A node's path to itself is [from].
func (tr *Tree) ShortestPath(from, to NodeID) ([]NodeID, error) {
	if !tr.Has(from) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, from)
	}
	if !tr.Has(to) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, to)
	}

	if from == to {
		return []NodeID{from}, nil
	}

	prev := map[NodeID]NodeID{from: from}
	queue := []NodeID{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range tr.adj[cur] {
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = cur

			if next == to {
				return walkBack(prev, from, to), nil
			}
			queue = append(queue, next)
		}
	}

	return nil, fmt.Errorf("%w: no path from %s to %s", ErrDisconnected, from, to)
}

func walkBack(prev map[NodeID]NodeID, from, to NodeID) []NodeID {
	path := []NodeID{to}
	for cur := to; cur != from; {
		cur = prev[cur]
		path = append(path, cur)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathLabels returns the relation label of every edge walked along path.
// The result has len(path)-1 labels.
func (tr *Tree) PathLabels(path []NodeID) ([]string, error) {
	if len(path) < 2 {
		return []string{}, nil
	}

	labels := make([]string, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		l, ok := tr.Label(path[i-1], path[i])
		if !ok {
			return nil, fmt.Errorf("%w: no edge between %s and %s", ErrDisconnected, path[i-1], path[i])
		}
		labels = append(labels, l)
	}

	return labels, nil
}

// LabelPath is ShortestPath followed by PathLabels.
func (tr *Tree) LabelPath(from, to NodeID) ([]string, error) {
	path, err := tr.ShortestPath(from, to)
	if err != nil {
		return nil, err
	}
	return tr.PathLabels(path)
}

// Depth returns the number of edges between n and its root.
func (tr *Tree) Depth(n NodeID) (int, error) {
	if !tr.Has(n) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownNode, n)
	}

	depth := 0
	for {
		a, ok := tr.parent[n]
		if !ok {
			return depth, nil
		}
		n = a.head
		depth++
	}
}

// LowestCommonAncestor returns the deepest node that is an ancestor of (or
// equal to) both a and b.
func (tr *Tree) LowestCommonAncestor(a, b NodeID) (NodeID, error) {
	if !tr.Has(a) {
		return NodeID{}, fmt.Errorf("%w: %s", ErrUnknownNode, a)
	}
	if !tr.Has(b) {
		return NodeID{}, fmt.Errorf("%w: %s", ErrUnknownNode, b)
	}

	ancestors := map[NodeID]bool{a: true}
	for cur := a; ; {
		p, ok := tr.parent[cur]
		if !ok {
			break
		}
		cur = p.head
		ancestors[cur] = true
	}

	for cur := b; ; {
		if ancestors[cur] {
			return cur, nil
		}
		p, ok := tr.parent[cur]
		if !ok {
			break
		}
		cur = p.head
	}

	return NodeID{}, fmt.Errorf("%w: %s and %s share no ancestor", ErrDisconnected, a, b)
}
