package batch

import (
	"sort"

	"github.com/revelaction/qadiv/divergence"
)

// Report aggregates the outcomes of a run. Distances and
// LexicalVariations hold one value per OK item, in item order.
type Report struct {
	Total             int            `json:"total"`
	Distances         []int          `json:"distances"`
	LexicalVariations []float64      `json:"lexical_variations"`
	Failures          int            `json:"failures"`
	FailureKinds      map[string]int `json:"failure_kinds,omitempty"`

	UnresolvedAnchorRoot int `json:"unresolved_anchor_root"`
	NoInterrogative      int `json:"no_interrogative"`
	NoAnchor             int `json:"no_anchor"`

	// Unfound counts answers not found in their sentence during triple
	// extraction. Set by the caller.
	Unfound int `json:"unfound"`
}

// NewReport aggregates items, whatever their order.
func NewReport(items []Item) *Report {
	sorted := append([]Item(nil), items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	r := &Report{
		Distances:         []int{},
		LexicalVariations: []float64{},
		FailureKinds:      map[string]int{},
	}

	for _, it := range sorted {
		r.Add(it)
	}

	return r
}

// Add counts one item.
func (r *Report) Add(it Item) {
	r.Total++

	if it.Err != nil {
		r.Failures++
		if r.FailureKinds == nil {
			r.FailureKinds = map[string]int{}
		}
		r.FailureKinds[Kind(it.Err)]++
		return
	}

	switch it.Result.Status {
	case divergence.OK:
		r.Distances = append(r.Distances, it.Result.Distance)
		r.LexicalVariations = append(r.LexicalVariations, it.Result.LexicalVariation)
	case divergence.NoAnchor:
		r.NoAnchor++
	case divergence.NoInterrogative:
		r.NoInterrogative++
	case divergence.UnresolvedAnchorRoot:
		r.UnresolvedAnchorRoot++
	}
}
