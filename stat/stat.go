// Package stat summarizes the distributions of a batch report.
package stat

import (
	"sort"

	"github.com/revelaction/qadiv/batch"
)

// MaxDistanceBin is the last bin of the distance histogram. It also counts
// larger distances.
const MaxDistanceBin = 8

// Deciles is the number of lexical variation bins.
const Deciles = 10

type Handler struct {
	stats Stats
}

type Stats struct {
	// Analyzed is the number of items with a distance
	Analyzed int `json:"analyzed"`

	DistanceMean   float64 `json:"distance_mean"`
	DistanceMedian float64 `json:"distance_median"`
	// DistanceDis counts distances 0 to MaxDistanceBin
	DistanceDis [MaxDistanceBin + 1]int `json:"distance_distribution"`

	LexicalVariationMean float64 `json:"lexical_variation_mean"`
	// LexicalVariationDis counts lexical variations in [0, 0.1), [0.1, 0.2)...
	// 1 falls in the last decile.
	LexicalVariationDis [Deciles]int `json:"lexical_variation_distribution"`
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Aggregate(r *batch.Report) {
	s := Stats{Analyzed: len(r.Distances)}

	if len(r.Distances) > 0 {
		sum := 0
		for _, d := range r.Distances {
			sum += d
			s.DistanceDis[min(d, MaxDistanceBin)]++
		}
		s.DistanceMean = float64(sum) / float64(len(r.Distances))
		s.DistanceMedian = median(r.Distances)
	}

	if len(r.LexicalVariations) > 0 {
		sum := 0.0
		for _, lv := range r.LexicalVariations {
			sum += lv
			s.LexicalVariationDis[decile(lv)]++
		}
		s.LexicalVariationMean = sum / float64(len(r.LexicalVariations))
	}

	h.stats = s
}

func decile(lv float64) int {
	// small epsilon so that 0.3 (0.29999...) lands in the fourth bin
	i := int(lv*Deciles + 1e-9)
	return max(0, min(i, Deciles-1))
}

func median(values []int) float64 {
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
