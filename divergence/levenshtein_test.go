package divergence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b []string
		want int
	}{
		{nil, nil, 0},
		{nil, []string{"nsubj"}, 1},
		{[]string{"nsubj", "obj"}, nil, 2},
		{[]string{"nsubj"}, []string{"nsubj"}, 0},
		{[]string{"nsubj"}, []string{"obj"}, 1},
		{[]string{"nsubj", "obj"}, []string{"obj"}, 1},
		{[]string{"nsubj", "aux:tense", "obj"}, []string{"aux:tense", "obj", "case"}, 2},
		// labels are compared as tokens: "obj" and "obl" are one substitution
		{[]string{"obj", "obj"}, []string{"obl", "obj"}, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EditDistance(tt.a, tt.b), "%v %v", tt.a, tt.b)
	}
}

func TestEditDistanceProperties(t *testing.T) {
	seqs := [][]string{
		{},
		{"nsubj"},
		{"nsubj", "obj"},
		{"obl:agent", "case", "det"},
		{"det", "case", "obl:agent", "nsubj:pass"},
	}

	for _, a := range seqs {
		assert.Equal(t, 0, EditDistance(a, a))
		for _, b := range seqs {
			assert.Equal(t, EditDistance(a, b), EditDistance(b, a), "%v %v", a, b)
		}
	}
}
