package parser

import (
	"unicode"
)

// Rules is a punctuation sentencizer: a sentence ends after a run of
// terminal punctuation (and closing quotes or brackets) followed by
// whitespace or the end of the text. Whitespace between sentences belongs
// to none of them.
type Rules struct {
	// Terminals are the sentence ending runes. Defaults to . ! ? and …
	Terminals []rune
}

var _ Segmenter = Rules{}

var defaultTerminals = []rune{'.', '!', '?', '…'}

func (r Rules) isTerminal(c rune) bool {
	terms := r.Terminals
	if len(terms) == 0 {
		terms = defaultTerminals
	}
	for _, t := range terms {
		if c == t {
			return true
		}
	}
	return false
}

func isCloser(c rune) bool {
	switch c {
	case '"', '\'', ')', ']', '»', '”', '’':
		return true
	}
	return false
}

// Sentences splits text into sentences with rune offsets.
func (r Rules) Sentences(text string) []Span {
	runes := []rune(text)
	var spans []Span

	start := -1
	emit := func(end int) {
		if start < 0 {
			return
		}
		spans = append(spans, Span{Start: start, End: end, Text: string(runes[start:end])})
		start = -1
	}

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if start < 0 {
			if unicode.IsSpace(c) {
				continue
			}
			start = i
		}

		if !r.isTerminal(c) {
			continue
		}

		j := i + 1
		for j < len(runes) && (r.isTerminal(runes[j]) || isCloser(runes[j])) {
			j++
		}

		if j == len(runes) || unicode.IsSpace(runes[j]) {
			emit(j)
			i = j - 1
		}
	}

	emit(len(runes))
	return spans
}
