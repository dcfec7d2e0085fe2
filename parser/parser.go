// Package parser defines the natural-language parser collaborator and its
// backends. Parsing itself (tokenization, lemmatization, dependency
// analysis) happens outside this module: backends read the output of an
// external parser, call a parse service or ask a language model.
package parser

import (
	"context"
	"errors"
	"fmt"

	sent "github.com/revelaction/qadiv/sentence"
)

// ErrNotFound is returned by backends that can not produce a parse for a
// text they do not know, like a cache-only or CoNLL-U backend.
var ErrNotFound = errors.New("no parse for text")

// Parser tokenizes, lemmatizes and dependency-parses a text. Every
// non-root token must have a unique head and a relation label.
type Parser interface {
	Parse(ctx context.Context, text string) ([]sent.Token, error)
}

// Span is a sentence of a text. Start and End are character (rune)
// offsets, End excluded.
type Span struct {
	Start int
	End   int
	Text  string
}

// Segmenter splits a text into sentences.
type Segmenter interface {
	Sentences(text string) []Span
}

// ErrInvalidParse is returned when a backend produces tokens that can not
// be indexed: ids out of sequence or heads outside the text.
var ErrInvalidParse = errors.New("invalid parse")

// Validate checks that token ids run from 0 in order and that every head
// points inside the text. Cycles are left to the tree builder.
func Validate(tokens []sent.Token) error {
	for i, t := range tokens {
		if t.Id != i {
			return fmt.Errorf("%w: token %d has id %d", ErrInvalidParse, i, t.Id)
		}
		if t.Head >= len(tokens) {
			return fmt.Errorf("%w: token %d has head %d", ErrInvalidParse, i, t.Head)
		}
	}
	return nil
}
