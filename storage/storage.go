// Package storage defines the persistence interfaces of qadiv: a cache of
// parses keyed by text, and a sink for per-item analysis results.
package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"

	sent "github.com/revelaction/qadiv/sentence"
)

// ErrReadOnly is returned by stores that can not be written.
var ErrReadOnly = errors.New("read-only storage")

// ParseCacheReader defines read operations for parse caches
type ParseCacheReader interface {
	// Read returns the cached parse of text. The boolean is false on a miss.
	Read(ctx context.Context, text string) ([]sent.Token, bool, error)
}

// ParseCacheWriter defines write operations for parse caches
type ParseCacheWriter interface {
	// Write stores the parse of text, replacing any previous one
	Write(ctx context.Context, text string, tokens []sent.Token) error
}

// ParseCache combines read and write operations
type ParseCache interface {
	ParseCacheReader
	ParseCacheWriter
}

// ItemResult is the stored outcome of the analysis of one dataset item.
// Err is set for failed items, Status otherwise.
type ItemResult struct {
	Index            int      `json:"index"`
	Id               string   `json:"id,omitempty"`
	Question         string   `json:"question"`
	Sentence         string   `json:"sentence"`
	Span             string   `json:"span"`
	Status           string   `json:"status,omitempty"`
	Distance         int      `json:"distance"`
	LexicalVariation float64  `json:"lexical_variation"`
	Anchor           string   `json:"anchor,omitempty"`
	AnchorRoot       string   `json:"anchor_root,omitempty"`
	QuestionPath     []string `json:"question_path,omitempty"`
	AnswerPath       []string `json:"answer_path,omitempty"`
	Err              string   `json:"error,omitempty"`
}

// ResultWriter persists item results of an analysis run
type ResultWriter interface {
	WriteResult(ctx context.Context, runID string, r ItemResult) error
}

// Key returns the cache key of a text: the hex sha1 of its bytes.
func Key(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
