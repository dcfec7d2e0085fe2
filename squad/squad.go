// Package squad reads SQuAD formatted QA datasets and extracts the
// question, answer sentence and answer span triples to analyze.
package squad

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"github.com/revelaction/qadiv/parser"
)

// Dataset is a SQuAD v1.1 / v2.0 dataset.
type Dataset struct {
	Version string    `json:"version,omitempty"`
	Data    []Article `json:"data"`
}

type Article struct {
	Title      string      `json:"title"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

type Paragraph struct {
	Context string `json:"context"`
	QAs     []QA   `json:"qas"`
}

type QA struct {
	Id           string   `json:"id"`
	Question     string   `json:"question"`
	Answers      []Answer `json:"answers"`
	IsImpossible bool     `json:"is_impossible,omitempty"`
}

type Answer struct {
	// AnswerStart is the character offset of Text in the paragraph context
	AnswerStart int    `json:"answer_start"`
	Text        string `json:"text"`
}

// Triple is a question, the context sentence holding its answer and the
// answer span.
type Triple struct {
	Id       string
	Title    string
	Question string
	Sentence string
	Span     string
}

// Stats counts what happened during triple extraction.
type Stats struct {
	Articles   int
	Paragraphs int
	Questions  int
	// NoAnswer counts questions without answers or marked impossible
	// (SQuAD v2)
	NoAnswer int
	// Unfound counts answers not contained in the sentence at their offset
	Unfound int
}

// Load reads a SQuAD JSON file.
func Load(path string) (*Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ds Dataset
	if err := json.Unmarshal(content, &ds); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}

	return &ds, nil
}

// Triples maps the first answer of every question to the sentence of its
// paragraph containing answer_start. Questions without answers are skipped.
// Answers not found in the selected sentence are counted as Unfound and
// skipped.
func Triples(ds *Dataset, seg parser.Segmenter) ([]Triple, Stats) {
	var (
		triples []Triple
		stats   Stats
	)

	for _, article := range ds.Data {
		stats.Articles++
		title := CleanHTML(article.Title)

		for _, paragraph := range article.Paragraphs {
			stats.Paragraphs++
			// answer_start counts runes of the context as stored
			spans := seg.Sentences(paragraph.Context)

			for _, qa := range paragraph.QAs {
				stats.Questions++
				if len(qa.Answers) == 0 || qa.IsImpossible {
					stats.NoAnswer++
					continue
				}

				answer := qa.Answers[0]
				text := norm.NFC.String(answer.Text)

				sentence, ok := sentenceAt(spans, answer.AnswerStart)
				sentence = norm.NFC.String(sentence)
				if !ok || !strings.Contains(sentence, text) {
					log.Debug().
						Str("id", qa.Id).
						Str("question", qa.Question).
						Str("answer", text).
						Int("answer_start", answer.AnswerStart).
						Msg("answer sentence lookup failed")
					stats.Unfound++
					continue
				}

				triples = append(triples, Triple{
					Id:       qa.Id,
					Title:    title,
					Question: norm.NFC.String(qa.Question),
					Sentence: sentence,
					Span:     text,
				})
			}
		}
	}

	return triples, stats
}

// sentenceAt returns the sentence containing the rune offset. An offset in
// the gap between two sentences belongs to the previous one.
func sentenceAt(spans []parser.Span, offset int) (string, bool) {
	if offset < 0 || len(spans) == 0 || offset < spans[0].Start {
		return "", false
	}

	found := -1
	for i, s := range spans {
		if s.Start > offset {
			break
		}
		found = i
	}

	s := spans[found]
	// past the end of the text
	if found == len(spans)-1 && offset > s.End {
		return "", false
	}

	return s.Text, true
}

var tagRe = regexp.MustCompile(`<.*?>`)

// CleanHTML strips HTML tags from a title.
func CleanHTML(s string) string {
	return tagRe.ReplaceAllString(s, "")
}
