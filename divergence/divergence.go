// Package divergence measures how far a question diverges from the sentence
// holding its answer.
//
// Both texts are parsed into dependency trees. Every lemma shared by the
// question and the answer sentence is a candidate anchor. On the question
// side the dependency path runs from the interrogative pronoun to the
// anchor; on the answer side it runs from the root of the answer span to
// the anchor. The syntactic divergence is the smallest edit distance
// between the label sequences of the two paths over all anchors. The
// lexical variation is the share of question tokens whose lemma is absent
// from the answer sentence.
package divergence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/revelaction/qadiv/deptree"
	"github.com/revelaction/qadiv/parser"
	sent "github.com/revelaction/qadiv/sentence"
)

// ErrEmptyQuestion is returned for questions without tokens. Lexical
// variation is undefined for them.
var ErrEmptyQuestion = errors.New("question has no tokens")

// Status classifies the outcome of an analysis.
type Status int

const (
	// OK means Distance holds the divergence.
	OK Status = iota
	// NoAnchor means the question and the answer share no lemma.
	NoAnchor
	// NoInterrogative means no interrogative lemma was found in the question.
	NoInterrogative
	// UnresolvedAnchorRoot means no token of the answer span has its head
	// outside the span.
	UnresolvedAnchorRoot
)

var statusNames = map[Status]string{
	OK:                   "ok",
	NoAnchor:             "no_anchor",
	NoInterrogative:      "no_interrogative",
	UnresolvedAnchorRoot: "unresolved_anchor_root",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for k, v := range statusNames {
		if v == string(b) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// Pair is a question with the sentence containing its answer and the
// answer span.
type Pair struct {
	Question string
	Sentence string
	Span     string
}

// Result is the outcome of the analysis of one Pair. Distance and the paths
// are only meaningful when Status is OK. LexicalVariation is always set.
type Result struct {
	Status           Status   `json:"status"`
	Distance         int      `json:"distance"`
	LexicalVariation float64  `json:"lexical_variation"`
	Interrogative    string   `json:"interrogative,omitempty"`
	AnchorRoot       string   `json:"anchor_root,omitempty"`
	Anchor           string   `json:"anchor,omitempty"`
	QuestionPath     []string `json:"question_path,omitempty"`
	AnswerPath       []string `json:"answer_path,omitempty"`
}

// Analyzer computes divergences. It holds no per-analysis state and may be
// shared by several goroutines if its Parser allows it.
type Analyzer struct {
	parser         parser.Parser
	interrogatives map[string]bool
	policy         Policy
}

// NewAnalyzer creates an Analyzer parsing texts with p.
func NewAnalyzer(p parser.Parser, conf Config) *Analyzer {
	if len(conf.Interrogatives) == 0 {
		conf.Interrogatives = DefaultInterrogatives
	}

	set := make(map[string]bool, len(conf.Interrogatives))
	for _, l := range conf.Interrogatives {
		set[l] = true
	}

	return &Analyzer{
		parser:         p,
		interrogatives: set,
		policy:         conf.Policy,
	}
}

// Analyze parses the question and the answer sentence of pair and computes
// their divergence. Expected outcomes (no anchor, no interrogative,
// unresolved anchor root) are reported in Result.Status; errors are
// reserved for parser failures, invalid input and structural parse errors.
func (a *Analyzer) Analyze(ctx context.Context, pair Pair) (Result, error) {
	question, err := a.parser.Parse(ctx, pair.Question)
	if err != nil {
		return Result{}, fmt.Errorf("parse question: %w", err)
	}

	answer, err := a.parser.Parse(ctx, pair.Sentence)
	if err != nil {
		return Result{}, fmt.Errorf("parse answer sentence: %w", err)
	}

	return a.Compute(question, answer, pair.Span)
}

// Compute runs the analysis on already parsed texts.
func (a *Analyzer) Compute(question, answer []sent.Token, span string) (Result, error) {
	shared, lexVar, err := SharedLemmas(question, answer)
	if err != nil {
		return Result{}, err
	}

	res := Result{LexicalVariation: lexVar}

	if len(shared) == 0 {
		res.Status = NoAnchor
		return res, nil
	}

	qTree, err := deptree.Build(question)
	if err != nil {
		return Result{}, fmt.Errorf("question tree: %w", err)
	}

	pronoun, ok := a.Interrogative(question)
	if !ok {
		res.Status = NoInterrogative
		return res, nil
	}
	res.Interrogative = pronoun

	aTree, err := deptree.Build(answer)
	if err != nil {
		return Result{}, fmt.Errorf("answer tree: %w", err)
	}

	root, ok := AnchorRoot(aTree, span)
	if !ok {
		log.Warn().
			Str("span", span).
			Interface("parents", aTree.ParentMap()).
			Msg("unresolved anchor root")
		res.Status = UnresolvedAnchorRoot
		return res, nil
	}
	res.AnchorRoot = root.String()

	// The representative node of a lemma is its first occurrence, the
	// pronoun included.
	pronounNode, _ := qTree.First(pronoun)

	found := false
	for _, anchor := range distinct(shared) {
		qAnchor, _ := qTree.First(anchor)
		if qAnchor == pronounNode {
			continue
		}
		aAnchor, _ := aTree.First(anchor)

		qPath, err := qTree.LabelPath(pronounNode, qAnchor)
		if err != nil {
			return Result{}, fmt.Errorf("question path to %q: %w", anchor, err)
		}

		aPath, err := aTree.LabelPath(root, aAnchor)
		if err != nil {
			return Result{}, fmt.Errorf("answer path to %q: %w", anchor, err)
		}

		d := EditDistance(qPath, aPath)
		if !found || d < res.Distance {
			found = true
			res.Distance = d
			res.Anchor = anchor
			res.QuestionPath = qPath
			res.AnswerPath = aPath
		}
	}

	if !found {
		// the only shared lemma is the interrogative pronoun itself
		res.Status = NoAnchor
		return res, nil
	}

	res.Status = OK
	return res, nil
}

// Interrogative returns the lemma of the interrogative token of a question,
// chosen according to the analyzer policy.
func (a *Analyzer) Interrogative(question []sent.Token) (string, bool) {
	lemma := ""
	found := false
	for _, t := range question {
		if !a.interrogatives[t.Lemma] {
			continue
		}

		lemma = t.Lemma
		found = true
		if a.policy == FirstMatch {
			break
		}
	}

	return lemma, found
}

// AnchorRoot returns the head of the answer span in the answer tree: the
// first token, in document order, whose text is part of span while the
// text of its head is not. Root tokens have no head and are never chosen.
func AnchorRoot(tree *deptree.Tree, span string) (deptree.NodeID, bool) {
	for _, n := range tree.Nodes() {
		if !strings.Contains(span, tree.Text(n)) {
			continue
		}

		head, _, ok := tree.Parent(n)
		if !ok {
			continue
		}

		if !strings.Contains(span, tree.Text(head)) {
			return n, true
		}
	}

	return deptree.NodeID{}, false
}

// SharedLemmas returns the question lemmas also present in the answer, in
// question order and with repetitions, and the lexical variation
// 1 - len(shared)/len(question).
func SharedLemmas(question, answer []sent.Token) ([]string, float64, error) {
	if len(question) == 0 {
		return nil, 0, ErrEmptyQuestion
	}

	inAnswer := make(map[string]bool, len(answer))
	for _, l := range sent.Lemmas(answer) {
		inAnswer[l] = true
	}

	var shared []string
	for _, l := range sent.Lemmas(question) {
		if inAnswer[l] {
			shared = append(shared, l)
		}
	}

	lexVar := 1 - float64(len(shared))/float64(len(question))
	return shared, lexVar, nil
}

func distinct(lemmas []string) []string {
	seen := make(map[string]bool, len(lemmas))
	var out []string
	for _, l := range lemmas {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
