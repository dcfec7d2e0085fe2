// Package query is an interactive REPL showing how the divergence of a
// question and its answer sentence is computed.
package query

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/qadiv/divergence"
	"github.com/revelaction/qadiv/parser"
	"github.com/revelaction/qadiv/render"
	"github.com/revelaction/qadiv/squad"
)

const (
	completionThreshold = 2

	// itemPrefix is the character in the prompt that prefixes a dataset
	// item number
	itemPrefix = "#"

	separator = "|"
)

type Handler struct {
	Parser   parser.Parser
	Analyzer *divergence.Analyzer
	Renderer *render.Renderer

	// Triples of the loaded dataset, if any
	Triples []squad.Triple
}

func NewHandler(p parser.Parser, conf divergence.Config, triples []squad.Triple, r *render.Renderer) *Handler {
	return &Handler{
		Parser:   p,
		Analyzer: divergence.NewAnalyzer(p, conf),
		Renderer: r,
		Triples:  triples,
	}
}

func (h *Handler) Run(ctx context.Context) error {

	fmt.Fprintln(h.Renderer.W, "🔑 question | sentence | span, #N: dataset item N, Ctrl+X: toggle color, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {
		in := prompt.Input("      🔎 ", h.completer,
			prompt.OptionTitle("qadiv inspect"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.HasColor = !h.Renderer.HasColor
					fmt.Fprintf(h.Renderer.W, "Color set to %t\n", h.Renderer.HasColor)
				}}),
		)

		if in == "quit" {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		history = append(history, in)

		pair, err := h.parse(in)
		if err != nil {
			fmt.Fprintf(h.Renderer.W, "%v\n", err)
			continue
		}

		if err := h.Inspect(ctx, pair); err != nil {
			fmt.Fprintf(h.Renderer.W, "Error: %v\n", err)
		}
	}
}

// Inspect parses and analyzes pair and renders the outcome.
func (h *Handler) Inspect(ctx context.Context, pair divergence.Pair) error {
	question, err := h.Parser.Parse(ctx, pair.Question)
	if err != nil {
		return fmt.Errorf("parse question: %w", err)
	}

	answer, err := h.Parser.Parse(ctx, pair.Sentence)
	if err != nil {
		return fmt.Errorf("parse answer sentence: %w", err)
	}

	res, err := h.Analyzer.Compute(question, answer, pair.Span)
	if err != nil {
		return err
	}

	h.Renderer.Result(question, answer, res)
	return nil
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{}
	befCursor := in.TextBeforeCursor()

	if len(befCursor) < completionThreshold || strings.Contains(befCursor, separator) {
		return s
	}

	if strings.HasPrefix(befCursor, itemPrefix) {
		for i, tr := range h.Triples {
			n := itemPrefix + strconv.Itoa(i)
			if strings.HasPrefix(n, befCursor) {
				s = append(s, prompt.Suggest{Text: n, Description: tr.Question})
			}
		}
		return s
	}

	for i, tr := range h.Triples {
		if strings.HasPrefix(tr.Question, befCursor) {
			s = append(s, prompt.Suggest{Text: itemPrefix + strconv.Itoa(i), Description: tr.Question})
		}
	}

	return s
}

func (h *Handler) parse(in string) (divergence.Pair, error) {
	in = strings.TrimSpace(in)
	if in == "" {
		return divergence.Pair{}, errors.New("Nothing to inspect")
	}

	if strings.HasPrefix(in, itemPrefix) {
		n, err := strconv.Atoi(strings.TrimPrefix(in, itemPrefix))
		if err != nil {
			return divergence.Pair{}, fmt.Errorf("Invalid item number %q", in)
		}
		if n < 0 || n >= len(h.Triples) {
			return divergence.Pair{}, fmt.Errorf("Item %d out of range, %d items loaded", n, len(h.Triples))
		}

		tr := h.Triples[n]
		return divergence.Pair{Question: tr.Question, Sentence: tr.Sentence, Span: tr.Span}, nil
	}

	parts := strings.Split(in, separator)
	if len(parts) != 3 {
		return divergence.Pair{}, errors.New("Expected: question | sentence | span")
	}

	pair := divergence.Pair{
		Question: strings.TrimSpace(parts[0]),
		Sentence: strings.TrimSpace(parts[1]),
		Span:     strings.TrimSpace(parts[2]),
	}

	if pair.Question == "" || pair.Sentence == "" || pair.Span == "" {
		return divergence.Pair{}, errors.New("Question, sentence and span must not be empty")
	}

	return pair, nil
}
