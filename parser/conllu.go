package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	sent "github.com/revelaction/qadiv/sentence"
)

// CoNLLU serves parses read from the CoNLL-U output of an external parser
// (UDPipe, Stanza, spaCy with a CoNLL-U exporter). Texts are looked up by
// the `# text = ` comment of their sentence block.
type CoNLLU struct {
	order []string
	parses map[string][]sent.Token
}

var _ Parser = (*CoNLLU)(nil)

// OpenCoNLLU reads a CoNLL-U file.
func OpenCoNLLU(path string) (*CoNLLU, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := ReadCoNLLU(f)
	if err != nil {
		return nil, fmt.Errorf("CoNLL-U file %s: %w", path, err)
	}
	return c, nil
}

// ReadCoNLLU reads CoNLL-U sentence blocks. Multiword token ranges and
// empty nodes are skipped. Token ids become 0-based; the root (head 0)
// points to itself.
func ReadCoNLLU(r io.Reader) (*CoNLLU, error) {
	c := &CoNLLU{parses: map[string][]sent.Token{}}

	var (
		text   string
		tokens []sent.Token
		lineNo int
	)

	flush := func() {
		if len(tokens) > 0 {
			if text == "" {
				text = joinForms(tokens)
			}
			setOffsets(text, tokens)
			if _, ok := c.parses[text]; !ok {
				c.order = append(c.order, text)
			}
			c.parses[text] = tokens
		}
		text = ""
		tokens = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.HasPrefix(line, "# text = ") {
			text = strings.TrimPrefix(line, "# text = ")
			continue
		}

		if strings.HasPrefix(line, "#") {
			continue
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		t, ok, err := parseConllLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if ok {
			tokens = append(tokens, t)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Don't forget last sentence if no trailing blank
	flush()

	return c, nil
}

func parseConllLine(line string) (sent.Token, bool, error) {
	cols := strings.Split(line, "\t")
	if len(cols) != 10 {
		return sent.Token{}, false, fmt.Errorf("expected 10 columns, got %d", len(cols))
	}

	// 1-2 multiword ranges and 1.1 empty nodes
	if strings.ContainsAny(cols[0], "-.") {
		return sent.Token{}, false, nil
	}

	id, err := strconv.Atoi(cols[0])
	if err != nil {
		return sent.Token{}, false, fmt.Errorf("invalid id %q: %w", cols[0], err)
	}

	head, err := strconv.Atoi(cols[6])
	if err != nil {
		return sent.Token{}, false, fmt.Errorf("invalid head %q: %w", cols[6], err)
	}

	t := sent.Token{
		Id:    id - 1,
		Head:  head - 1,
		Text:  cols[1],
		Lemma: cols[2],
		Pos:   cols[3],
		Tag:   cols[5],
		Dep:   cols[7],
	}

	if head == 0 {
		t.Head = t.Id
	}

	return t, true, nil
}

func joinForms(tokens []sent.Token) string {
	forms := make([]string, 0, len(tokens))
	for _, t := range tokens {
		forms = append(forms, t.Text)
	}
	return strings.Join(forms, " ")
}

// setOffsets fills Idx with the rune offset of each form in text.
func setOffsets(text string, tokens []sent.Token) {
	pos := 0
	for i := range tokens {
		at := strings.Index(text[pos:], tokens[i].Text)
		if at < 0 {
			tokens[i].Idx = -1
			continue
		}
		tokens[i].Idx = utf8.RuneCountInString(text[:pos+at])
		pos += at + len(tokens[i].Text)
	}
}

// Parse returns the parse of text, or ErrNotFound.
func (c *CoNLLU) Parse(_ context.Context, text string) ([]sent.Token, error) {
	tokens, ok := c.parses[text]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, text)
	}
	return append([]sent.Token(nil), tokens...), nil
}

// Len returns the number of distinct texts.
func (c *CoNLLU) Len() int {
	return len(c.order)
}

// Each calls fn for every text in file order.
func (c *CoNLLU) Each(fn func(text string, tokens []sent.Token) error) error {
	for _, text := range c.order {
		if err := fn(text, c.parses[text]); err != nil {
			return err
		}
	}
	return nil
}
