package divergence

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Policy selects which interrogative token is kept when a question has
// more than one.
type Policy int

const (
	// LastMatch keeps the last interrogative token in document order.
	LastMatch Policy = iota
	// FirstMatch keeps the first one.
	FirstMatch
)

func (p Policy) String() string {
	switch p {
	case FirstMatch:
		return "first"
	default:
		return "last"
	}
}

// ParsePolicy converts "first" or "last" into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "last", "":
		return LastMatch, nil
	case "first":
		return FirstMatch, nil
	}
	return LastMatch, fmt.Errorf("unknown interrogative policy %q, allowed values are first, last", s)
}

// DefaultInterrogatives is the closed set of French interrogative lemmas
// recognized in questions, including the case variants a French
// lemmatizer is known to emit.
var DefaultInterrogatives = []string{
	"quelle", "que", "où", "combien", "quel", "qui", "quand",
	"comment", "quoi", "pourquoi", "Quand", "quell",
}

// Config parametrizes an Analyzer.
type Config struct {
	Interrogatives []string
	Policy         Policy
}

// DefaultConfig returns the French interrogatives with the last-match
// policy.
func DefaultConfig() Config {
	return Config{
		Interrogatives: append([]string(nil), DefaultInterrogatives...),
		Policy:         LastMatch,
	}
}

// ReadInterrogatives reads one lemma per line. Blank lines and lines
// starting with # are skipped.
func ReadInterrogatives(r io.Reader) ([]string, error) {
	var lemmas []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lemmas = append(lemmas, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(lemmas) == 0 {
		return nil, fmt.Errorf("no interrogative lemma found")
	}
	return lemmas, nil
}

// LoadInterrogatives reads an interrogative list file.
func LoadInterrogatives(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lemmas, err := ReadInterrogatives(f)
	if err != nil {
		return nil, fmt.Errorf("interrogatives file %s: %w", path, err)
	}
	return lemmas, nil
}
