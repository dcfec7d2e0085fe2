package main

import (
	"fmt"
	"strings"

	"github.com/revelaction/qadiv/parser"
	"github.com/revelaction/qadiv/squad"
)

// triplesCommand prints id, question, sentence and span of every triple,
// tab separated. Tabs and newlines inside texts become spaces.
func triplesCommand(path string, ui UI) error {
	ds, err := squad.Load(path)
	if err != nil {
		return err
	}

	triples, stats := squad.Triples(ds, parser.Rules{})
	for _, tr := range triples {
		if _, err := fmt.Fprintf(ui.Out, "%s\t%s\t%s\t%s\n", tr.Id, tsv(tr.Question), tsv(tr.Sentence), tsv(tr.Span)); err != nil {
			return err
		}
	}

	fmt.Fprintf(ui.Err, "questions: %d, triples: %d, no answer: %d, unfound: %d\n", stats.Questions, len(triples), stats.NoAnswer, stats.Unfound)
	return nil
}

var tsvReplacer = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func tsv(s string) string {
	return tsvReplacer.Replace(s)
}
