package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/revelaction/qadiv/squad"
)

func convertCommand(opts ConvertOptions, ui UI) error {
	articles, err := squad.LoadPIAF(opts.From)
	if err != nil {
		return err
	}

	if opts.Categories {
		return printCategories(ui.Out, squad.Categories(articles, opts.ByArticle))
	}

	ds, stats := squad.FromPIAF(articles, !opts.Public)

	out := ui.Out
	if opts.To != "" {
		f, err := os.Create(opts.To)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ds); err != nil {
		return err
	}

	fmt.Fprintf(ui.Err, "paragraphs: %d, questions: %d, mistakes: %d\n", stats.Paragraphs, stats.Questions, stats.Mistakes)
	return nil
}

// printCategories prints categories by decreasing count.
func printCategories(w io.Writer, counts map[string]int) error {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", name, counts[name]); err != nil {
			return err
		}
	}
	return nil
}
