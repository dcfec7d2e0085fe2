package squad

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Audience of the PIAF annotation platform
const Restricted = "restricted"

// PIAFArticle is an article of a PIAF annotation export.
type PIAFArticle struct {
	DisplayTitle string          `json:"displaytitle"`
	Audience     string          `json:"audience"`
	Category     string          `json:"categorie"`
	Paragraphs   []PIAFParagraph `json:"paragraphs"`
}

type PIAFParagraph struct {
	Text      string         `json:"text"`
	Questions []PIAFQuestion `json:"questions"`
}

type PIAFQuestion struct {
	Text    string       `json:"text"`
	Answers []PIAFAnswer `json:"answers"`
}

type PIAFAnswer struct {
	Text string `json:"text"`
}

// ConvertStats counts what FromPIAF kept and dropped.
type ConvertStats struct {
	Paragraphs int
	Questions  int
	// Mistakes counts answers whose text is not found in the paragraph
	Mistakes int
}

// LoadPIAF reads a PIAF export file.
func LoadPIAF(path string) ([]PIAFArticle, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var articles []PIAFArticle
	if err := json.Unmarshal(content, &articles); err != nil {
		return nil, fmt.Errorf("PIAF export %s: %w", path, err)
	}

	return articles, nil
}

// FromPIAF converts a PIAF export into a SQuAD dataset. With restricted
// only articles of the restricted audience are kept, otherwise only the
// others. Repeated titles are dropped. Answer offsets are recomputed from
// the paragraph text; answers found at offset 0 or not found are counted
// as mistakes. Questions get sequential ids.
func FromPIAF(articles []PIAFArticle, restricted bool) (*Dataset, ConvertStats) {
	ds := &Dataset{Version: "1.1"}
	var stats ConvertStats

	seen := map[string]bool{}
	for _, article := range articles {
		if (article.Audience == Restricted) != restricted {
			continue
		}

		if seen[article.DisplayTitle] {
			continue
		}
		seen[article.DisplayTitle] = true

		a := Article{Title: article.DisplayTitle}
		for _, paragraph := range article.Paragraphs {
			stats.Paragraphs++
			p := Paragraph{Context: paragraph.Text}

			for _, q := range paragraph.Questions {
				var answers []Answer
				for _, ans := range q.Answers {
					start := runeIndex(paragraph.Text, ans.Text)
					if start <= 0 {
						stats.Mistakes++
						continue
					}
					answers = append(answers, Answer{AnswerStart: start, Text: ans.Text})
				}

				if len(answers) == 0 {
					continue
				}

				p.QAs = append(p.QAs, QA{
					Id:       strconv.Itoa(stats.Questions),
					Question: q.Text,
					Answers:  answers,
				})
				stats.Questions++
			}

			if len(p.QAs) > 0 {
				a.Paragraphs = append(a.Paragraphs, p)
			}
		}

		if len(a.Paragraphs) > 0 {
			ds.Data = append(ds.Data, a)
		}
	}

	return ds, stats
}

// Categories counts paragraphs (or articles, with byArticle) of the
// restricted audience per category. Repeated titles are counted once.
func Categories(articles []PIAFArticle, byArticle bool) map[string]int {
	counts := map[string]int{}
	seen := map[string]bool{}
	for _, article := range articles {
		if seen[article.DisplayTitle] {
			continue
		}
		seen[article.DisplayTitle] = true

		if article.Audience != Restricted {
			continue
		}

		n := len(article.Paragraphs)
		if byArticle {
			n = 1
		}
		counts[article.Category] += n
	}
	return counts
}

// runeIndex is strings.Index in runes. It returns -1 if sub is absent.
func runeIndex(s, sub string) int {
	i := strings.Index(s, sub)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:i])
}
