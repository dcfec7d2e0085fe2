package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/revelaction/qadiv/batch"
	"github.com/revelaction/qadiv/divergence"
	sent "github.com/revelaction/qadiv/sentence"
	"github.com/revelaction/qadiv/stat"
)

const (
	barWidth      = 50
	Defaultformat = "text"
)

var (
	Green     = "\033[1;32m"
	Off       = "\033[0m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
)

func SupportedFormats() []string {
	return []string{"text", "json"}
}

// ReportRenderer writes the outcome of a batch run.
type ReportRenderer interface {
	Report(r *batch.Report, s stat.Stats) error
}

// Renderer writes human readable reports and analysis results.
type Renderer struct {
	W io.Writer

	HasColor bool
}

var _ ReportRenderer = (*Renderer)(nil)

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{W: w}
}

// Report prints the counters of r and the distributions in s as bars.
func (r *Renderer) Report(rep *batch.Report, s stat.Stats) error {
	var b strings.Builder

	fmt.Fprintf(&b, "items:                  %d\n", rep.Total)
	fmt.Fprintf(&b, "analyzed:               %d\n", s.Analyzed)
	fmt.Fprintf(&b, "no anchor:              %d\n", rep.NoAnchor)
	fmt.Fprintf(&b, "no interrogative:       %d\n", rep.NoInterrogative)
	fmt.Fprintf(&b, "unresolved anchor root: %d\n", rep.UnresolvedAnchorRoot)
	fmt.Fprintf(&b, "unfound answers:        %d\n", rep.Unfound)
	fmt.Fprintf(&b, "failures:               %d\n", rep.Failures)
	for _, kind := range sortedKeys(rep.FailureKinds) {
		fmt.Fprintf(&b, "  %-21s %d\n", kind+":", rep.FailureKinds[kind])
	}

	if s.Analyzed > 0 {
		fmt.Fprintf(&b, "\nsyntactic divergence (mean %.2f, median %.1f)\n", s.DistanceMean, s.DistanceMedian)
		for d, n := range s.DistanceDis {
			label := fmt.Sprintf("%d", d)
			if d == stat.MaxDistanceBin {
				label += "+"
			}
			fmt.Fprintf(&b, "%5s %s %d\n", label, r.bar(n, s.Analyzed), n)
		}

		fmt.Fprintf(&b, "\nlexical variation (mean %.3f)\n", s.LexicalVariationMean)
		for i, n := range s.LexicalVariationDis {
			label := fmt.Sprintf("%.1f", float64(i)/stat.Deciles)
			fmt.Fprintf(&b, "%5s %s %d\n", label, r.bar(n, s.Analyzed), n)
		}
	}

	_, err := io.WriteString(r.W, b.String())
	return err
}

func (r *Renderer) bar(n, total int) string {
	width := 0
	if total > 0 {
		width = n * barWidth / total
	}
	if n > 0 && width == 0 {
		width = 1
	}

	bar := strings.Repeat("█", width)
	if !r.HasColor || bar == "" {
		return bar
	}
	return Green256 + bar + Off
}

// Result prints the analysis of one pair: the paths of the winning anchor
// and both texts with the anchor tokens highlighted.
func (r *Renderer) Result(question, answer []sent.Token, res divergence.Result) {
	fmt.Fprintf(r.W, "%s %s\n", r.label("status:"), r.status(res.Status))
	fmt.Fprintf(r.W, "%s %.3f\n", r.label("lexical variation:"), res.LexicalVariation)

	if res.Interrogative != "" {
		fmt.Fprintf(r.W, "%s %s\n", r.label("interrogative:"), res.Interrogative)
	}
	if res.AnchorRoot != "" {
		fmt.Fprintf(r.W, "%s %s\n", r.label("anchor root:"), res.AnchorRoot)
	}

	if res.Status != divergence.OK {
		return
	}

	fmt.Fprintf(r.W, "%s %s\n", r.label("anchor:"), res.Anchor)
	fmt.Fprintf(r.W, "%s %d\n", r.label("distance:"), res.Distance)
	fmt.Fprintf(r.W, "%s %s\n", r.label("question path:"), Path(res.QuestionPath))
	fmt.Fprintf(r.W, "%s %s\n", r.label("answer path:"), Path(res.AnswerPath))
	fmt.Fprintf(r.W, "%s %s\n", r.label("question:"), r.SentenceString(question, res.Anchor, res.Interrogative))
	fmt.Fprintf(r.W, "%s %s\n", r.label("answer:"), r.SentenceString(answer, res.Anchor, ""))
}

func (r *Renderer) label(s string) string {
	s = fmt.Sprintf("%-18s", s)
	if !r.HasColor {
		return s
	}
	return Grey256 + s + Off
}

func (r *Renderer) status(s divergence.Status) string {
	if !r.HasColor {
		return s.String()
	}
	if s == divergence.OK {
		return Green + s.String() + Off
	}
	return Yellow256 + s.String() + Off
}

// Path renders a label sequence as "nsubj > obj". The empty path is "∅".
func Path(labels []string) string {
	if len(labels) == 0 {
		return "∅"
	}
	return strings.Join(labels, " > ")
}

// SentenceString rebuilds the text of tokens from their offsets, with the
// tokens whose lemma is one of lemmas highlighted.
func (r *Renderer) SentenceString(tokens []sent.Token, lemmas ...string) string {
	if !hasOffsets(tokens) {
		words := make([]string, 0, len(tokens))
		for _, token := range tokens {
			words = append(words, r.colorToken(token, lemmas))
		}
		return strings.Join(words, " ")
	}

	var str strings.Builder
	end := -1
	for _, token := range tokens {
		l := len([]rune(token.Text))

		switch {
		case end < 0:
		case token.Idx < 0 || token.Idx < end:
			// syntactic word of a contraction, its text is already written
			continue
		case token.Idx > end:
			str.WriteString(strings.Repeat(" ", token.Idx-end))
		}

		str.WriteString(r.colorToken(token, lemmas))
		if token.Idx >= 0 {
			end = token.Idx + l
		} else {
			end += l
		}
	}

	return strings.ReplaceAll(str.String(), "\n", " ")
}

func hasOffsets(tokens []sent.Token) bool {
	for _, t := range tokens[min(1, len(tokens)):] {
		if t.Idx > 0 {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Renderer) colorToken(token sent.Token, lemmas []string) string {
	if !r.HasColor {
		return token.Text
	}

	for _, l := range lemmas {
		if l != "" && l == token.Lemma {
			return Green256 + token.Text + Off
		}
	}

	return token.Text
}
