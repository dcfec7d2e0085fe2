package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/qadiv/batch"
	"github.com/revelaction/qadiv/stat"
)

// JSONRenderer writes reports as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

type jsonReport struct {
	Report  *batch.Report `json:"report"`
	Summary stat.Stats    `json:"summary"`
}

// Report serializes the report and its summary as one JSON object.
func (r *JSONRenderer) Report(rep *batch.Report, s stat.Stats) error {
	enc := json.NewEncoder(r.W)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Report: rep, Summary: s})
}

// compile-time interface check
var _ ReportRenderer = (*JSONRenderer)(nil)
