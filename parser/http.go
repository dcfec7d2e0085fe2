package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	sent "github.com/revelaction/qadiv/sentence"
)

// HTTP is a client of a parse service wrapping spaCy or Stanza. The
// service receives {"text": ...} and answers with the token array.
type HTTP struct {
	URL    string
	Client *http.Client
}

var _ Parser = (*HTTP)(nil)

// NewHTTP returns an HTTP parser posting to url.
func NewHTTP(url string) *HTTP {
	return &HTTP{URL: url, Client: http.DefaultClient}
}

type parseRequest struct {
	Text string `json:"text"`
}

func (h *HTTP) Parse(ctx context.Context, text string) ([]sent.Token, error) {
	body, err := json.Marshal(parseRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("parse service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("parse service: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var tokens []sent.Token
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("parse service: decode tokens: %w", err)
	}

	if err := Validate(tokens); err != nil {
		return nil, err
	}

	return tokens, nil
}
