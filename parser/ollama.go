package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"

	sent "github.com/revelaction/qadiv/sentence"
)

const ollamaPrompt = `Analyse la phrase française suivante en dépendances universelles (UD).
Réponds uniquement en JSON: {"tokens": [{"id": 0, "head": 0, "dep": "root", "pos": "VERB", "lemma": "...", "text": "..."}]}.
Les id commencent à 0 dans l'ordre du texte. La racine a head égal à son propre id.
Phrase: `

// Ollama asks a local language model for a dependency parse in JSON.
// Its output is validated like any other backend.
type Ollama struct {
	Client *api.Client
	Model  string
}

var _ Parser = (*Ollama)(nil)

// NewOllama creates an Ollama parser. An empty host falls back to
// OLLAMA_HOST.
func NewOllama(host, model string) (*Ollama, error) {
	hostURL := envconfig.Host()
	if host != "" {
		u, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
		}
		hostURL = u
	}

	return &Ollama{
		Client: api.NewClient(hostURL, http.DefaultClient),
		Model:  model,
	}, nil
}

type ollamaParse struct {
	Tokens []sent.Token `json:"tokens"`
}

func (o *Ollama) Parse(ctx context.Context, text string) ([]sent.Token, error) {
	stream := false
	req := api.GenerateRequest{
		Model:  o.Model,
		Prompt: ollamaPrompt + text,
		Format: json.RawMessage(`"json"`),
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": 0,
		},
	}

	var b strings.Builder
	err := o.Client.Generate(ctx, &req, func(resp api.GenerateResponse) error {
		_, err := b.WriteString(resp.Response)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ollama generate: %w", err)
	}

	return decodeOllama(b.String(), text)
}

func decodeOllama(out, text string) ([]sent.Token, error) {
	var p ollamaParse
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		return nil, fmt.Errorf("%w: ollama output: %v", ErrInvalidParse, err)
	}

	if len(p.Tokens) == 0 {
		return nil, fmt.Errorf("%w: ollama returned no tokens", ErrInvalidParse)
	}

	setOffsets(text, p.Tokens)

	if err := Validate(p.Tokens); err != nil {
		return nil, err
	}

	return p.Tokens, nil
}
