package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sent "github.com/revelaction/qadiv/sentence"
	"github.com/revelaction/qadiv/storage"
)

// DocHandler is a parse cache on a directory: one JSON doc per text, named
// by the key of the text.
type DocHandler struct {
	docDir string
}

var _ storage.ParseCache = (*DocHandler)(nil)

// NewDocHandler creates a filesystem parse cache, creating docDir if needed.
func NewDocHandler(docDir string) (*DocHandler, error) {
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		return nil, err
	}
	return &DocHandler{
		docDir: docDir,
	}, nil
}

func (h *DocHandler) path(text string) string {
	return filepath.Join(h.docDir, storage.Key(text)+".json")
}

func (h *DocHandler) Read(_ context.Context, text string) ([]sent.Token, bool, error) {
	content, err := os.ReadFile(h.path(text))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var doc sent.Doc
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, false, fmt.Errorf("cached doc %s: %w", h.path(text), err)
	}

	// sha1 collision or hand edited file
	if doc.Title != text || len(doc.Tokens) == 0 {
		return nil, false, nil
	}

	return doc.Tokens[0], true, nil
}

func (h *DocHandler) Write(_ context.Context, text string, tokens []sent.Token) error {
	doc := sent.Doc{Title: text, Tokens: [][]sent.Token{tokens}}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	// write then rename so concurrent readers never see a partial file
	tmp, err := os.CreateTemp(h.docDir, ".doc-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), h.path(text))
}

// Names returns the keys of the cached texts.
func (h *DocHandler) Names() ([]string, error) {
	files, err := os.ReadDir(h.docDir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, file := range files {
		if filepath.Ext(file.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(file.Name(), ".json"))
	}

	return names, nil
}
