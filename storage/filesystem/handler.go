package filesystem

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/revelaction/qadiv/storage"
)

// ResultHandler appends item results as JSON lines to <root>/<run id>.jsonl.
type ResultHandler struct {
	root string

	mu sync.Mutex
}

var _ storage.ResultWriter = (*ResultHandler)(nil)

func NewResultHandler(root string) (*ResultHandler, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &ResultHandler{root: root}, nil
}

func (rh *ResultHandler) path(runID string) string {
	return filepath.Join(rh.root, runID+".jsonl")
}

func (rh *ResultHandler) WriteResult(_ context.Context, runID string, r storage.ItemResult) error {
	line, err := json.Marshal(r)
	if err != nil {
		return err
	}

	rh.mu.Lock()
	defer rh.mu.Unlock()

	f, err := os.OpenFile(rh.path(runID), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Results reads back the results of a run in write order.
func (rh *ResultHandler) Results(runID string) ([]storage.ItemResult, error) {
	f, err := os.Open(rh.path(runID))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var results []storage.ItemResult
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var r storage.ItemResult
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, scanner.Err()
}
