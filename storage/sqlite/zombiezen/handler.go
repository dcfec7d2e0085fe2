package zombiezen

import (
	"context"
	"encoding/json"

	"github.com/revelaction/qadiv/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// ResultHandler stores item results in the results table.
type ResultHandler struct {
	pool *sqlitex.Pool
}

var _ storage.ResultWriter = (*ResultHandler)(nil)

func NewResultHandler(pool *sqlitex.Pool) *ResultHandler {
	return &ResultHandler{pool: pool}
}

func (h *ResultHandler) WriteResult(ctx context.Context, runID string, r storage.ItemResult) error {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	qPath, err := json.Marshal(r.QuestionPath)
	if err != nil {
		return err
	}
	aPath, err := json.Marshal(r.AnswerPath)
	if err != nil {
		return err
	}

	return sqlitex.Execute(conn, `
		INSERT OR REPLACE INTO results (run_id, idx, item_id, question, sentence, span, status,
			distance, lexical_variation, anchor, anchor_root, question_path, answer_path, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, &sqlitex.ExecOptions{
		Args: []interface{}{
			runID, r.Index, r.Id, r.Question, r.Sentence, r.Span, r.Status,
			r.Distance, r.LexicalVariation, r.Anchor, r.AnchorRoot,
			string(qPath), string(aPath), r.Err,
		},
	})
}

// Results returns the results of a run ordered by item index.
func (h *ResultHandler) Results(ctx context.Context, runID string) ([]storage.ItemResult, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var results []storage.ItemResult
	err = sqlitex.Execute(conn, `
		SELECT idx, item_id, question, sentence, span, status, distance, lexical_variation,
			anchor, anchor_root, question_path, answer_path, error
		FROM results WHERE run_id = ? ORDER BY idx`, &sqlitex.ExecOptions{
		Args: []interface{}{runID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			r := storage.ItemResult{
				Index:            stmt.ColumnInt(0),
				Id:               stmt.ColumnText(1),
				Question:         stmt.ColumnText(2),
				Sentence:         stmt.ColumnText(3),
				Span:             stmt.ColumnText(4),
				Status:           stmt.ColumnText(5),
				Distance:         stmt.ColumnInt(6),
				LexicalVariation: stmt.ColumnFloat(7),
				Anchor:           stmt.ColumnText(8),
				AnchorRoot:       stmt.ColumnText(9),
				Err:              stmt.ColumnText(12),
			}
			if err := json.Unmarshal([]byte(stmt.ColumnText(10)), &r.QuestionPath); err != nil {
				return err
			}
			if err := json.Unmarshal([]byte(stmt.ColumnText(11)), &r.AnswerPath); err != nil {
				return err
			}
			results = append(results, r)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}
