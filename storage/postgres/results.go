// Package postgres stores analysis results in a PostgreSQL database.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/revelaction/qadiv/storage"
)

// ResultHandler writes item results to the divergence_results table.
type ResultHandler struct {
	Pool *pgxpool.Pool
}

var _ storage.ResultWriter = (*ResultHandler)(nil)

// NewResultHandler connects to the database and checks the connection.
func NewResultHandler(ctx context.Context, connStr string) (*ResultHandler, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &ResultHandler{Pool: pool}, nil
}

// Initialize creates the results table and its indices.
func (h *ResultHandler) Initialize(ctx context.Context) error {
	_, err := h.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS divergence_results (
			run_id UUID NOT NULL,
			idx INTEGER NOT NULL,
			item_id TEXT,
			question TEXT NOT NULL,
			sentence TEXT NOT NULL,
			span TEXT NOT NULL,
			status TEXT,
			distance INTEGER NOT NULL DEFAULT 0,
			lexical_variation DOUBLE PRECISION NOT NULL DEFAULT 0,
			anchor TEXT,
			anchor_root TEXT,
			question_path TEXT[],
			answer_path TEXT[],
			error TEXT,
			created TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (run_id, idx)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create divergence_results table: %w", err)
	}

	_, err = h.Pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS divergence_results_status_idx ON divergence_results (run_id, status)
	`)
	if err != nil {
		return fmt.Errorf("failed to create status index: %w", err)
	}

	return nil
}

func (h *ResultHandler) WriteResult(ctx context.Context, runID string, r storage.ItemResult) error {
	_, err := h.Pool.Exec(ctx, `
		INSERT INTO divergence_results (
			run_id, idx, item_id, question, sentence, span, status,
			distance, lexical_variation, anchor, anchor_root,
			question_path, answer_path, error
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (run_id, idx) DO UPDATE SET
			status = excluded.status,
			distance = excluded.distance,
			lexical_variation = excluded.lexical_variation,
			anchor = excluded.anchor,
			anchor_root = excluded.anchor_root,
			question_path = excluded.question_path,
			answer_path = excluded.answer_path,
			error = excluded.error
	`,
		runID,
		r.Index,
		r.Id,
		r.Question,
		r.Sentence,
		r.Span,
		r.Status,
		r.Distance,
		r.LexicalVariation,
		r.Anchor,
		r.AnchorRoot,
		r.QuestionPath,
		r.AnswerPath,
		r.Err)

	return err
}

// Results returns the results of a run ordered by item index.
func (h *ResultHandler) Results(ctx context.Context, runID string) ([]storage.ItemResult, error) {
	rows, err := h.Pool.Query(ctx, `
		SELECT idx, coalesce(item_id, ''), question, sentence, span, coalesce(status, ''),
			distance, lexical_variation, coalesce(anchor, ''), coalesce(anchor_root, ''),
			question_path, answer_path, coalesce(error, '')
		FROM divergence_results
		WHERE run_id = $1
		ORDER BY idx
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (storage.ItemResult, error) {
		var r storage.ItemResult
		err := row.Scan(&r.Index, &r.Id, &r.Question, &r.Sentence, &r.Span, &r.Status,
			&r.Distance, &r.LexicalVariation, &r.Anchor, &r.AnchorRoot,
			&r.QuestionPath, &r.AnswerPath, &r.Err)
		return r, err
	})
}

func (h *ResultHandler) Close() {
	h.Pool.Close()
}
