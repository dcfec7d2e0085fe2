package zombiezen

import (
	"context"
	"encoding/json"

	sent "github.com/revelaction/qadiv/sentence"
	"github.com/revelaction/qadiv/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// DocHandler is a parse cache in the parses table.
type DocHandler struct {
	pool *sqlitex.Pool
}

var _ storage.ParseCache = (*DocHandler)(nil)

func NewDocHandler(pool *sqlitex.Pool) *DocHandler {
	return &DocHandler{pool: pool}
}

func (h *DocHandler) Read(ctx context.Context, text string) ([]sent.Token, bool, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return nil, false, err
	}
	defer h.pool.Put(conn)

	var tokens []sent.Token
	found := false
	err = sqlitex.Execute(conn, "SELECT tokens FROM parses WHERE key = ? AND text = ? LIMIT 1", &sqlitex.ExecOptions{
		Args: []interface{}{storage.Key(text), text},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			return json.Unmarshal([]byte(stmt.ColumnText(0)), &tokens)
		},
	})
	if err != nil {
		return nil, false, err
	}

	return tokens, found, nil
}

func (h *DocHandler) Write(ctx context.Context, text string, tokens []sent.Token) error {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	data, err := json.Marshal(tokens)
	if err != nil {
		return err
	}

	return sqlitex.Execute(conn, `
		INSERT INTO parses (key, text, tokens, updated)
		VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(key) DO UPDATE SET
			text = excluded.text,
			tokens = excluded.tokens,
			updated = excluded.updated
	`, &sqlitex.ExecOptions{
		Args: []interface{}{storage.Key(text), text, string(data)},
	})
}

// Count returns the number of cached parses.
func (h *DocHandler) Count(ctx context.Context) (int, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer h.pool.Put(conn)

	n, err := sqlitex.ResultInt(conn.Prep("SELECT count(*) FROM parses"))
	if err != nil {
		return 0, err
	}
	return n, nil
}
