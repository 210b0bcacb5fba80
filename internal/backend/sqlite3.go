package backend

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/lipl/internal/shared"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite3 is the embedded cgo engine. Its driver reports affected-row
// counts natively.
type SQLite3 struct {
	db *sql.DB
}

func openSQLite3(path, bootstrap string) (*SQLite3, error) {
	db, err := openDatabase("sqlite3", path, bootstrap)
	if err != nil {
		return nil, err
	}
	return &SQLite3{db: db}, nil
}

// Query implements [Backend].
func (b *SQLite3) Query(ctx context.Context, query string, params []Value) ([]Row, error) {
	return queryRows(ctx, b.db, query, params)
}

// Execute implements [Backend].
func (b *SQLite3) Execute(ctx context.Context, query string, params []Value) (int64, error) {
	result, err := b.db.ExecContext(ctx, query, args(params)...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", shared.ErrBackend, err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", shared.ErrBackend, err)
	}
	return count, nil
}

// Close closes the underlying handle.
func (b *SQLite3) Close() error {
	return b.db.Close()
}
