package backend

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/lipl/internal/shared"

	_ "modernc.org/sqlite"
)

const sqlGetChanges = "SELECT changes()"

// Modernc is the pure-Go engine. Per the shared contract its write path does
// not rely on the driver's native count: after every write it reads the
// change counter of the previous statement with a follow-up query, binding
// nothing and taking column 0 of row 0.
type Modernc struct {
	db *sql.DB
}

func openModernc(path, bootstrap string) (*Modernc, error) {
	db, err := openDatabase("sqlite", path, bootstrap)
	if err != nil {
		return nil, err
	}
	return &Modernc{db: db}, nil
}

// Query implements [Backend].
func (b *Modernc) Query(ctx context.Context, query string, params []Value) ([]Row, error) {
	return queryRows(ctx, b.db, query, params)
}

// Execute implements [Backend].
func (b *Modernc) Execute(ctx context.Context, query string, params []Value) (int64, error) {
	if _, err := b.db.ExecContext(ctx, query, args(params)...); err != nil {
		return 0, fmt.Errorf("%w: %w", shared.ErrBackend, err)
	}

	rows, err := b.Query(ctx, sqlGetChanges, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	value, ok := rows[0].Index(0)
	if !ok {
		return 0, fmt.Errorf("%w: changes()", shared.ErrMissingColumn)
	}
	count, ok := value.Int()
	if !ok {
		return 0, fmt.Errorf("%w: changes()", shared.ErrMissingColumn)
	}
	return count, nil
}

// Close closes the underlying handle.
func (b *Modernc) Close() error {
	return b.db.Close()
}
