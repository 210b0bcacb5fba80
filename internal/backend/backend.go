package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/lipl/internal/shared"
)

// Backend executes parameterized SQL statements against one of the two
// interchangeable engines. BEGIN, COMMIT and ROLLBACK are issued through
// Execute as ordinary statements.
type Backend interface {
	// Query runs a read statement and returns all rows, column names
	// preserved in declaration order.
	Query(ctx context.Context, query string, params []Value) ([]Row, error)
	// Execute runs a write statement and returns the affected-row count.
	Execute(ctx context.Context, query string, params []Value) (int64, error)
	Close() error
}

// Open opens the backend selected by cfg.Driver. A non-empty bootstrap
// script is executed as a batch before returning, used only for cold-start
// schema creation.
func Open(cfg shared.DatabaseConfig, bootstrap string) (Backend, error) {
	switch cfg.Driver {
	case "sqlite3", "":
		return openSQLite3(cfg.Path, bootstrap)
	case "sqlite":
		return openModernc(cfg.Path, bootstrap)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownDriver, cfg.Driver)
	}
}

// openDatabase opens a database/sql handle for the given driver name and
// applies the bootstrap script.
func openDatabase(driver, path, bootstrap string) (*sql.DB, error) {
	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Transaction keywords are issued as plain statements, so every
	// statement of a request must land on the same connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if bootstrap != "" {
		if err := runBatch(db, bootstrap); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run bootstrap script: %w", err)
		}
	}

	return db, nil
}

// runBatch executes a multi-statement script statement by statement.
func runBatch(db *sql.DB, script string) error {
	for _, stmt := range strings.Split(script, ";") {
		stmt = removeComments(stmt)
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w\nStatement: %s", err, stmt)
		}
	}
	return nil
}

// removeComments removes SQL comments from a statement.
func removeComments(stmt string) string {
	lines := strings.Split(stmt, "\n")
	var result []string
	for _, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// queryRows runs a read statement on db and converts the result set.
func queryRows(ctx context.Context, db *sql.DB, query string, params []Value) ([]Row, error) {
	rows, err := db.QueryContext(ctx, query, args(params)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrBackend, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrBackend, err)
	}

	var out []Row
	for rows.Next() {
		raw := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrBackend, err)
		}
		values := make([]Value, len(columns))
		for i, v := range raw {
			values[i] = fromDriver(v)
		}
		out = append(out, NewRow(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrBackend, err)
	}

	return out, nil
}
