package repositories

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lipl/internal/backend"
	"github.com/desertthunder/lipl/internal/shared"
)

//go:embed bootstrap.sql
var bootstrapScript string

// Statement text is fixed per operation. Timestamps are stamped by the
// engine's own clock, never client-supplied.
const (
	sqlBeginTransaction = "BEGIN TRANSACTION"
	sqlRollback         = "ROLLBACK"
	sqlCommit           = "COMMIT"

	sqlForeignKeysOn = "PRAGMA foreign_keys = ON"

	stamp = "strftime('%Y-%m-%dT%H:%M:%fZ', 'now')"

	sqlGetLyricList = "SELECT id, title, parts, created, modified, etag FROM lyric ORDER BY title"
	sqlGetLyric     = "SELECT id, title, parts, created, modified, etag FROM lyric WHERE id = ?"
	sqlInsertLyric  = "INSERT INTO lyric (id, title, parts, created, modified, etag) VALUES (?, ?, ?, " + stamp + ", " + stamp + ", ?)"
	sqlUpdateLyric  = "UPDATE lyric SET title = ?, parts = ?, modified = " + stamp + ", etag = ? WHERE id = ?"
	sqlDeleteLyric  = "DELETE FROM lyric WHERE id = ?"

	sqlGetPlaylistList = "SELECT id, title, created, modified, etag FROM playlist ORDER BY title"
	sqlGetPlaylist     = "SELECT id, title, created, modified, etag FROM playlist WHERE id = ?"
	sqlInsertPlaylist  = "INSERT INTO playlist (id, title, created, modified, etag) VALUES (?, ?, " + stamp + ", " + stamp + ", ?)"
	sqlUpdatePlaylist  = "UPDATE playlist SET title = ?, modified = " + stamp + ", etag = ? WHERE id = ?"
	sqlDeletePlaylist  = "DELETE FROM playlist WHERE id = ?"

	sqlGetMemberLyrics = "SELECT lyric_id FROM member WHERE playlist_id = ? ORDER BY ordering"
	sqlInsertMember    = "INSERT INTO member (playlist_id, lyric_id, ordering) VALUES (?, ?, ?)"
	sqlDeleteMember    = "DELETE FROM member WHERE playlist_id = ?"

	sqlUpsertListEtag = "INSERT INTO list_etag (id, etag) VALUES (?, ?) ON CONFLICT (id) DO UPDATE SET etag = excluded.etag"

	sqlGetUser    = "SELECT id, name, password FROM user WHERE name = ?"
	sqlUpsertUser = "INSERT INTO user (id, name, password) VALUES (?, ?, ?) ON CONFLICT (name) DO UPDATE SET password = excluded.password"
)

// Connection orchestrates all store operations: it builds statements, runs
// them through the execution backend, decodes rows into entities, and
// sequences multi-statement writes inside transactions.
type Connection struct {
	backend backend.Backend
	logger  *log.Logger

	// mu serializes whole operations. Transaction keywords run as plain
	// statements on a single session, so the statement sequences of
	// concurrent requests must never interleave.
	mu sync.Mutex
}

// Open opens the configured backend for steady-state use and turns foreign
// key enforcement on.
func Open(cfg shared.DatabaseConfig, logger *log.Logger) (*Connection, error) {
	return open(cfg, "", logger)
}

// OpenWithBootstrap opens the configured backend and applies the schema
// script first, for cold starts and in-memory stores.
func OpenWithBootstrap(cfg shared.DatabaseConfig, logger *log.Logger) (*Connection, error) {
	return open(cfg, bootstrapScript, logger)
}

func open(cfg shared.DatabaseConfig, bootstrap string, logger *log.Logger) (*Connection, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	b, err := backend.Open(cfg, bootstrap)
	if err != nil {
		return nil, err
	}

	connection := &Connection{backend: b, logger: logger}
	logger.Debug("database connection established", "driver", cfg.Driver, "path", cfg.Path)

	if _, err := b.Execute(context.Background(), sqlForeignKeysOn, nil); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	logger.Debug("foreign key enforcement enabled")

	return connection, nil
}

// Close closes the underlying backend.
func (c *Connection) Close() error {
	return c.backend.Close()
}

func (c *Connection) begin(ctx context.Context) error {
	_, err := c.backend.Execute(ctx, sqlBeginTransaction, nil)
	return err
}

func (c *Connection) rollback(ctx context.Context) error {
	_, err := c.backend.Execute(ctx, sqlRollback, nil)
	return err
}

func (c *Connection) commit(ctx context.Context) error {
	_, err := c.backend.Execute(ctx, sqlCommit, nil)
	return err
}

// inTransaction runs steps strictly in order inside one transaction. The
// first failing step aborts the sequence and rolls back; a failing rollback
// is logged as a warning and never masks the step's error.
func (c *Connection) inTransaction(ctx context.Context, steps ...func() error) error {
	if err := c.begin(ctx); err != nil {
		return err
	}

	for _, step := range steps {
		if err := step(); err != nil {
			if rbErr := c.rollback(ctx); rbErr != nil {
				shared.LoggerFromContext(ctx).Warn("rollback failed", "error", rbErr)
			}
			return err
		}
	}

	return c.commit(ctx)
}
