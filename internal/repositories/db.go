package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/lipl/internal/backend"
	"github.com/desertthunder/lipl/internal/models"
)

// Keys of the two aggregate tokens in the list_etag table.
const (
	lyricsListKey    = "lyrics"
	playlistsListKey = "playlists"
)

// ExportDb snapshots the whole store.
func (c *Connection) ExportDb(ctx context.Context) (models.Db, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exportDb(ctx)
}

func (c *Connection) exportDb(ctx context.Context) (models.Db, error) {
	lyrics, err := c.lyricList(ctx)
	if err != nil {
		return models.Db{}, err
	}
	playlists, err := c.playlistList(ctx)
	if err != nil {
		return models.Db{}, err
	}
	return models.Db{Lyrics: lyrics, Playlists: playlists}, nil
}

// ReplaceDb replaces the whole store with the snapshot in one transaction:
// clear all three tables, insert every lyric, insert every playlist, refresh
// the two aggregate list tokens.
func (c *Connection) ReplaceDb(ctx context.Context, db models.Db) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.inTransaction(ctx,
		func() error {
			_, err := c.backend.Execute(ctx, "DELETE FROM playlist", nil)
			return err
		},
		func() error {
			_, err := c.backend.Execute(ctx, "DELETE FROM lyric", nil)
			return err
		},
		func() error {
			_, err := c.backend.Execute(ctx, "DELETE FROM member", nil)
			return err
		},
		func() error {
			for _, lyric := range db.Lyrics {
				if _, err := c.insertLyric(ctx, lyric); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			for _, playlist := range db.Playlists {
				if err := c.insertPlaylist(ctx, playlist, false); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			return c.refreshListTokens(ctx, db)
		},
	)
}

// RefreshListTokens recomputes both aggregate tokens from the store's
// current content.
func (c *Connection) RefreshListTokens(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	db, err := c.exportDb(ctx)
	if err != nil {
		return err
	}
	return c.refreshListTokens(ctx, db)
}

// refreshListTokens rewrites the aggregate tokens for both collections.
func (c *Connection) refreshListTokens(ctx context.Context, db models.Db) error {
	for key, token := range map[string]models.Token{
		lyricsListKey:    models.ListToken(db.Lyrics),
		playlistsListKey: models.ListToken(db.Playlists),
	} {
		_, err := c.backend.Execute(ctx, sqlUpsertListEtag, []backend.Value{
			backend.Text(key),
			backend.Text(token.String()),
		})
		if err != nil {
			return fmt.Errorf("failed to refresh %s list etag: %w", key, err)
		}
	}
	return nil
}
