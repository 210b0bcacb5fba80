package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/lipl/internal/backend"
	"github.com/desertthunder/lipl/internal/models"
	"github.com/desertthunder/lipl/internal/shared"
)

// members returns a playlist's lyric ids in stored order.
func (c *Connection) members(ctx context.Context, playlistID string) ([]string, error) {
	rows, err := c.backend.Query(ctx, sqlGetMemberLyrics, []backend.Value{backend.Text(playlistID)})
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		id, err := models.LyricIDFromRow(row)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// deleteMembers removes all membership rows of a playlist.
func (c *Connection) deleteMembers(ctx context.Context, playlistID string) (int64, error) {
	count, err := c.backend.Execute(ctx, sqlDeleteMember, []backend.Value{backend.Text(playlistID)})
	if err != nil {
		return 0, fmt.Errorf("failed to delete members: %w", err)
	}
	return count, nil
}

// insertMembers re-inserts membership rows in list order with a 1-based
// position column.
func (c *Connection) insertMembers(ctx context.Context, playlistID string, lyricIDs []string) error {
	for i, lyricID := range lyricIDs {
		_, err := c.backend.Execute(ctx, sqlInsertMember, []backend.Value{
			backend.Text(playlistID),
			backend.Text(lyricID),
			backend.Integer(int64(i + 1)),
		})
		if err != nil {
			return fmt.Errorf("failed to insert member %s: %w", lyricID, err)
		}
	}
	return nil
}

// PlaylistList returns all playlists ordered by title, members populated per
// playlist by a follow-up ordered query.
func (c *Connection) PlaylistList(ctx context.Context) ([]models.Playlist, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playlistList(ctx)
}

func (c *Connection) playlistList(ctx context.Context) ([]models.Playlist, error) {
	rows, err := c.backend.Query(ctx, sqlGetPlaylistList, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}

	playlists := make([]models.Playlist, 0, len(rows))
	for _, row := range rows {
		playlist, err := models.PlaylistFromRow(row)
		if err != nil {
			return nil, err
		}
		if playlist.Members, err = c.members(ctx, playlist.ID); err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	return playlists, nil
}

// Playlist returns one playlist by id, or [shared.ErrNotFound].
func (c *Connection) Playlist(ctx context.Context, id string) (models.Playlist, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playlist(ctx, id)
}

func (c *Connection) playlist(ctx context.Context, id string) (models.Playlist, error) {
	rows, err := c.backend.Query(ctx, sqlGetPlaylist, []backend.Value{backend.Text(id)})
	if err != nil {
		return models.Playlist{}, fmt.Errorf("failed to query playlist: %w", err)
	}
	if len(rows) == 0 {
		return models.Playlist{}, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}

	playlist, err := models.PlaylistFromRow(rows[0])
	if err != nil {
		return models.Playlist{}, err
	}
	if playlist.Members, err = c.members(ctx, playlist.ID); err != nil {
		return models.Playlist{}, err
	}
	return playlist, nil
}

// InsertPlaylist stores a new playlist with its membership rows. When
// transactional is false the caller manages the surrounding transaction.
func (c *Connection) InsertPlaylist(ctx context.Context, playlist models.Playlist, transactional bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertPlaylist(ctx, playlist, transactional)
}

func (c *Connection) insertPlaylist(ctx context.Context, playlist models.Playlist, transactional bool) error {
	steps := []func() error{
		func() error {
			_, err := c.backend.Execute(ctx, sqlInsertPlaylist, []backend.Value{
				backend.Text(playlist.ID),
				backend.Text(playlist.Title),
				backend.Text(playlist.Token().String()),
			})
			if err != nil {
				return fmt.Errorf("failed to insert playlist: %w", err)
			}
			return nil
		},
		func() error {
			return c.insertMembers(ctx, playlist.ID, playlist.Members)
		},
	}

	if transactional {
		return c.inTransaction(ctx, steps...)
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePlaylist replaces a playlist's title and its whole member list in one
// transaction: delete members, update the row, re-insert members in order.
func (c *Connection) UpdatePlaylist(ctx context.Context, playlist models.Playlist) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.inTransaction(ctx,
		func() error {
			_, err := c.deleteMembers(ctx, playlist.ID)
			return err
		},
		func() error {
			count, err := c.backend.Execute(ctx, sqlUpdatePlaylist, []backend.Value{
				backend.Text(playlist.Title),
				backend.Text(playlist.Token().String()),
				backend.Text(playlist.ID),
			})
			if err != nil {
				return fmt.Errorf("failed to update playlist: %w", err)
			}
			if count == 0 {
				return fmt.Errorf("%w: playlist %s", shared.ErrNotFound, playlist.ID)
			}
			return nil
		},
		func() error {
			return c.insertMembers(ctx, playlist.ID, playlist.Members)
		},
	)
}

// DeletePlaylist hard-deletes a playlist; its membership rows cascade away.
func (c *Connection) DeletePlaylist(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	count, err := c.backend.Execute(ctx, sqlDeletePlaylist, []backend.Value{backend.Text(id)})
	if err != nil {
		return false, fmt.Errorf("failed to delete playlist: %w", err)
	}
	return count > 0, nil
}
