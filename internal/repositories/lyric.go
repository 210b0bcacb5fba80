package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/lipl/internal/backend"
	"github.com/desertthunder/lipl/internal/models"
	"github.com/desertthunder/lipl/internal/shared"
)

// LyricList returns all lyrics ordered by title.
func (c *Connection) LyricList(ctx context.Context) ([]models.Lyric, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lyricList(ctx)
}

func (c *Connection) lyricList(ctx context.Context) ([]models.Lyric, error) {
	rows, err := c.backend.Query(ctx, sqlGetLyricList, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query lyrics: %w", err)
	}

	lyrics := make([]models.Lyric, 0, len(rows))
	for _, row := range rows {
		lyric, err := models.LyricFromRow(row)
		if err != nil {
			return nil, err
		}
		lyrics = append(lyrics, lyric)
	}
	return lyrics, nil
}

// Lyric returns one lyric by id, or [shared.ErrNotFound].
func (c *Connection) Lyric(ctx context.Context, id string) (models.Lyric, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lyric(ctx, id)
}

func (c *Connection) lyric(ctx context.Context, id string) (models.Lyric, error) {
	rows, err := c.backend.Query(ctx, sqlGetLyric, []backend.Value{backend.Text(id)})
	if err != nil {
		return models.Lyric{}, fmt.Errorf("failed to query lyric: %w", err)
	}
	if len(rows) == 0 {
		return models.Lyric{}, fmt.Errorf("%w: lyric %s", shared.ErrNotFound, id)
	}
	return models.LyricFromRow(rows[0])
}

// InsertLyric stores a new lyric. The engine stamps created and modified;
// the etag is the lyric's content token.
func (c *Connection) InsertLyric(ctx context.Context, lyric models.Lyric) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLyric(ctx, lyric)
}

func (c *Connection) insertLyric(ctx context.Context, lyric models.Lyric) (bool, error) {
	count, err := c.backend.Execute(ctx, sqlInsertLyric, []backend.Value{
		backend.Text(lyric.ID),
		backend.Text(lyric.Title),
		backend.Text(lyric.Parts.Text()),
		backend.Text(lyric.Token().String()),
	})
	if err != nil {
		return false, fmt.Errorf("failed to insert lyric: %w", err)
	}
	return count > 0, nil
}

// UpdateLyric rewrites title and parts, re-stamps modified and rotates the
// etag. Returns false when no row matched the id.
func (c *Connection) UpdateLyric(ctx context.Context, lyric models.Lyric) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	count, err := c.backend.Execute(ctx, sqlUpdateLyric, []backend.Value{
		backend.Text(lyric.Title),
		backend.Text(lyric.Parts.Text()),
		backend.Text(lyric.Token().String()),
		backend.Text(lyric.ID),
	})
	if err != nil {
		return false, fmt.Errorf("failed to update lyric: %w", err)
	}
	return count > 0, nil
}

// DeleteLyric hard-deletes a lyric. Membership rows referencing it cascade
// away; playlists themselves survive.
func (c *Connection) DeleteLyric(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	count, err := c.backend.Execute(ctx, sqlDeleteLyric, []backend.Value{backend.Text(id)})
	if err != nil {
		return false, fmt.Errorf("failed to delete lyric: %w", err)
	}
	return count > 0, nil
}
