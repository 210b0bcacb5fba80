package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/lipl/internal/backend"
	"github.com/desertthunder/lipl/internal/shared"
)

// textColumn reads a named column that must hold text. SQLite columns are
// dynamically typed, so a value stored as raw bytes is accepted and
// converted as well.
func textColumn(row backend.Row, name string) (string, error) {
	value, err := row.Column(name)
	if err != nil {
		return "", err
	}
	return valueText(value, name)
}

func valueText(value backend.Value, name string) (string, error) {
	if text, ok := value.Text(); ok {
		return text, nil
	}
	if blob, ok := value.Blob(); ok {
		return string(blob), nil
	}
	return "", fmt.Errorf("%w: column %q holds no text", shared.ErrBackend, name)
}

// timeColumn reads a named column holding an RFC3339 timestamp.
func timeColumn(row backend.Row, name string) (*time.Time, error) {
	text, err := textColumn(row, name)
	if err != nil {
		return nil, err
	}
	stamp, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTimestampParse, err)
	}
	return &stamp, nil
}

// tokenColumn reads a named column holding an encoded etag token.
func tokenColumn(row backend.Row, name string) (*Token, error) {
	text, err := textColumn(row, name)
	if err != nil {
		return nil, err
	}
	token, err := ParseToken(text)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// LyricFromRow decodes one lyric row. The parts column is a flat text blob
// and passes through [ParseParts].
func LyricFromRow(row backend.Row) (Lyric, error) {
	var lyric Lyric
	var err error

	if lyric.ID, err = textColumn(row, "id"); err != nil {
		return Lyric{}, err
	}
	if lyric.Title, err = textColumn(row, "title"); err != nil {
		return Lyric{}, err
	}
	text, err := textColumn(row, "parts")
	if err != nil {
		return Lyric{}, err
	}
	lyric.Parts = ParseParts(text)

	if lyric.Created, err = timeColumn(row, "created"); err != nil {
		return Lyric{}, err
	}
	if lyric.Modified, err = timeColumn(row, "modified"); err != nil {
		return Lyric{}, err
	}
	if lyric.Etag, err = tokenColumn(row, "etag"); err != nil {
		return Lyric{}, err
	}

	return lyric, nil
}

// PlaylistFromRow decodes one playlist row. Membership lives in a join table,
// so the decoded playlist always starts with an empty member list; the
// repository runs the follow-up fetch.
func PlaylistFromRow(row backend.Row) (Playlist, error) {
	var playlist Playlist
	var err error

	if playlist.ID, err = textColumn(row, "id"); err != nil {
		return Playlist{}, err
	}
	if playlist.Title, err = textColumn(row, "title"); err != nil {
		return Playlist{}, err
	}
	if playlist.Created, err = timeColumn(row, "created"); err != nil {
		return Playlist{}, err
	}
	if playlist.Modified, err = timeColumn(row, "modified"); err != nil {
		return Playlist{}, err
	}
	if playlist.Etag, err = tokenColumn(row, "etag"); err != nil {
		return Playlist{}, err
	}

	return playlist, nil
}

// UserFromRow decodes one credential row.
func UserFromRow(row backend.Row) (User, error) {
	var user User
	var err error

	if user.ID, err = textColumn(row, "id"); err != nil {
		return User{}, err
	}
	if user.Name, err = textColumn(row, "name"); err != nil {
		return User{}, err
	}
	if user.Password, err = textColumn(row, "password"); err != nil {
		return User{}, err
	}

	return user, nil
}

// LyricIDFromRow decodes the lyric id of one membership row.
func LyricIDFromRow(row backend.Row) (string, error) {
	value, err := row.Column("lyric_id")
	if err != nil {
		return "", shared.ErrMissingLyricID
	}
	id, err := valueText(value, "lyric_id")
	if err != nil {
		return "", shared.ErrMissingLyricID
	}
	return id, nil
}
