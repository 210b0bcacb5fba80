// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/lipl/internal/models"
	"github.com/desertthunder/lipl/internal/repositories"
	"github.com/desertthunder/lipl/internal/shared"
)

// Drivers lists the two execution backends; contract tests run against both.
var Drivers = []string{"sqlite3", "sqlite"}

// NewConnection opens an in-memory store for the given driver with the
// schema applied and closes it when the test finishes.
func NewConnection(t *testing.T, driver string) *repositories.Connection {
	t.Helper()

	cfg := shared.DatabaseConfig{Driver: driver, Path: ":memory:"}
	conn, err := repositories.OpenWithBootstrap(cfg, shared.NewLogger(nil))
	if err != nil {
		t.Fatalf("failed to open test store (%s): %v", driver, err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// SeedLyric inserts a lyric and reads it back with its server-assigned fields.
func SeedLyric(t *testing.T, conn *repositories.Connection, title string, parts models.Parts) models.Lyric {
	t.Helper()

	id := models.NewID().String()
	if _, err := conn.InsertLyric(context.Background(), models.NewLyric(id, title, parts)); err != nil {
		t.Fatalf("failed to seed lyric: %v", err)
	}

	lyric, err := conn.Lyric(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to read seeded lyric: %v", err)
	}
	return lyric
}

// SeedPlaylist inserts a playlist and reads it back.
func SeedPlaylist(t *testing.T, conn *repositories.Connection, title string, members []string) models.Playlist {
	t.Helper()

	id := models.NewID().String()
	if err := conn.InsertPlaylist(context.Background(), models.NewPlaylist(id, title, members), true); err != nil {
		t.Fatalf("failed to seed playlist: %v", err)
	}

	playlist, err := conn.Playlist(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to read seeded playlist: %v", err)
	}
	return playlist
}

// BasicAuth builds an Authorization header value for the given pair.
func BasicAuth(username, password string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", username, password)))
	return "Basic " + encoded
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}
