package models

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/lipl/internal/shared"
)

func TestTokenEncoding(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, token := range []Token{0, 1, 0xdeadbeef, ^Token(0)} {
			encoded := token.String()
			if len(encoded) != 11 {
				t.Errorf("expected 11 characters, got %q", encoded)
			}

			decoded, err := ParseToken(encoded)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", encoded, err)
			}
			if decoded != token {
				t.Errorf("expected %d, got %d", token, decoded)
			}
		}
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := ParseToken("AAAA")
		if !errors.Is(err, shared.ErrTokenParse) {
			t.Errorf("expected token parse error, got %v", err)
		}
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		_, err := ParseToken("not valid!!")
		if !errors.Is(err, shared.ErrTokenParse) {
			t.Errorf("expected token parse error, got %v", err)
		}
	})
}

func TestLyricToken(t *testing.T) {
	lyric := NewLyric("id1", "Title", Parts{{"line one"}, {"line two", "line three"}})

	t.Run("deterministic", func(t *testing.T) {
		if lyric.Token() != lyric.Token() {
			t.Error("expected identical tokens for identical content")
		}

		same := NewLyric("id1", "Title", Parts{{"line one"}, {"line two", "line three"}})
		if same.Token() != lyric.Token() {
			t.Error("expected equal-content lyrics to share a token")
		}
	})

	t.Run("timestamps never feed the hash", func(t *testing.T) {
		stored := lyric
		now := time.Now()
		stored.Created = &now
		stored.Modified = &now

		if stored.Token() != lyric.Token() {
			t.Error("expected token to ignore timestamps")
		}
	})

	t.Run("content changes rotate the token", func(t *testing.T) {
		retitled := lyric
		retitled.Title = "Other"
		if retitled.Token() == lyric.Token() {
			t.Error("expected title change to rotate the token")
		}

		reflowed := lyric
		reflowed.Parts = Parts{{"line one", "line two"}, {"line three"}}
		if reflowed.Token() == lyric.Token() {
			t.Error("expected stanza boundaries to affect the token")
		}
	})
}

func TestPlaylistToken(t *testing.T) {
	playlist := NewPlaylist("p1", "Mix", []string{"a", "b", "c"})

	reordered := NewPlaylist("p1", "Mix", []string{"b", "a", "c"})
	if reordered.Token() == playlist.Token() {
		t.Error("expected member order to affect the token")
	}

	if NewPlaylist("p1", "Mix", []string{"a", "b", "c"}).Token() != playlist.Token() {
		t.Error("expected equal-content playlists to share a token")
	}
}

func TestListToken(t *testing.T) {
	first := NewLyric("a", "A", Parts{{"x"}})
	second := NewLyric("b", "B", Parts{{"y"}})

	t.Run("order sensitive", func(t *testing.T) {
		forward := ListToken([]Lyric{first, second})
		reversed := ListToken([]Lyric{second, first})
		if forward == reversed {
			t.Error("expected item order to affect the list token")
		}
	})

	t.Run("tracks item content", func(t *testing.T) {
		before := ListToken([]Lyric{first, second})

		changed := second
		changed.Title = "B2"
		after := ListToken([]Lyric{first, changed})

		if before == after {
			t.Error("expected item change to rotate the list token")
		}
	})

	t.Run("empty list is stable", func(t *testing.T) {
		if ListToken([]Lyric{}) != ListToken([]Lyric(nil)) {
			t.Error("expected empty and nil lists to share a token")
		}
	})
}

func TestDbToken(t *testing.T) {
	db := Db{
		Lyrics:    []Lyric{NewLyric("a", "A", Parts{{"x"}})},
		Playlists: []Playlist{NewPlaylist("p", "Mix", []string{"a"})},
	}

	if db.Token() != db.Token() {
		t.Error("expected identical tokens for identical snapshots")
	}

	grown := db
	grown.Lyrics = append([]Lyric{}, db.Lyrics...)
	grown.Lyrics = append(grown.Lyrics, NewLyric("b", "B", Parts{{"y"}}))
	if grown.Token() == db.Token() {
		t.Error("expected snapshot change to rotate the token")
	}
}
