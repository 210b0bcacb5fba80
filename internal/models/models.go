// package models defines the data model for the lyrics storage service
package models

import (
	"time"
)

// Lyric is a stored song text. Parts holds the structured body: an ordered
// sequence of stanzas, each an ordered sequence of lines.
//
// Created, Modified and Etag are server-assigned on persistence and never
// serialized to clients in the JSON body; they stay nil until the lyric has
// been stored.
type Lyric struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Parts    Parts      `json:"parts"`
	Created  *time.Time `json:"-"`
	Modified *time.Time `json:"-"`
	Etag     *Token     `json:"-"`
}

// NewLyric creates an unpersisted Lyric.
func NewLyric(id, title string, parts Parts) Lyric {
	return Lyric{ID: id, Title: title, Parts: parts}
}

// LyricPost is the client payload for creating or updating a lyric.
type LyricPost struct {
	Title string `json:"title"`
	Parts Parts  `json:"parts"`
}

// Playlist is an ordered collection of lyric ids. Members keeps its explicit
// order; position matters.
type Playlist struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Members  []string   `json:"members"`
	Created  *time.Time `json:"-"`
	Modified *time.Time `json:"-"`
	Etag     *Token     `json:"-"`
}

// NewPlaylist creates an unpersisted Playlist.
func NewPlaylist(id, title string, members []string) Playlist {
	return Playlist{ID: id, Title: title, Members: members}
}

// PlaylistPost is the client payload for creating or updating a playlist.
type PlaylistPost struct {
	Title   string   `json:"title"`
	Members []string `json:"members"`
}

// User is a credential record. The password is a bcrypt hash and is never
// serialized out.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Password string `json:"-"`
}

// Db is the whole-store import/export snapshot.
type Db struct {
	Lyrics    []Lyric    `json:"lyrics"`
	Playlists []Playlist `json:"playlists"`
}
