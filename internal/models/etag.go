package models

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/desertthunder/lipl/internal/shared"
)

// Token is an opaque version tag: the 64-bit FNV-1a digest of an entity's
// content fields, printed as unpadded base64 over the digest's little-endian
// bytes. Identical content always yields the identical token; created,
// modified and stored etag values never feed the hash.
type Token uint64

// String encodes the token for transport.
func (t Token) String() string {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], uint64(t))
	return base64.RawStdEncoding.EncodeToString(raw[:])
}

// ParseToken reverses [Token.String]. Anything that does not decode to
// exactly 8 bytes fails.
func ParseToken(s string) (Token, error) {
	raw, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrTokenParse, err)
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("%w: %d bytes", shared.ErrTokenParse, len(raw))
	}
	return Token(binary.LittleEndian.Uint64(raw)), nil
}

// Tagged is implemented by every entity carrying a content-derived token.
type Tagged interface {
	Token() Token
}

// Field separators keep the hash order-sensitive and unambiguous across
// adjacent fields and nested sequences.
const (
	fieldSep = 0x00
	groupSep = 0x01
)

type digest struct {
	inner interface {
		Write(p []byte) (int, error)
		Sum64() uint64
	}
}

func newDigest() *digest {
	return &digest{inner: fnv.New64a()}
}

func (d *digest) text(s string) {
	d.inner.Write([]byte(s))
	d.inner.Write([]byte{fieldSep})
}

func (d *digest) group() {
	d.inner.Write([]byte{groupSep})
}

func (d *digest) token(t Token) {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], uint64(t))
	d.inner.Write(raw[:])
}

func (d *digest) sum() Token {
	return Token(d.inner.Sum64())
}

// Token hashes id, title and parts, in that order, stanzas and lines
// iterated in sequence.
func (l Lyric) Token() Token {
	d := newDigest()
	d.text(l.ID)
	d.text(l.Title)
	for _, stanza := range l.Parts {
		for _, line := range stanza {
			d.text(line)
		}
		d.group()
	}
	return d.sum()
}

// Token hashes id, title and members, in that order.
func (p Playlist) Token() Token {
	d := newDigest()
	d.text(p.ID)
	d.text(p.Title)
	for _, member := range p.Members {
		d.text(member)
	}
	return d.sum()
}

// Token hashes the two collection tokens, lyrics first.
func (db Db) Token() Token {
	d := newDigest()
	d.token(ListToken(db.Lyrics))
	d.token(ListToken(db.Playlists))
	return d.sum()
}

// ListToken derives a collection-level token from the ordered per-item
// tokens, used for cheap "has anything changed" checks on whole lists.
func ListToken[T Tagged](items []T) Token {
	d := newDigest()
	for _, item := range items {
		d.token(item.Token())
	}
	return d.sum()
}
