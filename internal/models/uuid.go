package models

import (
	"fmt"

	"github.com/desertthunder/lipl/internal/shared"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// ID is a random 128-bit entity identifier. Its external representation is
// the base58 encoding of the raw 16 bytes, never the hyphenated hex form.
type ID struct {
	inner uuid.UUID
}

// NewID generates a fresh random identifier.
func NewID() ID {
	return ID{inner: uuid.New()}
}

// String encodes the identifier's 16 raw bytes as base58.
func (id ID) String() string {
	return base58.Encode(id.inner[:])
}

// ParseID reverses [ID.String]: base58 decode to exactly 16 bytes.
func ParseID(s string) (ID, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %v", shared.ErrInvalidID, err)
	}
	inner, err := uuid.FromBytes(raw)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %v", shared.ErrInvalidID, err)
	}
	return ID{inner: inner}, nil
}

// ParseCanonicalID parses the hyphenated hex form, used to translate
// externally supplied uuids into their base58 representation.
func ParseCanonicalID(s string) (ID, error) {
	inner, err := uuid.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %v", shared.ErrInvalidID, err)
	}
	return ID{inner: inner}, nil
}
