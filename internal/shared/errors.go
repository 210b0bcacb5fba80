package shared

import "fmt"

var (
	// Lookup and payload errors
	ErrNotFound    = fmt.Errorf("not found")
	ErrInvalidBody = fmt.Errorf("invalid body")

	// Row decoding errors
	ErrMissingColumn  = fmt.Errorf("missing column")
	ErrMissingLyricID = fmt.Errorf("missing lyric id")
	ErrTimestampParse = fmt.Errorf("invalid timestamp")
	ErrTokenParse     = fmt.Errorf("invalid etag token")
	ErrInvalidID      = fmt.Errorf("invalid identifier")

	// Engine errors
	ErrBackend       = fmt.Errorf("backend failure")
	ErrUnknownDriver = fmt.Errorf("unknown database driver")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")
	ErrAuthHeader = fmt.Errorf("invalid authorization header")

	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
)
