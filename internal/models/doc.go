// Package models defines domain entities and codecs for the lyrics storage service.
//
// The package contains three categories:
//
// 1. Entities: [Lyric], [Playlist], [User] and the whole-store [Db] snapshot,
// plus the client payloads [LyricPost] and [PlaylistPost].
//
// 2. Codecs: [Parts] (the stanza text codec that is the canonical
// serialization of a lyric body), [ID] (base58-encoded 128-bit identifiers)
// and [Token] (content-hash etags, per entity and per collection).
//
// 3. Decoders: one function per entity converting a generic [backend.Row]
// into its typed form. Decoders are enumerated explicitly for the small fixed
// entity set rather than driven by reflection.
package models
