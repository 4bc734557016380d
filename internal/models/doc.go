// Package models defines domain entities and persistence interfaces for the Mixtape playlist service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs crossing API and file boundaries
//   - [Song] : Catalog song metadata as served to clients and parsed from CSV imports
//   - [PlaylistView] : Playlist metadata with ordered member songs and the display cover projection
//   - [PlaylistEntry] : One membership row (playlist, song, track number)
//   - [SongUpdate] : Structured per-song update record for admin edits
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [User] : Registered accounts with opaque credentials
//   - [PersistedSong] : Catalog songs curated by the administrator
//   - [PersistedPlaylist] : User-owned playlists with immutable ownership
//
// All persistent entities implement the Model interface providing ID generation, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
