// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// Deletes are hard deletes: removing a song or playlist removes every membership row referencing it
// in the same transaction, so the membership relation never dangles.
//
// Key Implementations:
//   - [UserRepository] : Account persistence with username-based lookups
//   - [SongRepository] : Catalog persistence with substring search and bulk import/delete
//   - [PlaylistRepository] : Playlist lifecycle plus the membership reconciler
//
// The reconciler ([PlaylistRepository.Reconcile]) turns a submitted ordered list of song
// identifiers into the playlist's membership rows: duplicates collapse to their first
// occurrence, identifiers that do not resolve to a catalog row are dropped, and the
// surviving sequence is ranked 1..N as track_number. Rows are applied as an upsert on the
// unique (playlist_id, song_id) key, so re-running the same submission is idempotent.
//
// Sequence numbers provide stable, human-readable ordering (e.g., user #42, playlist #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
