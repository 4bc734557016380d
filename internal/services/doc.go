// Package services implements the application core on top of the repositories:
// playlist lifecycle, catalog curation, search and authentication.
//
// # Identity
//
// Every mutating operation takes an explicit [Identity] value: the caller's
// user ID plus an administrator flag. No ambient session state is consulted;
// the authorization predicate [CanMutatePlaylist] is a pure function of that
// identity and the target playlist's owner.
//
// # Playlist Lifecycle
//
// [PlaylistService] creates, edits and deletes playlists, delegating all
// membership changes to the repository reconciler. Edits run the reconciler in
// replace mode so songs removed from a selection do not linger at stale track
// numbers. The two-phase form protocol (search vs. save) is served by
// [PlaylistService.ComposeSearch], which filters catalog candidates and echoes
// the submitted selection deduplicated in order, persisting nothing.
//
// # Catalog Curation
//
// [CatalogService] requires an administrator identity for every mutation.
// Bulk import is partial-success by row content (rows without a title are
// skipped) but all-or-nothing with respect to writes: parsing problems abort
// before anything touches the database.
//
// # Authentication
//
// [AuthService] registers users and checks opaque credentials. Administrator
// status is a fixed credential check against the configured admin account,
// not a role table: a deliberate simplification.
//
// # Error Handling
//
// Services return typed errors from the shared package:
//   - [shared.ErrValidation] : a required field is missing
//   - [shared.ErrNotAuthenticated] : no caller identity on an operation that needs one
//   - [shared.ErrForbidden] : the authorization predicate rejected the caller
//   - [shared.ErrPlaylistNotFound] / [shared.ErrSongNotFound] : target entity absent
//   - [shared.ErrImportFailed] : the import source could not be parsed, nothing written
package services
