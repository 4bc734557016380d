package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"mixtape/internal/models"
	"mixtape/internal/shared"
)

// PlaylistRepository implements playlist lifecycle persistence and the
// membership reconciler.
//
// Every multi-row mutation (create with members, edit with members, delete
// with cascade) runs in a single transaction: either all statements commit or
// none do.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new [PlaylistRepository] with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist with generated ID and sequence and reconciles
// its membership from songIDs in the same transaction.
//
// Returns the resulting ordered membership.
func (r *PlaylistRepository) Create(playlist *models.PersistedPlaylist, songIDs []string) ([]models.PlaylistEntry, error) {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}
	playlist.SetSequence(sequence)

	id := shared.GenerateID()
	playlist.SetID(id)

	if err := playlist.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO playlists (id, sequence, user_id, title, description, cover_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		id,
		sequence,
		playlist.UserID(),
		playlist.Title(),
		playlist.Description(),
		nullable(playlist.CoverURL()),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert playlist: %w", err)
	}

	// Create mode never clears: there is nothing to clear yet.
	entries, err := reconcileTx(tx, id, songIDs, false)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit playlist create: %w", err)
	}

	return entries, nil
}

// Update modifies playlist metadata and reconciles its membership in replace
// mode: songs absent from songIDs lose their membership rows.
func (r *PlaylistRepository) Update(playlist *models.PersistedPlaylist, songIDs []string) ([]models.PlaylistEntry, error) {
	if err := playlist.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	playlist.SetUpdatedAt(now)

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE playlists
		SET title = ?, description = ?, cover_url = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := tx.Exec(query,
		playlist.Title(),
		playlist.Description(),
		nullable(playlist.CoverURL()),
		now,
		playlist.ID(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlist.ID())
	}

	entries, err := reconcileTx(tx, playlist.ID(), songIDs, true)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit playlist update: %w", err)
	}

	return entries, nil
}

// Delete removes a playlist and all of its membership rows, atomically.
// No membership may outlive its playlist.
func (r *PlaylistRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM playlist_songs WHERE playlist_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete memberships: %w", err)
	}

	result, err := tx.Exec("DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist delete: %w", err)
	}

	return nil
}

// Reconcile applies a submitted ordered list of song identifiers to an
// existing playlist's membership.
//
// Duplicate identifiers collapse to their first occurrence, identifiers that
// do not resolve to a catalog row are silently dropped, and the surviving
// sequence is ranked 1..N as track_number. Rows are upserted on the unique
// (playlist_id, song_id) key, so the operation is idempotent and safe to
// retry. In replace mode prior memberships are cleared first.
//
// Returns [shared.ErrPlaylistNotFound] for an unknown playlist identifier.
func (r *PlaylistRepository) Reconcile(playlistID string, songIDs []string, replace bool) ([]models.PlaylistEntry, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM playlists WHERE id = ?)", playlistID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check playlist: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	entries, err := reconcileTx(tx, playlistID, songIDs, replace)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reconcile: %w", err)
	}

	return entries, nil
}

// reconcileTx performs the reconciliation inside an existing transaction.
func reconcileTx(tx *sql.Tx, playlistID string, songIDs []string, replace bool) ([]models.PlaylistEntry, error) {
	requested := shared.DedupeStrings(songIDs)

	// Resolve against the catalog; unknown identifiers are dropped, not
	// errors. The catalog and a submitted selection can race.
	resolved := make([]string, 0, len(requested))
	for _, songID := range requested {
		var exists bool
		if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM songs WHERE id = ?)", songID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to resolve song %s: %w", songID, err)
		}
		if exists {
			resolved = append(resolved, songID)
		}
	}

	if replace {
		if _, err := tx.Exec("DELETE FROM playlist_songs WHERE playlist_id = ?", playlistID); err != nil {
			return nil, fmt.Errorf("failed to clear memberships: %w", err)
		}
	}

	stmt, err := tx.Prepare(`
		INSERT INTO playlist_songs (playlist_id, song_id, track_number)
		VALUES (?, ?, ?)
		ON CONFLICT(playlist_id, song_id) DO UPDATE SET track_number = excluded.track_number
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare membership upsert: %w", err)
	}
	defer stmt.Close()

	entries := make([]models.PlaylistEntry, 0, len(resolved))
	for rank, songID := range resolved {
		entry := models.PlaylistEntry{
			PlaylistID:  playlistID,
			SongID:      songID,
			TrackNumber: rank + 1,
		}

		if _, err := stmt.Exec(entry.PlaylistID, entry.SongID, entry.TrackNumber); err != nil {
			return nil, fmt.Errorf("failed to upsert membership for song %s: %w", songID, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Get retrieves a playlist by ID
func (r *PlaylistRepository) Get(id string) (*models.PersistedPlaylist, error) {
	query := `
		SELECT id, sequence, user_id, title, description, cover_url, created_at, updated_at
		FROM playlists
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// List retrieves all playlists, newest first, optionally filtered by owner.
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.PersistedPlaylist, error) {
	query := `
		SELECT id, sequence, user_id, title, description, cover_url, created_at, updated_at
		FROM playlists
	`

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.PersistedPlaylist
	for rows.Next() {
		playlist, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// Entries returns the membership rows for a playlist ordered by track number.
func (r *PlaylistRepository) Entries(playlistID string) ([]models.PlaylistEntry, error) {
	query := `
		SELECT playlist_id, song_id, track_number
		FROM playlist_songs
		WHERE playlist_id = ?
		ORDER BY track_number ASC
	`

	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer rows.Close()

	var entries []models.PlaylistEntry
	for rows.Next() {
		var entry models.PlaylistEntry
		if err := rows.Scan(&entry.PlaylistID, &entry.SongID, &entry.TrackNumber); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// GetView loads the read-side projection of a playlist: metadata joined with
// the owner username and the member songs in track order. The display cover is
// computed by the view, not stored.
func (r *PlaylistRepository) GetView(id string) (*models.PlaylistView, error) {
	query := `
		SELECT p.id, p.user_id, COALESCE(u.username, ''), p.title, p.description, p.cover_url, p.created_at
		FROM playlists p
		LEFT JOIN users u ON p.user_id = u.id
		WHERE p.id = ?
	`

	var (
		view     models.PlaylistView
		coverURL sql.NullString
	)

	err := r.db.QueryRow(query, id).Scan(
		&view.ID,
		&view.OwnerID,
		&view.Owner,
		&view.Title,
		&view.Description,
		&coverURL,
		&view.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist view: %w", err)
	}
	view.CoverURL = coverURL.String

	songs, err := r.memberSongs(id)
	if err != nil {
		return nil, err
	}
	view.Songs = songs

	return &view, nil
}

// ListViews loads the projections of all playlists, newest first.
func (r *PlaylistRepository) ListViews() ([]models.PlaylistView, error) {
	playlists, err := r.List(map[string]any{})
	if err != nil {
		return nil, err
	}

	views := make([]models.PlaylistView, 0, len(playlists))
	for _, playlist := range playlists {
		view, err := r.GetView(playlist.ID())
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	return views, nil
}

// memberSongs loads a playlist's songs ordered by track number.
func (r *PlaylistRepository) memberSongs(playlistID string) ([]models.Song, error) {
	query := `
		SELECT s.id, s.title, s.artist, s.album, s.cover_url
		FROM songs s
		JOIN playlist_songs ps ON ps.song_id = s.id
		WHERE ps.playlist_id = ?
		ORDER BY ps.track_number ASC
	`

	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer rows.Close()

	songs := []models.Song{}
	for rows.Next() {
		var (
			song     models.Song
			artist   sql.NullString
			album    sql.NullString
			coverURL sql.NullString
		)

		if err := rows.Scan(&song.ID, &song.Title, &artist, &album, &coverURL); err != nil {
			return nil, fmt.Errorf("failed to scan playlist song: %w", err)
		}

		song.Artist = artist.String
		song.Album = album.String
		song.CoverURL = coverURL.String
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// scanOne scans a single [sql.Row] into a [models.PersistedPlaylist]
func (r *PlaylistRepository) scanOne(row *sql.Row) (*models.PersistedPlaylist, error) {
	var (
		id          string
		sequence    int
		userID      string
		title       string
		description string
		coverURL    sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&id, &sequence, &userID, &title, &description, &coverURL, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	return buildPlaylist(id, sequence, userID, title, description, coverURL, createdAt, updatedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedPlaylist]
func (r *PlaylistRepository) scanRow(rows *sql.Rows) (*models.PersistedPlaylist, error) {
	var (
		id          string
		sequence    int
		userID      string
		title       string
		description string
		coverURL    sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := rows.Scan(&id, &sequence, &userID, &title, &description, &coverURL, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	return buildPlaylist(id, sequence, userID, title, description, coverURL, createdAt, updatedAt), nil
}

func buildPlaylist(id string, sequence int, userID, title, description string, coverURL sql.NullString, createdAt, updatedAt time.Time) *models.PersistedPlaylist {
	playlist := models.NewPersistedPlaylist(sequence, userID, title, description, coverURL.String)
	playlist.SetID(id)
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)
	return playlist
}
