package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"mixtape/internal/models"
	"mixtape/internal/shared"
)

// SongRepository implements [models.Repository] for [models.PersistedSong] persistence.
//
// Deleting a song removes every playlist membership referencing it in the same
// transaction.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new [SongRepository] with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new song into the database with generated ID and sequence
func (r *SongRepository) Create(song *models.PersistedSong) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	song.SetSequence(sequence)

	id := shared.GenerateID()
	song.SetID(id)

	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO songs (id, sequence, title, artist, album, cover_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		song.Title(),
		nullable(song.Artist()),
		nullable(song.Album()),
		nullable(song.CoverURL()),
		song.CreatedAt(),
		song.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// BulkCreate inserts all given songs in a single transaction.
//
// Either every song is inserted or none are; a failure partway rolls back the
// whole batch. Callers are expected to have filtered invalid rows beforehand.
func (r *SongRepository) BulkCreate(songs []*models.PersistedSong) error {
	if len(songs) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO songs (id, sequence, title, artist, album, cover_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, song := range songs {
		sequence, err := nextSequenceTx(tx, "songs")
		if err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}
		song.SetSequence(sequence)
		song.SetID(shared.GenerateID())

		if err := song.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		if _, err := stmt.Exec(
			song.ID(),
			sequence,
			song.Title(),
			nullable(song.Artist()),
			nullable(song.Album()),
			nullable(song.CoverURL()),
			song.CreatedAt(),
			song.UpdatedAt(),
		); err != nil {
			return fmt.Errorf("failed to insert song %q: %w", song.Title(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}

	return nil
}

// Get retrieves a song by ID
func (r *SongRepository) Get(id string) (*models.PersistedSong, error) {
	query := `
		SELECT id, sequence, title, artist, album, cover_url, created_at, updated_at
		FROM songs
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing song in the database
func (r *SongRepository) Update(song *models.PersistedSong) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	song.SetUpdatedAt(now)

	query := `
		UPDATE songs
		SET title = ?, artist = ?, album = ?, cover_url = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		song.Title(),
		nullable(song.Artist()),
		nullable(song.Album()),
		nullable(song.CoverURL()),
		now,
		song.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, song.ID())
	}

	return nil
}

// Delete removes a song and every playlist membership referencing it, atomically.
func (r *SongRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM playlist_songs WHERE song_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete song memberships: %w", err)
	}

	result, err := tx.Exec("DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit song delete: %w", err)
	}

	return nil
}

// DeleteMany removes the selected songs and their memberships in one transaction.
// Unknown identifiers are ignored.
func (r *SongRepository) DeleteMany(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.Exec("DELETE FROM playlist_songs WHERE song_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete song memberships: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM songs WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete song: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk delete: %w", err)
	}

	return nil
}

// DeleteAll empties the catalog along with every playlist membership.
func (r *SongRepository) DeleteAll() error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM playlist_songs"); err != nil {
		return fmt.Errorf("failed to delete memberships: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM songs"); err != nil {
		return fmt.Errorf("failed to delete songs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	return nil
}

// Search returns catalog songs matching the query as a case-insensitive
// substring of title, artist or album, ordered by title.
//
// An empty query returns the full catalog ordered by title. Pure read, no
// side effects.
func (r *SongRepository) Search(query string) ([]models.Song, error) {
	sqlQuery := `
		SELECT id, sequence, title, artist, album, cover_url, created_at, updated_at
		FROM songs
	`

	args := []any{}

	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		sqlQuery += `
		WHERE lower(title) LIKE ?
			OR lower(COALESCE(artist, '')) LIKE ?
			OR lower(COALESCE(album, '')) LIKE ?
		`
		args = append(args, pattern, pattern, pattern)
	}

	sqlQuery += " ORDER BY title ASC"

	rows, err := r.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []models.Song
	for rows.Next() {
		song, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song.DTO())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// Count returns the number of songs in the catalog.
func (r *SongRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM songs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return count, nil
}

// scanOne scans a single [sql.Row] into a [models.PersistedSong]
func (r *SongRepository) scanOne(row *sql.Row) (*models.PersistedSong, error) {
	var (
		id        string
		sequence  int
		title     string
		artist    sql.NullString
		album     sql.NullString
		coverURL  sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&id, &sequence, &title, &artist, &album, &coverURL, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrSongNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	return buildSong(id, sequence, title, artist, album, coverURL, createdAt, updatedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedSong]
func (r *SongRepository) scanRow(rows *sql.Rows) (*models.PersistedSong, error) {
	var (
		id        string
		sequence  int
		title     string
		artist    sql.NullString
		album     sql.NullString
		coverURL  sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	if err := rows.Scan(&id, &sequence, &title, &artist, &album, &coverURL, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	return buildSong(id, sequence, title, artist, album, coverURL, createdAt, updatedAt), nil
}

func buildSong(id string, sequence int, title string, artist, album, coverURL sql.NullString, createdAt, updatedAt time.Time) *models.PersistedSong {
	dto := models.Song{
		Title:    title,
		Artist:   artist.String,
		Album:    album.String,
		CoverURL: coverURL.String,
	}

	song := models.NewPersistedSong(sequence, dto)
	song.SetID(id)
	song.SetCreatedAt(createdAt)
	song.SetUpdatedAt(updatedAt)

	return song
}

// nullable converts an empty string to NULL for optional columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nextSequenceTx increments the sequence counter inside an existing transaction.
func nextSequenceTx(tx *sql.Tx, table string) (int, error) {
	sequenceTable := table + "_sequence"

	if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable)); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	return sequence, nil
}
